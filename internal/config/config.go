package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	GitHub   GitHubConfig   `yaml:"github"`
	Store    StoreConfig    `yaml:"store"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Theme    ThemeConfig    `yaml:"theme"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"Drafts"`
	Heading string `yaml:"heading" default:"Markdown from GitHub"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"3000"`
}

// GitHubConfig addresses the repository drafts are published to and the file
// shown on the home page. The token is normally supplied through the
// environment rather than the config file.
type GitHubConfig struct {
	Token      string `yaml:"token,omitempty"`
	Owner      string `yaml:"owner" default:""`
	Repo       string `yaml:"repo" default:""`
	Branch     string `yaml:"branch" default:"main"`
	TargetPath string `yaml:"target_path" default:"content"`
	SourcePath string `yaml:"source_path" default:"content/hello.md"`
	APIURL     string `yaml:"api_url" default:""`
}

// PublishReady reports whether the credentials and repository identity needed
// to publish are present.
func (g GitHubConfig) PublishReady() bool {
	return g.Token != "" && g.Owner != "" && g.Repo != ""
}

// RepositoryReady reports whether a repository is addressed at all.
func (g GitHubConfig) RepositoryReady() bool {
	return g.Owner != "" && g.Repo != ""
}

type StoreConfig struct {
	Backend     string   `yaml:"backend" default:"memory"`
	Path        string   `yaml:"path" default:"drafts"`
	Compression string   `yaml:"compression" default:"none"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket" default:""`
	Prefix          string `yaml:"prefix" default:"drafts/"`
	Endpoint        string `yaml:"endpoint" default:""`
	Region          string `yaml:"region" default:"auto"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

type MarkdownConfig struct {
	Renderer string `yaml:"renderer" default:"goldmark"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark-theme"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

var AppConfig = Default()

// Default returns a configuration with every default tag applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig reads the YAML file at path on top of the defaults, applies the
// environment overrides and stores the result in AppConfig.
func LoadConfig(path string) error {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(config, os.LookupEnv)

	AppConfig = config
	return nil
}

// envOverrides maps environment variables to the fields they replace.
var envOverrides = map[string]func(*Config, string){
	"GITHUB_TOKEN":         func(c *Config, v string) { c.GitHub.Token = v },
	"GITHUB_OWNER":         func(c *Config, v string) { c.GitHub.Owner = v },
	"GITHUB_REPO":          func(c *Config, v string) { c.GitHub.Repo = v },
	"GITHUB_BRANCH":        func(c *Config, v string) { c.GitHub.Branch = v },
	"GITHUB_TARGET_PATH":   func(c *Config, v string) { c.GitHub.TargetPath = v },
	"GITHUB_API_URL":       func(c *Config, v string) { c.GitHub.APIURL = v },
	"MARKDOWN_SOURCE_PATH": func(c *Config, v string) { c.GitHub.SourcePath = v },
	"MARKDOWN_RENDERER":    func(c *Config, v string) { c.Markdown.Renderer = v },
	"HOST":                 func(c *Config, v string) { c.Server.Host = v },
	"PORT":                 func(c *Config, v string) { c.Server.Port = v },
	"LOG_LEVEL":            func(c *Config, v string) { c.Logging.Level = v },
	"LOG_FORMAT":           func(c *Config, v string) { c.Logging.Format = v },
	"STORE_BACKEND":        func(c *Config, v string) { c.Store.Backend = v },
	"STORE_PATH":           func(c *Config, v string) { c.Store.Path = v },
	"STORE_COMPRESSION":    func(c *Config, v string) { c.Store.Compression = v },
	"S3_BUCKET":            func(c *Config, v string) { c.Store.S3.Bucket = v },
	"S3_PREFIX":            func(c *Config, v string) { c.Store.S3.Prefix = v },
	"S3_ENDPOINT":          func(c *Config, v string) { c.Store.S3.Endpoint = v },
	"S3_REGION":            func(c *Config, v string) { c.Store.S3.Region = v },
	"S3_ACCESS_KEY_ID":     func(c *Config, v string) { c.Store.S3.AccessKeyID = v },
	"S3_SECRET_ACCESS_KEY": func(c *Config, v string) { c.Store.S3.SecretAccessKey = v },
}

// ApplyEnv overrides config fields with non-empty environment values.
// Empty values are ignored so an unset GITHUB_BRANCH keeps "main".
func ApplyEnv(config *Config, lookup func(string) (string, bool)) {
	for key, set := range envOverrides {
		if v, ok := lookup(key); ok && v != "" {
			set(config, v)
		}
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
