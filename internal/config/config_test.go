package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const ErrWriteConfigContentFmt = "Failed to write config content: %v"

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)

	// This test mainly ensures the function doesn't panic
}

func TestApplyDefaults(t *testing.T) {
	t.Run("Config struct defaults", func(t *testing.T) {
		config := &Config{}
		applyDefaults(config)

		if config.Site.Name != "Drafts" {
			t.Errorf("Expected site name 'Drafts', got %q", config.Site.Name)
		}
		if config.Server.Port != "3000" {
			t.Errorf("Expected port '3000', got %q", config.Server.Port)
		}

		if config.GitHub.Branch != "main" {
			t.Errorf("Expected branch 'main', got %q", config.GitHub.Branch)
		}
		if config.GitHub.TargetPath != "content" {
			t.Errorf("Expected target path 'content', got %q", config.GitHub.TargetPath)
		}
		if config.GitHub.SourcePath != "content/hello.md" {
			t.Errorf("Expected source path 'content/hello.md', got %q", config.GitHub.SourcePath)
		}
		if config.GitHub.Token != "" || config.GitHub.Owner != "" || config.GitHub.Repo != "" {
			t.Error("Expected credentials and repository identity to have no defaults")
		}

		if config.Store.Backend != "memory" {
			t.Errorf("Expected memory store backend, got %q", config.Store.Backend)
		}
		if config.Store.Compression != "none" {
			t.Errorf("Expected no compression, got %q", config.Store.Compression)
		}
		if config.Store.S3.Prefix != "drafts/" {
			t.Errorf("Expected S3 prefix 'drafts/', got %q", config.Store.S3.Prefix)
		}

		if config.Markdown.Renderer != RendererGoldmark {
			t.Errorf("Expected goldmark renderer, got %q", config.Markdown.Renderer)
		}

		if config.Theme.Default != DarkTheme {
			t.Errorf("Expected default theme %q, got %q", DarkTheme, config.Theme.Default)
		}
		if !config.Theme.AllowSwitching {
			t.Error("Expected theme switching to be enabled by default")
		}
		if config.Theme.SyntaxHighlighting.DefaultDark != DefaultDarkSyntaxTheme {
			t.Errorf("Expected dark syntax theme %q, got %q", DefaultDarkSyntaxTheme, config.Theme.SyntaxHighlighting.DefaultDark)
		}

		if config.Logging.Level != "info" {
			t.Errorf("Expected logging level 'info', got %q", config.Logging.Level)
		}
	})

	t.Run("Custom struct with various field types", func(t *testing.T) {
		type TestStruct struct {
			StringField string   `default:"test-string"`
			BoolField   bool     `default:"true"`
			IntField    int      `default:"42"`
			SliceField  []string `default:"a,b,c"`
			NoDefault   string
		}

		test := &TestStruct{}
		applyDefaults(test)

		if test.StringField != "test-string" {
			t.Errorf("Expected string field 'test-string', got %q", test.StringField)
		}
		if !test.BoolField {
			t.Error("Expected bool field to be true")
		}
		if test.IntField != 42 {
			t.Errorf("Expected int field 42, got %d", test.IntField)
		}
		if !reflect.DeepEqual(test.SliceField, []string{"a", "b", "c"}) {
			t.Errorf("Expected slice [a b c], got %v", test.SliceField)
		}
		if test.NoDefault != "" {
			t.Errorf("Expected no default field to be empty, got %q", test.NoDefault)
		}
	})

	t.Run("Invalid default values", func(t *testing.T) {
		type InvalidStruct struct {
			BadBool bool `default:"not-a-bool"`
			BadInt  int  `default:"not-an-int"`
		}

		test := &InvalidStruct{}
		applyDefaults(test)

		if test.BadBool {
			t.Error("Expected invalid bool default to remain false")
		}
		if test.BadInt != 0 {
			t.Errorf("Expected invalid int default to remain 0, got %d", test.BadInt)
		}
	})

	t.Run("Non-struct input", func(t *testing.T) {
		stringVar := "test"
		applyDefaults(&stringVar)
		applyDefaults(stringVar)
		applyDefaults(42)
		applyDefaults(nil)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GITHUB_TOKEN":         "ghp_secret",
		"GITHUB_OWNER":         "octo",
		"GITHUB_REPO":          "notes",
		"GITHUB_BRANCH":        "",
		"MARKDOWN_SOURCE_PATH": "docs/index.md",
		"STORE_BACKEND":        "sqlite",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	ApplyEnv(cfg, lookup)

	if cfg.GitHub.Token != "ghp_secret" || cfg.GitHub.Owner != "octo" || cfg.GitHub.Repo != "notes" {
		t.Errorf("Expected GitHub identity from env, got %+v", cfg.GitHub)
	}
	if cfg.GitHub.Branch != "main" {
		t.Errorf("Expected empty GITHUB_BRANCH to keep default, got %q", cfg.GitHub.Branch)
	}
	if cfg.GitHub.SourcePath != "docs/index.md" {
		t.Errorf("Expected source path from env, got %q", cfg.GitHub.SourcePath)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Expected sqlite backend from env, got %q", cfg.Store.Backend)
	}
}

func TestGitHubConfigReadiness(t *testing.T) {
	tests := []struct {
		name         string
		cfg          GitHubConfig
		publishOK    bool
		repositoryOK bool
	}{
		{"empty", GitHubConfig{}, false, false},
		{"no token", GitHubConfig{Owner: "o", Repo: "r"}, false, true},
		{"no repo", GitHubConfig{Token: "t", Owner: "o"}, false, false},
		{"complete", GitHubConfig{Token: "t", Owner: "o", Repo: "r"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.PublishReady(); got != tt.publishOK {
				t.Errorf("PublishReady() = %v, want %v", got, tt.publishOK)
			}
			if got := tt.cfg.RepositoryReady(); got != tt.repositoryOK {
				t.Errorf("RepositoryReady() = %v, want %v", got, tt.repositoryOK)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel)
	SetLogger(logger)

	t.Run("Load non-existent config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		err := LoadConfig("non-existent-config.yaml")
		if err != nil {
			t.Errorf("Expected no error for non-existent config file, got %v", err)
		}
		if AppConfig.Site.Name != "Drafts" {
			t.Errorf("Expected default site name, got %q", AppConfig.Site.Name)
		}
	})

	t.Run("Load valid config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		configContent := `
server:
  port: "8080"
github:
  owner: "octo"
  repo: "notes"
  branch: "drafts"
store:
  backend: "file"
  path: "/tmp/drafts"
`
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
			t.Fatalf(ErrWriteConfigContentFmt, err)
		}

		if err := LoadConfig(path); err != nil {
			t.Fatalf("Expected no error loading valid config, got %v", err)
		}

		if AppConfig.Server.Port != "8080" && os.Getenv("PORT") == "" {
			t.Errorf("Expected port '8080', got %q", AppConfig.Server.Port)
		}
		if AppConfig.GitHub.Branch != "drafts" && os.Getenv("GITHUB_BRANCH") == "" {
			t.Errorf("Expected branch 'drafts', got %q", AppConfig.GitHub.Branch)
		}
		if AppConfig.Store.Backend != "file" && os.Getenv("STORE_BACKEND") == "" {
			t.Errorf("Expected file backend, got %q", AppConfig.Store.Backend)
		}

		// Defaults still apply to unspecified fields
		if AppConfig.GitHub.TargetPath != "content" && os.Getenv("GITHUB_TARGET_PATH") == "" {
			t.Errorf("Expected default target path, got %q", AppConfig.GitHub.TargetPath)
		}
	})

	t.Run("Load invalid YAML file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("github:\n  owner: \"octo\"\n  invalid yaml syntax [\n"), 0o644); err != nil {
			t.Fatalf(ErrWriteConfigContentFmt, err)
		}

		err := LoadConfig(path)
		if err == nil {
			t.Fatal("Expected error loading invalid config file")
		}
		if !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("Expected parse error, got %v", err)
		}
	})
}
