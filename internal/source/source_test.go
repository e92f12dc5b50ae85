package source

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/gateway"
)

type stubReader struct {
	content string
	err     error

	path, ref string
}

func (s *stubReader) GetFile(_ context.Context, path, ref string) (string, error) {
	s.path, s.ref = path, ref
	return s.content, s.err
}

var repoConfig = config.GitHubConfig{Owner: "octo", Repo: "notes", Branch: "main", SourcePath: "content/hello.md"}

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.GitHubConfig
		reader *stubReader
		want   string
	}{
		{
			name:   "missing repository",
			cfg:    config.GitHubConfig{SourcePath: "content/hello.md"},
			reader: &stubReader{content: "unused"},
			want:   "# Missing repository configuration\nPlease set GITHUB_OWNER and GITHUB_REPO in environment.",
		},
		{
			name:   "success",
			cfg:    repoConfig,
			reader: &stubReader{content: "# Hello\n"},
			want:   "# Hello\n",
		},
		{
			name:   "gateway failure",
			cfg:    repoConfig,
			reader: &stubReader{err: &gateway.Error{Status: 404, Message: "Not Found"}},
			want:   "# Failed to fetch file\nStatus: 404 Not Found\n\nNot Found",
		},
		{
			name:   "transport failure",
			cfg:    repoConfig,
			reader: &stubReader{err: errors.New("dial tcp: no route to host")},
			want:   "# Error fetching file\ndial tcp: no route to host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewLoader(tt.reader, tt.cfg).Load(context.Background())

			if doc.Markdown != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, doc.Markdown)
			}
			if doc.SourcePath != "content/hello.md" {
				t.Errorf("Expected source path to be reported, got %q", doc.SourcePath)
			}
		})
	}
}

func TestLoadUsesBranch(t *testing.T) {
	reader := &stubReader{content: "x"}
	NewLoader(reader, repoConfig).Load(context.Background())

	if reader.path != "content/hello.md" || reader.ref != "main" {
		t.Errorf("Expected content/hello.md@main, got %s@%s", reader.path, reader.ref)
	}
}

func TestDisplayEmpty(t *testing.T) {
	if got := (Document{}).Display(); got != config.NoContentDoc {
		t.Errorf("Expected %q, got %q", config.NoContentDoc, got)
	}
	if got := (Document{Markdown: "x"}).Display(); got != "x" {
		t.Errorf("Expected x, got %q", got)
	}
}

func TestLoadThroughGateway(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("# From GitHub\n"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octo/notes/contents/content/hello.md" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		io.WriteString(w, `{"type":"file","encoding":"base64","content":"`+encoded+`"}`)
	}))
	defer srv.Close()

	cfg := repoConfig
	cfg.APIURL = srv.URL
	client, err := gateway.New(cfg, srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	doc := NewLoader(client, cfg).Load(context.Background())
	if doc.Markdown != "# From GitHub\n" {
		t.Errorf("Expected fetched document, got %q", doc.Markdown)
	}

	cfg.SourcePath = "missing.md"
	doc = NewLoader(client, cfg).Load(context.Background())
	if doc.Markdown != "# Failed to fetch file\nStatus: 404 Not Found\n\nNot Found" {
		t.Errorf("Expected fetch failure document, got %q", doc.Markdown)
	}
}
