// Package source fetches the Markdown file shown on the home page.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/gateway"
)

var sourceLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	sourceLogger = l
}

type FileReader interface {
	GetFile(ctx context.Context, path, ref string) (string, error)
}

// Document is the Markdown to display and the repository path it came from.
type Document struct {
	Markdown   string
	SourcePath string
}

// Display returns the Markdown, or a placeholder when the file was empty.
func (d Document) Display() string {
	if d.Markdown == "" {
		return config.NoContentDoc
	}
	return d.Markdown
}

type Loader struct {
	files FileReader
	cfg   config.GitHubConfig
}

func NewLoader(files FileReader, cfg config.GitHubConfig) *Loader {
	return &Loader{files: files, cfg: cfg}
}

// Load fetches the configured file on every call. Failures are turned into a
// diagnostic document, so Load never fails.
func (l *Loader) Load(ctx context.Context) Document {
	doc := Document{SourcePath: l.cfg.SourcePath}

	if !l.cfg.RepositoryReady() || l.files == nil {
		doc.Markdown = config.MissingRepositoryDoc
		return doc
	}

	content, err := l.files.GetFile(ctx, l.cfg.SourcePath, l.cfg.Branch)
	if err != nil {
		doc.Markdown = diagnostic(err)
		sourceLogger.Warn().
			Err(err).
			Str("path", l.cfg.SourcePath).
			Msg("Failed to fetch source document")
		return doc
	}

	doc.Markdown = content
	return doc
}

func diagnostic(err error) string {
	var ge *gateway.Error
	if errors.As(err, &ge) {
		return fmt.Sprintf(config.FetchFailedDocFmt, ge.Status, http.StatusText(ge.Status), ge.Message)
	}
	return fmt.Sprintf(config.FetchErrorDocFmt, err)
}
