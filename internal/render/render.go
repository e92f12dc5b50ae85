// Package render converts Markdown to HTML with chroma highlighted code blocks.
package render

import (
	"github.com/rs/zerolog"

	"github.com/debemdeboas/the-drafts/internal/config"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// RenderMarkdown renders md with the engine selected in the configuration.
func RenderMarkdown(md []byte, highlightTheme string) []byte {
	return RenderWith(config.AppConfig.Markdown.Renderer, md, highlightTheme)
}

// RenderWith renders md with the named engine. Unknown names use goldmark.
func RenderWith(engine string, md []byte, highlightTheme string) []byte {
	switch engine {
	case config.RendererClassic:
		return RenderMarkdownClassic(md, highlightTheme)
	case config.RendererMmark:
		return RenderMarkdownMmark(md, highlightTheme)
	default:
		return RenderMarkdownGoldmark(md, highlightTheme)
	}
}
