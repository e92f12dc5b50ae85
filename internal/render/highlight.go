package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/debemdeboas/the-drafts/internal/theme"
)

// HighlightCode returns chroma HTML for code. On failure the code is
// returned escaped so it can still be embedded.
func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderLogger.Debug().Err(err).Str("language", language).Msg("Tokenise failed")
		return "<pre>" + escape(code) + "</pre>"
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, styles.Get(highlightTheme), iterator); err != nil {
		renderLogger.Debug().Err(err).Str("language", language).Msg("Format failed")
		return "<pre>" + escape(code) + "</pre>"
	}
	return buf.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
