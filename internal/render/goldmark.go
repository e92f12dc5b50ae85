package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// RenderMarkdownGoldmark renders GitHub flavoured Markdown. Raw HTML in the
// source is omitted.
func RenderMarkdownGoldmark(md []byte, highlightTheme string) []byte {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			renderer.WithNodeRenderers(
				util.Prioritized(&fencedCodeRenderer{theme: highlightTheme}, 200),
			),
		),
	)

	var buf bytes.Buffer
	if err := engine.Convert(md, &buf); err != nil {
		renderLogger.Error().Err(err).Msg("goldmark conversion failed")
		return []byte("<pre>" + escape(string(md)) + "</pre>")
	}
	return buf.Bytes()
}

type fencedCodeRenderer struct {
	theme string
}

func (r *fencedCodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *fencedCodeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	var lang string
	if l := n.Language(source); l != nil {
		lang = string(l)
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	fmt.Fprintf(w, "<div class=\"highlight\">%s</div>\n", HighlightCode(code.String(), lang, r.theme))
	return ast.WalkSkipChildren, nil
}
