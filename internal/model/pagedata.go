package model

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/theme"
)

type PageData struct {
	SiteName string
	Title    string

	PageURL string

	Theme          string
	AllowSwitching bool

	SyntaxCSS   template.CSS
	SyntaxTheme string
}

func NewPageData(r *http.Request) *PageData {
	syntaxtheme := theme.GetSyntaxThemeFromRequest(r)
	return &PageData{
		SiteName:       config.AppConfig.Site.Name,
		Title:          config.AppConfig.Site.Name,
		PageURL:        r.URL.Path,
		Theme:          theme.GetThemeFromRequest(r),
		AllowSwitching: config.AppConfig.Theme.AllowSwitching,
		SyntaxTheme:    syntaxtheme,
		SyntaxCSS:      theme.GenerateSyntaxCSS(syntaxtheme),
	}
}

func (pd *PageData) IsDrafts() bool {
	return strings.HasPrefix(pd.PageURL, "/drafts")
}
