// Package routes defines HTTP route constants for the application.
package routes

// API Routes
const (
	// Static and assets
	RobotsPath     = "/robots.txt"
	ThemeToggle    = "/theme/toggle"
	SyntaxThemeGet = "/syntax-theme/{theme}"
	MetricsPath    = "/metrics"

	// Root
	RootPath = "/"

	// Editor routes
	Drafts       = "/drafts"
	DraftEdit    = "/drafts/{id}"
	DraftDelete  = "/drafts/{id}/delete"
	DraftPublish = "/drafts/publish"

	// API
	APIPublish = "/api/publish"
)
