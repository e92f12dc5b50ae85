package config

const (
	// Publish errors
	ErrNotConfigured  = "Server not configured. Set GITHUB_TOKEN, GITHUB_OWNER, and GITHUB_REPO in .env.local"
	ErrInvalidPayload = "Invalid payload. `drafts` array required."
	ErrUnknownGateway = "Unknown error"
	ErrPublishFailed  = "Publish failed"

	// Editor errors
	ErrTitleRequired    = "Title required"
	ErrNoDrafts         = "No drafts to publish"
	ErrDraftNotFound    = "Draft not found"
	ErrLoadingDraftsFmt = "Failed to load drafts: %v"

	// Render fallbacks
	MissingRepositoryDoc = "# Missing repository configuration\nPlease set GITHUB_OWNER and GITHUB_REPO in environment."
	FetchFailedDocFmt    = "# Failed to fetch file\nStatus: %d %s\n\n%s"
	FetchErrorDocFmt     = "# Error fetching file\n%s"
	NoContentDoc         = "No content found."

	ErrInternalServerError = "Internal server error"
)
