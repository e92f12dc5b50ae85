package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateIndex  = "index.html"
	TemplateDrafts = "drafts.html"
)

const (
	// DraftsKey is the single key the draft collection is stored under.
	DraftsKey = "drafts_v1"
)
