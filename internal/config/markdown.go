package config

const (
	RendererGoldmark = "goldmark"
	RendererClassic  = "classic"
	RendererMmark    = "mmark"
)
