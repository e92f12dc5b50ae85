package config

const (
	LightTheme string = "light-theme"
	DarkTheme  string = "dark-theme"

	LightThemeIcon string = `<span class="theme-icon">&#9728;</span>`
	DarkThemeIcon  string = `<span class="theme-icon">&#9790;</span>`

	DefaultDarkSyntaxTheme  string = "gruvbox"
	DefaultLightSyntaxTheme string = "catppuccin-latte"

	DefaultTheme string = DarkTheme
)
