package internal

// Version is rewritten by scripts/version on release.
var Version = "0.1.0"

// AppName is used for the keyring service, the config file and the TUI title.
const AppName = "fortdoc"

type uiTheme struct {
	PrimaryColor   string
	SecondaryColor string
	ErrorColor     string
	TertiaryColor  string
	WarningColor   string
}

var Theme = uiTheme{
	PrimaryColor:   "75",      // Brighter blue
	SecondaryColor: "#ccc",    // Lighter gray for better readability
	ErrorColor:     "#FF5F5F", // Red for errors
	TertiaryColor:  "#666666", // Gray for hints
	WarningColor:   "#FFAF5F",
}
