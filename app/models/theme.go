package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
)

// ParseTheme maps anything other than "light" or "dark" to DefaultTheme.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s)
	default:
		return DefaultTheme
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
