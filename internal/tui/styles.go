package tui

import "daylist/internal/tui/theme"

var (
	TitleStyle     = theme.Title
	StatusBarStyle = theme.StatusBar
	HelpStyle      = theme.HelpHint
	LoadingStyle   = theme.Muted
)
