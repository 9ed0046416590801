package tui

import "github.com/rgehrsitz/fuyou/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	AppStyle            = tuistyles.AppStyle
	TitleStyle          = tuistyles.TitleStyle
	SubtitleStyle       = tuistyles.SubtitleStyle
	BorderStyle         = tuistyles.BorderStyle
	SelectedItemStyle   = tuistyles.SelectedItemStyle
	UnselectedItemStyle = tuistyles.UnselectedItemStyle
	ErrorStyle          = tuistyles.ErrorStyle
	InfoStyle           = tuistyles.InfoStyle
	SuccessStyle        = tuistyles.SuccessStyle
)
