package render

import "github.com/charmbracelet/lipgloss"

// Colors pick a light or dark variant from the terminal background.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#558B2F", Dark: "#8BC34A"}
	warning = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFC107"}
	muted   = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	info    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#2196F3"}
)

type styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Unknown lipgloss.Style
	Decoded lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(color bool) styles {
	s := styles{
		Title:   lipgloss.NewStyle(),
		Header:  lipgloss.NewStyle(),
		Cell:    lipgloss.NewStyle(),
		Unknown: lipgloss.NewStyle(),
		Decoded: lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
	}
	if !color {
		return s
	}
	s.Title = s.Title.Bold(true).Foreground(accent)
	s.Header = s.Header.Bold(true)
	s.Unknown = s.Unknown.Foreground(warning)
	s.Decoded = s.Decoded.Foreground(info)
	s.Muted = s.Muted.Foreground(muted)
	return s
}
