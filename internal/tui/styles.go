package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App           lipgloss.Style
	Pane          lipgloss.Style
	PaneActive    lipgloss.Style
	Title         lipgloss.Style
	Item          lipgloss.Style
	ItemCursor    lipgloss.Style
	ItemSelected  lipgloss.Style
	Folder        lipgloss.Style
	Meta          lipgloss.Style
	Marker        lipgloss.Style
	Breadcrumb    lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	Help          lipgloss.Style
	Empty         lipgloss.Style
	Input         lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}
	danger := lipgloss.AdaptiveColor{Light: "#A04040", Dark: "#C06060"}
	warn := lipgloss.AdaptiveColor{Light: "#907030", Dark: "#B09050"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemCursor: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(accent),

		Folder: lipgloss.NewStyle().
			Foreground(primary),

		Meta: lipgloss.NewStyle().
			Foreground(subtle),

		Marker: lipgloss.NewStyle().
			Foreground(accent),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		Status: lipgloss.NewStyle().
			Foreground(primary),

		StatusError: lipgloss.NewStyle().
			Foreground(danger),

		StatusWarning: lipgloss.NewStyle().
			Foreground(warn),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Input: lipgloss.NewStyle().
			Foreground(primary),
	}
}
