// Package theme defines the color palette used by the UI. A small seed of
// base colors is expanded into the full set of tokens the renderers consume.
package theme

import "github.com/charmbracelet/lipgloss"

// Seed is the user-overridable part of a theme. Any field left empty keeps
// the default dark value.
type Seed struct {
	Background string `json:"background,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Primary    string `json:"primary,omitempty"`
	Added      string `json:"added,omitempty"`
	Removed    string `json:"removed,omitempty"`
}

// Theme is the complete palette. Renderers read it, never write it.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color

	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	PanelBg       lipgloss.Color

	SelectionBg lipgloss.Color
	CursorBg    lipgloss.Color

	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	Added      lipgloss.Color
	Removed    lipgloss.Color
	Context    lipgloss.Color
	HunkHeader lipgloss.Color
	AddedBg    lipgloss.Color
	RemovedBg  lipgloss.Color
	LineNumber lipgloss.Color

	CommentAuthor lipgloss.Color
	CommentBg     lipgloss.Color
}

// defaults is the dark palette (Tokyo Night derived).
var defaults = Seed{
	Background: "#1a1b26",
	Foreground: "#c0caf5",
	Primary:    "#7aa2f7",
	Added:      "#9ece6a",
	Removed:    "#f7768e",
}

// Derive expands a seed into the full palette. Fixed tokens (borders, panel,
// selection, muted, diff backgrounds) do not vary with the seed.
func Derive(seed Seed) *Theme {
	pick := func(v, def string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(def)
		}
		return lipgloss.Color(v)
	}

	return &Theme{
		Background: pick(seed.Background, defaults.Background),
		Foreground: pick(seed.Foreground, defaults.Foreground),

		Border:        lipgloss.Color("#3b4261"),
		BorderFocused: pick(seed.Primary, defaults.Primary),
		PanelBg:       lipgloss.Color("#24283b"),

		SelectionBg: lipgloss.Color("#33467c"),
		CursorBg:    lipgloss.Color("#2a2f4a"),

		Primary: pick(seed.Primary, defaults.Primary),
		Success: pick(seed.Added, defaults.Added),
		Warning: lipgloss.Color("#e0af68"),
		Error:   pick(seed.Removed, defaults.Removed),
		Muted:   lipgloss.Color("#565f89"),

		Added:      pick(seed.Added, defaults.Added),
		Removed:    pick(seed.Removed, defaults.Removed),
		Context:    lipgloss.Color("#a9b1d6"),
		HunkHeader: lipgloss.Color("#565f89"),
		AddedBg:    lipgloss.Color("#1a2f1a"),
		RemovedBg:  lipgloss.Color("#2f1a1a"),
		LineNumber: lipgloss.Color("#565f89"),

		CommentAuthor: pick(seed.Primary, defaults.Primary),
		CommentBg:     lipgloss.Color("#24283b"),
	}
}

// Default is the palette with no overrides applied.
func Default() *Theme {
	return Derive(Seed{})
}
