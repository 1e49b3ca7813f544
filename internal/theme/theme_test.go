package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDeriveDefaults(t *testing.T) {
	th := Derive(Seed{})
	if th.Background != lipgloss.Color("#1a1b26") {
		t.Fatalf("Background = %v, want #1a1b26", th.Background)
	}
	if th.Added != lipgloss.Color("#9ece6a") {
		t.Fatalf("Added = %v, want #9ece6a", th.Added)
	}
	if th.Primary != th.BorderFocused {
		t.Fatalf("BorderFocused should follow Primary")
	}
}

func TestDeriveOverrides(t *testing.T) {
	th := Derive(Seed{Primary: "#ff0000", Removed: "#00ff00"})
	if th.Primary != lipgloss.Color("#ff0000") {
		t.Fatalf("Primary = %v, want override", th.Primary)
	}
	if th.CommentAuthor != lipgloss.Color("#ff0000") {
		t.Fatalf("CommentAuthor should follow Primary override")
	}
	if th.Removed != lipgloss.Color("#00ff00") {
		t.Fatalf("Removed = %v, want override", th.Removed)
	}
	if th.Error != lipgloss.Color("#00ff00") {
		t.Fatalf("Error should follow Removed override")
	}
}
