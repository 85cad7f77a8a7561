package text

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of each preview element.
type Styles struct {
	Name     lipgloss.Style
	Contacts lipgloss.Style
	Rule     lipgloss.Style
	Heading  lipgloss.Style
	Title    lipgloss.Style
	Period   lipgloss.Style
	Body     lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles mirrors the printed page: bold centred name, italic contacts,
// bold headings.
func DefaultStyles() Styles {
	return Styles{
		Name:     lipgloss.NewStyle().Bold(true),
		Contacts: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#555555")),
		Rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("#bebebe")),
		Heading:  lipgloss.NewStyle().Bold(true).Underline(true),
		Title:    lipgloss.NewStyle().Bold(true).Italic(true),
		Period:   lipgloss.NewStyle().Faint(true),
		Body:     lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true),
	}
}

// PlainStyles renders without any terminal escape sequences, for files and
// pipes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Name:     plain,
		Contacts: plain,
		Rule:     plain,
		Heading:  plain,
		Title:    plain,
		Period:   plain,
		Body:     plain,
		Error:    plain,
	}
}
