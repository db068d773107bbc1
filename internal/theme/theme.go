package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header       *lipgloss.Style
	Counter      *lipgloss.Style
	Title        *lipgloss.Style
	Dirty        *lipgloss.Style
	Meta         *lipgloss.Style
	Link         *lipgloss.Style
	Caption      *lipgloss.Style
	CaptionBox   *lipgloss.Style
	EditorBox    *lipgloss.Style
	Placeholder  *lipgloss.Style
	Tokens       *lipgloss.Style
	Error        *lipgloss.Style
	Warning      *lipgloss.Style
	Info         *lipgloss.Style
	Footer       *lipgloss.Style
	FilterPrompt *lipgloss.Style
	Item         *lipgloss.Style
	SelectedItem *lipgloss.Style
	Empty        *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Counter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Title: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Dirty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	Meta: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Link: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
	),
	Caption: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	CaptionBox: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	),
	EditorBox: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
	),
	Placeholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
	Tokens: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Warning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Empty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// ForNotice returns the style matching a notice level.
func (s *Styles) ForNotice(level string) *lipgloss.Style {
	switch level {
	case "error":
		return s.Error
	case "warning":
		return s.Warning
	default:
		return s.Info
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
