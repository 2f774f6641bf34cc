package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-quicksetup/pkg/render"
)

// Theme tokens read by StylesFromTheme.
const (
	TokenPrimary = "color.primary"
	TokenMuted   = "color.muted"
	TokenDanger  = "color.danger"
)

// Styles groups the lipgloss styles applied to printed messages.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Note     lipgloss.Style
	Marker   lipgloss.Style
	Section  lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the colored styles used on interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Text:     lipgloss.NewStyle(),
		Note:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		Marker:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Section:  lipgloss.NewStyle().Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain,
		Subtitle: plain,
		Text:     plain,
		Note:     plain,
		Marker:   plain,
		Section:  plain,
		Error:    plain,
	}
}

// StylesFromTheme recolors base using the theme's color tokens.
func StylesFromTheme(base Styles, theme *render.ThemeConfig) Styles {
	if theme == nil || len(theme.Tokens) == 0 {
		return base
	}
	if color := strings.TrimSpace(theme.Tokens[TokenPrimary]); color != "" {
		base.Title = base.Title.Foreground(lipgloss.Color(color))
		base.Marker = base.Marker.Foreground(lipgloss.Color(color))
	}
	if color := strings.TrimSpace(theme.Tokens[TokenMuted]); color != "" {
		base.Note = base.Note.Foreground(lipgloss.Color(color))
		base.Subtitle = base.Subtitle.Foreground(lipgloss.Color(color))
	}
	if color := strings.TrimSpace(theme.Tokens[TokenDanger]); color != "" {
		base.Error = base.Error.Foreground(lipgloss.Color(color))
	}
	return base
}
