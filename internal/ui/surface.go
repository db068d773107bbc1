package ui

import (
	"net/url"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
)

// Program is the part of *tea.Program the surface needs.
type Program interface {
	Send(tea.Msg)
}

// ProgramSurface adapts a running Bubble Tea program to bridge.Surface.
type ProgramSurface struct {
	program Program
}

// NewSurface wraps program.
func NewSurface(program Program) *ProgramSurface {
	return &ProgramSurface{program: program}
}

// Send forwards msg into the program's event loop. Outbound protocol values
// are tea.Msg values handled by Model's registry.
func (s *ProgramSurface) Send(msg bridge.Outbound) error {
	s.program.Send(msg)
	return nil
}

// Reveal is a no-op: the terminal is always in front while the program runs.
func (s *ProgramSurface) Reveal() {}

// Close asks the program to exit.
func (s *ProgramSurface) Close() error {
	s.program.Send(closeMsg{})
	return nil
}

// FileURL rewrites an absolute image path into a file:// URL for terminal
// hyperlinks.
func FileURL(path string) string {
	if path == "" {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
