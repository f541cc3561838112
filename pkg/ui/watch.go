package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dbusevents/pkg/events"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Watcher prints signals as they arrive:
//
//	Path:/org/bluez/hci0 Member:PropertiesChanged
//	"org.bluez.Adapter1",
//	{ ... }
//
// The data lines are omitted when the signal has no body.
type Watcher struct {
	w      io.Writer
	styled bool
	path   lipgloss.Style
	member lipgloss.Style
	data   lipgloss.Style
}

// NewWatcher returns a Watcher writing to w
func NewWatcher(w io.Writer, styled bool) *Watcher {
	r := lipgloss.NewRenderer(w)
	if styled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Watcher{
		w:      w,
		styled: styled,
		path:   r.NewStyle().Foreground(lipgloss.Color("6")),
		member: r.NewStyle().Foreground(lipgloss.Color("14")),
		data:   r.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// Banner prints a one-line status message
func (p *Watcher) Banner(msg string) error {
	if p.styled {
		_, err := fmt.Fprintln(p.w, pterm.Info.Prefix.Text, msg)
		return err
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

// PrintSignal prints one signal
func (p *Watcher) PrintSignal(sig events.Signal) error {
	line := fmt.Sprintf("Path:%s Member:%s", p.paint(p.path, sig.Path), p.paint(p.member, sig.Member))
	if sig.Data != "" {
		line += "\n" + p.paint(p.data, sig.Data)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// paint styles each line on its own; lipgloss pads multi-line blocks to a
// common width otherwise
func (p *Watcher) paint(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
