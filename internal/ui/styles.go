package ui

import (
	"fmt"

	"github.com/harkline/taskdeck/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorMuted   = 245 // medium gray
	colorPending = 250 // light gray
	colorActive  = 214 // orange
	colorDone    = 114 // green
	colorDropped = 131 // dark red
	colorUrgent  = 203 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return paint(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return paint(colorMuted, s)
}

// RenderStatus returns the status name colored by state.
func RenderStatus(s model.Status) string {
	switch s {
	case model.StatusPending:
		return paint(colorPending, string(s))
	case model.StatusInProgress:
		return paint(colorActive, string(s))
	case model.StatusCompleted:
		return paint(colorDone, string(s))
	case model.StatusCancelled:
		return paint(colorDropped, string(s))
	}
	return string(s)
}

// RenderPriority returns the priority number, highlighted when high.
// Priorities run 0 to 4, so 4 is urgent and 3 is elevated.
func RenderPriority(p int) string {
	s := fmt.Sprintf("%d", p)
	if p >= 4 {
		return paint(colorUrgent, s)
	}
	if p >= 3 {
		return paint(colorActive, s)
	}
	return paint(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
