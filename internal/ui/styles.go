// Package ui styles CLI output with ANSI 256 colours.
package ui

import "fmt"

// ANSI256 colour codes.
const (
	colorType  = 74  // blue
	colorID    = 250 // light gray
	colorMuted = 245 // medium gray
	colorError = 167 // soft red
)

var enabled = true

// SetColor turns colour output on or off for every Render function.
func SetColor(on bool) {
	enabled = on
}

func render(code int, s string) string {
	if !enabled || s == "" {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderType styles an event type slug or section header.
func RenderType(s string) string { return render(colorType, s) }

// RenderID styles an event id or command name.
func RenderID(s string) string { return render(colorID, s) }

// RenderMuted styles secondary detail such as timestamps and URLs.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderError styles an error message.
func RenderError(s string) string { return render(colorError, s) }
