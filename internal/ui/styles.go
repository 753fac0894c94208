// Package ui renders the hello CLI's terminal output. When stdout is not
// a terminal every helper falls back to plain text.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsTTY indicates whether stdout is an interactive terminal.
var IsTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var (
	Gold     = lipgloss.Color("#F4D03F")
	Green    = lipgloss.Color("#58D68D")
	Copper   = lipgloss.Color("#DC7633")
	Pink     = lipgloss.Color("#FF6B9D")
	Blue     = lipgloss.Color("#5DADE2")
	DarkGray = lipgloss.Color("#5D6D7E")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(Gold)
	mutedStyle = lipgloss.NewStyle().Foreground(DarkGray)
)

// Title renders a heading followed by an underline of the same width.
func Title(title string) string {
	if !IsTTY {
		return title + "\n" + strings.Repeat("=", len(title))
	}
	return titleStyle.Render(title) + "\n" + mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title)))
}

// StatusLine renders an icon and message in the given color.
func StatusLine(icon, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s %s", icon, message)
	}
	style := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("  %s %s", style.Render(icon), style.Render(message))
}

// SuccessLine renders a success status line.
func SuccessLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  OK: %s", message)
	}
	return StatusLine("✓", message, Green)
}

// WarningLine renders a warning status line.
func WarningLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  WARN: %s", message)
	}
	return StatusLine("!", message, Copper)
}

// ErrorLine renders an error status line.
func ErrorLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  ERROR: %s", message)
	}
	return StatusLine("✗", message, Pink)
}

// InfoLine renders an informational status line.
func InfoLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  %s", message)
	}
	return StatusLine("•", message, Blue)
}
