package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Output and ErrOutput are where the Print helpers write. Tests swap them
// for buffers.
var (
	Output    io.Writer = os.Stdout
	ErrOutput io.Writer = os.Stderr
)

// Plain disables badges, for --no-color and non-terminal output.
var Plain bool

func badge(style lipgloss.Style, label string) string {
	if Plain {
		return "[" + label + "]"
	}
	return style.Render(label)
}

func PrintSuccess(msg string) {
	fmt.Fprintf(Output, "%s %s\n", badge(SuccessBadge, "OK"), msg)
}

func PrintInfo(msg string) {
	fmt.Fprintf(Output, "%s %s\n", badge(InfoBadge, "INFO"), msg)
}

func PrintWarning(msg string) {
	fmt.Fprintf(Output, "%s %s\n", badge(WarningBadge, "WARN"), msg)
}

func PrintError(msg string) {
	fmt.Fprintf(ErrOutput, "%s %s\n", badge(ErrorBadge, "ERROR"), msg)
}

// PrintErrorWithHint prints an error followed by a muted hint line.
func PrintErrorWithHint(msg, hint string) {
	PrintError(msg)
	if hint == "" {
		return
	}
	if Plain {
		fmt.Fprintf(ErrOutput, "  %s\n", hint)
		return
	}
	fmt.Fprintf(ErrOutput, "  %s\n", MutedStyle.Render(hint))
}

// Code styles an inline path or command.
func Code(s string) string {
	if Plain {
		return s
	}
	return CodeStyle.Render(s)
}
