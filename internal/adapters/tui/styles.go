package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mindmap/internal/ui/style"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	rootStyle = lipgloss.NewStyle().
			Bold(true)

	refStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(style.Slate)

	promptStyle = lipgloss.NewStyle().
			Foreground(style.Yellow).
			Bold(true)
)
