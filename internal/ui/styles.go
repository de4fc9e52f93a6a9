package ui

import "github.com/charmbracelet/lipgloss"

// Subfont styles - centralized styling based on the Catppuccin Mocha palette
// Reference: https://catppuccin.com/palette/
var (
	// PageTitle - the session dialog heading (current state label)
	PageTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#cba6f7")). // Mauve
			Background(lipgloss.Color("#313244")). // Surface 0
			Padding(0, 1)

	// ContentText - regular text content
	ContentText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"})

	// HintText - key hints under the dialog
	HintText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")) // Overlay 0

	// SuccessText - success messages
	SuccessText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1")). // Green
			Bold(true)

	// WarningText - warning messages
	WarningText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fab387")). // Peach
			Bold(true)

	// ErrorText - error messages
	ErrorText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")). // Red
			Bold(true)

	// SpinnerColor - spinner accent
	SpinnerColor = lipgloss.Color("#cba6f7") // Mauve
)
