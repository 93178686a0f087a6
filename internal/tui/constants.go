package tui

import "time"

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions
	ModalWidth        = 60 // Preferred modal width, shrunk on narrow terminals
	ModalWidthMargin  = 6  // Horizontal margin kept around a modal
	ModalHeightMargin = 3  // Vertical margin kept around a modal

	// Main view layout
	HeaderLines       = 5 // Title, blank, value/step, error line, blank
	FooterLines       = 2 // Status line and key hints
	HistoryTitleLines = 1
	HistoryMinHeight  = 3

	// File picker
	FilePickerHeightOffset = 6 // Title, directory, footer and borders
	FilePickerMinHeight    = 5

	// Help viewer
	HelpViewWidthOffset  = 8
	HelpViewHeightOffset = 6

	// Message display
	StatusTruncateLength = 100 // Footer messages longer than this are truncated
	StatusMessageTimeout = 3 * time.Second

	// Text inputs
	StepInputCharLimit  = 12
	ModalInputCharLimit = 64
)
