package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which links are hidden.
	LayoutCompactWidth = 80
)

// Display limits.
const (
	// ModalWidth is the width of confirm and form dialogs.
	ModalWidth = 64

	// DiagnosticsTailLines is how many log lines the diagnostics view loads.
	DiagnosticsTailLines = 400

	// chromeLines is the header, command bar and status line.
	chromeLines = 3
)

// Timing constants.
const (
	// MinRefreshInterval bounds the optional auto refresh.
	MinRefreshInterval = 2 * time.Second
)
