package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutEmailWidth is the minimum width to show the email column.
	LayoutEmailWidth = 80

	// LayoutTimestampWidth is the minimum width to show last-login timestamps.
	LayoutTimestampWidth = 120
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
