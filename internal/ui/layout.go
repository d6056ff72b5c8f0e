package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show secondary table columns.
	LayoutWideWidth = 140
)

// Catalog list sizes.
const (
	// TopLimit is the number of films and actors on the home page.
	TopLimit = 5

	// RecentLimit is the number of films on the recently released shelf.
	RecentLimit = 15

	// DefaultPageSize is the customer list page size when config has none.
	DefaultPageSize = 20
)

// Diagnostics limits.
const (
	// LogTailLines is the number of log lines the diagnostics view reads.
	LogTailLines = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the header/diagnostics refresh interval.
	DefaultUIInterval = time.Second
)
