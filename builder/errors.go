package builder

import "errors"

var (
	// ErrClosed is returned by mutating operations while the builder is closed.
	ErrClosed = errors.New("builder is not open")
	// ErrNoItems aborts a save or update of a template with no items.
	ErrNoItems = errors.New("template has no items")
	// ErrNoName aborts a save of a template without a name.
	ErrNoName = errors.New("template name is required")
	// ErrNoTemplate means an update or edit was requested without a stored template.
	ErrNoTemplate = errors.New("no template to edit")
	// ErrBadIndex is returned for an item index outside the current list.
	ErrBadIndex = errors.New("item index out of range")
	// ErrMalformedEntry marks a stored entry with neither a usable library
	// reference nor embedded data. Such entries are skipped on load.
	ErrMalformedEntry = errors.New("template entry has neither a library reference nor embedded data")
)

// WarningKind classifies non-fatal normalization findings.
type WarningKind string

const (
	WarnDataQuality    WarningKind = "data_quality"
	WarnMalformedEntry WarningKind = "malformed_entry"
)

// Warning is a non-fatal finding raised while normalizing source items. It is
// reported to the user but never blocks the operation that produced it.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}
