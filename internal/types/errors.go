package types

import "errors"

// Sentinel errors for rule ingestion.
var (
	// ErrMissingHeader indicates a rule file has no usable metadata header.
	ErrMissingHeader = errors.New("missing YAML frontmatter (must start with ---)")

	// ErrInvalidEncoding indicates a rule file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")

	// ErrUnrecognizedLine indicates a header line matched no grammar form.
	// Only returned when strict parsing is enabled.
	ErrUnrecognizedLine = errors.New("unrecognized header line")

	// ErrNotRegularFile indicates a candidate path is a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrSnapshotNotFound indicates no snapshot has been recorded for a directory.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
