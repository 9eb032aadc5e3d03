package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRows is wrapped by a LoadError when the file has a header but no data.
	ErrNoRows = errors.New("file contains no data rows")

	// ErrNoDataset is returned when filtering before any file has been loaded.
	ErrNoDataset = errors.New("no dataset loaded")

	// ErrEmptyResult matches any *EmptyResultError via errors.Is.
	ErrEmptyResult = errors.New("no records for year")

	// ErrUnknownKind is returned when a visualization selector is not recognised.
	ErrUnknownKind = errors.New("unknown visualization kind")
)

// LoadError reports that a spreadsheet could not be turned into a Dataset.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EmptyResultError reports that a valid dataset has no records for Year.
// It is informational, not a failure of the operation's inputs.
type EmptyResultError struct {
	Year int
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no records for year %d", e.Year)
}

// Is lets errors.Is(err, ErrEmptyResult) match regardless of year.
func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}
