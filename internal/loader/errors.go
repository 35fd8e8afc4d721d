// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citexpert/internal/record"
)

var (
	// ErrUnknownEntryType is returned when a record header names a type
	// outside the supported set.
	ErrUnknownEntryType = record.ErrUnknownEntryType

	// ErrUnterminatedBlock is returned when a record block is not closed
	// before the next record or the end of the file.
	ErrUnterminatedBlock = errors.New("unterminated record block")

	// ErrMalformedHeader is returned when an @-line has no opening
	// delimiter or no cite key.
	ErrMalformedHeader = errors.New("malformed record header")

	// ErrNoPrimaryEntries is reported when a load yields no entry flagged
	// main_publication.
	ErrNoPrimaryEntries = errors.New("no valid main publication entries")

	// ErrNoCitationEntries is reported when a load yields no citation entries.
	ErrNoCitationEntries = errors.New("no valid citation entries")
)

// ParseError locates a fatal parse failure within an input file.
type ParseError struct {
	File string
	Line int
	Key  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s:%d: [%s] %v", e.File, e.Line, e.Key, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
