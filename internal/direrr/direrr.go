// Package direrr holds the sentinel errors shared across docindex packages.
//
// Operations whose failure falls into one of these classes wrap the
// matching sentinel with fmt.Errorf("%w: ...", Err...) so callers can
// classify those failures with errors.Is without string matching; other
// errors (I/O failures and the like) are returned without a sentinel.
package direrr

import "errors"

var (
	// Configuration
	ErrMissingAppDir   = errors.New("configuration: app data directory not set")
	ErrMissingResource = errors.New("configuration: semantic resource not available")

	// Corruption / invalid input
	ErrNotDocx             = errors.New("invalid input: target is not a .docx package")
	ErrMissingDocumentXML  = errors.New("corruption: word/document.xml missing from package")
	ErrXMLParse            = errors.New("corruption: xml parse failure")
	ErrHeadingOutOfBounds  = errors.New("invalid input: heading range out of bounds")
	ErrInvalidCaptureTarget = errors.New("invalid input: capture target path")

	// Validation
	ErrHeadingLevelRange = errors.New("validation: heading level outside allowed band")
	ErrEmptyHeadingText  = errors.New("validation: heading text must not be empty")
	ErrEmptyContent      = errors.New("validation: capture content must not be empty")

	// Concurrency
	ErrLockPoisoned = errors.New("concurrency: lock poisoned")

	// Not found
	ErrRootNotFound    = errors.New("not found: root")
	ErrFileNotFound    = errors.New("not found: file")
	ErrHeadingNotFound = errors.New("not found: heading")
)
