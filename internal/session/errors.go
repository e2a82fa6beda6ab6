package session

import "errors"

var (
	// ErrInvalidFileType rejects uploads whose MIME type is not application/pdf.
	ErrInvalidFileType = errors.New("only PDF files are allowed")

	// ErrExtractionFailed wraps an unreadable, corrupted or encrypted document.
	ErrExtractionFailed = errors.New("could not read the PDF")

	// ErrMissingDocument rejects questions asked before any document is loaded.
	ErrMissingDocument = errors.New("no document loaded")

	// ErrBusy guards against overlapping work on one session: a second
	// question while one is pending, or an upload while anything is in flight.
	ErrBusy = errors.New("session is busy")
)
