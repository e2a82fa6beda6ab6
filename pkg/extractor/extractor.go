package extractor

import (
	"context"
	"errors"
)

// ErrExtraction indicates the byte stream could not be parsed as a valid
// document (encrypted, corrupted, or malformed). Not retryable without a
// different file.
var ErrExtraction = errors.New("document extraction failed")

// Extractor converts the raw bytes of an uploaded file into a single text
// blob. Callers are expected to have validated the MIME type already.
type Extractor interface {
	Extract(ctx context.Context, fileBytes []byte) (string, error)
}
