package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Compile-time interface check.
var _ Extractor = (*PDFExtractor)(nil)

// PDFExtractor implements Extractor for application/pdf payloads using
// ledongthuc/pdf. Only the embedded text layer is read; layout, images and
// forms are ignored.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract parses the document and concatenates every page's text into one
// blob. Each page is prefixed with a "Page <n>: " marker (1-indexed) and
// preceded by a newline; the page's text fragments are joined with single
// spaces. Page order is preserved and nothing is truncated here.
func (e *PDFExtractor) Extract(ctx context.Context, fileBytes []byte) (text string, err error) {
	if len(fileBytes) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrExtraction)
	}

	// The parser panics on some malformed inputs instead of returning an
	// error, so a corrupted upload must not take the server down with it.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var blob strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		blob.WriteString(fmt.Sprintf("\nPage %d: ", i))

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		blob.WriteString(pageText(page))
	}

	return blob.String(), nil
}

// pageText extracts a page's text layer with its fragments joined by single
// spaces. A page that cannot be read (image-only, broken encoding) yields
// empty text rather than failing the whole document.
func pageText(page pdf.Page) string {
	raw, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(raw), " ")
}
