// internal/parsing/extractor/pdf.go
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// extractPDF runs the primary decoder and, whenever it produced no text,
// a second independent converter pass. Encryption is checked up front so a
// password-protected file fails before any decoding work.
func extractPDF(data []byte) (string, error) {
	if bytes.Contains(data, []byte("/Encrypt")) {
		return "", fmt.Errorf("%w: PDF declares an /Encrypt dictionary", ErrEncryptedDocument)
	}

	text, err := pdfPrimary(data)
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return "", fmt.Errorf("%w: %v", ErrEncryptedDocument, err)
	}
	if text != "" {
		return text, nil
	}

	if converted, convErr := extractWithConverter(data, "application/pdf"); convErr == nil {
		return converted, nil
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
	}
	return "", ErrEmptyContent
}

// pdfPrimary extracts the whole-document text. The decoder is known to
// panic on some malformed files, so panics are turned into errors here.
func pdfPrimary(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

// extractWithConverter runs the docconv converter for the given MIME type.
// It backs the secondary PDF pass and the legacy word-processor formats.
func extractWithConverter(data []byte, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
	}
	text := normalizeWhitespace(res.Body)
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

// normalizeWhitespace trims every line, collapses runs of spaces and tabs,
// and drops blank lines, keeping line structure intact for the line-oriented
// field scans.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '\f' || r == '\v'
	})
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return strings.Join(out, "\n")
}
