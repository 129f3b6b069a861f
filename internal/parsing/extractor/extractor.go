// internal/parsing/extractor/extractor.go
package extractor

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Terminal extraction failures. None of these is retryable: the same bytes
// will fail the same way every time.
var (
	ErrEncryptedDocument = errors.New("document is encrypted or password protected")
	ErrCorruptedDocument = errors.New("document is corrupted or unreadable")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyContent      = errors.New("no text content could be extracted")
)

// ExtractText reads the file at path and extracts its plain text, dispatching
// on the declared MIME type rather than the file contents.
func ExtractText(path, mimeType string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
	}
	return Extract(data, mimeType)
}

// Extract extracts plain text from in-memory document bytes.
func Extract(data []byte, mimeType string) (string, error) {
	switch {
	case isPDF(mimeType):
		return extractPDF(data)
	case isDocx(mimeType):
		return extractDocx(data)
	case isLegacyWord(mimeType):
		return extractWithConverter(data, canonicalMime(mimeType))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
}

func isPDF(mimeType string) bool {
	return strings.HasSuffix(strings.ToLower(mimeType), "/pdf")
}

func isDocx(mimeType string) bool {
	return strings.Contains(strings.ToLower(mimeType), "wordprocessingml")
}

// isLegacyWord reports formats handed to the converter library: legacy
// Word binaries, RTF and OpenDocument text.
func isLegacyWord(mimeType string) bool {
	mt := strings.ToLower(mimeType)
	return mt == "application/msword" ||
		strings.Contains(mt, "rtf") ||
		strings.Contains(mt, "opendocument.text")
}

func canonicalMime(mimeType string) string {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "rtf"):
		return "application/rtf"
	case strings.Contains(mt, "opendocument.text"):
		return "application/vnd.oasis.opendocument.text"
	default:
		return "application/msword"
	}
}
