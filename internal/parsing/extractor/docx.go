// internal/parsing/extractor/docx.go
package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	docxTagPattern = regexp.MustCompile(`<[^>]+>`)
	docxEntities   = strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'",
	)
)

// extractDocx pulls word/document.xml out of the OOXML archive, turns
// paragraph boundaries into newlines and strips the remaining markup.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a valid OOXML archive: %v", ErrCorruptedDocument, err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
		}
		break
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("%w: word/document.xml missing", ErrCorruptedDocument)
	}

	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = docxTagPattern.ReplaceAllString(xml, " ")
	text := normalizeWhitespace(docxEntities.Replace(xml))
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}
