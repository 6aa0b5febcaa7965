package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

const (
	// MinExtractedChars is the threshold below which an extraction result is
	// too thin to feed the generation endpoints.
	MinExtractedChars = 50
	// MaxExtractedChars caps extraction output to keep prompts inside model
	// limits.
	MaxExtractedChars = 50000
)

// ExtractText determines the true file type from the bytes themselves, then
// extracts plain text. Supported: PDF, DOCX, PPTX, TXT/MD, HTML (tags
// stripped). Extension and MIME type are only consulted when sniffing is
// inconclusive.
func ExtractText(originalName, mimeType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if len(data) == 0 {
		return "", fmt.Errorf("empty file: name=%s mime=%s", originalName, mimeType)
	}

	if hasPDFHeader(data) {
		return extractPDF(data)
	}
	if hasZipHeader(data) {
		// docx and pptx are both zip containers; tell them apart by entries
		kind, err := detectOpenXMLKind(data)
		if err != nil {
			return "", fmt.Errorf("zip/openxml detect failed: %w", err)
		}
		switch kind {
		case "docx":
			return extractOpenXML(data, func(name string) bool { return name == "word/document.xml" })
		case "pptx":
			return extractOpenXML(data, func(name string) bool {
				return strings.HasPrefix(name, "ppt/slides/") && strings.HasSuffix(name, ".xml")
			})
		default:
			return "", fmt.Errorf("unsupported zip container kind=%s name=%s", kind, originalName)
		}
	}

	if looksLikeHTML(data) || mt == "text/html" || ext == ".html" || ext == ".htm" {
		return clampExtracted(stripHTML(string(data))), nil
	}

	if isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md" || ext == ".markdown" {
		return clampExtracted(collapseWhitespace(string(data))), nil
	}

	if mt == "application/pdf" || ext == ".pdf" {
		return "", fmt.Errorf("file claims pdf but has no %%PDF header: name=%s mime=%s", originalName, mimeType)
	}
	if ext == ".docx" || ext == ".pptx" ||
		mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		mt == "application/vnd.openxmlformats-officedocument.presentationml.presentation" {
		return "", fmt.Errorf("file claims %s but is not a valid zip container: name=%s", strings.TrimPrefix(ext, "."), originalName)
	}

	return "", fmt.Errorf("unsupported file type: name=%s ext=%s mime=%s", originalName, ext, mimeType)
}

func hasPDFHeader(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func hasZipHeader(b []byte) bool {
	// local file header PK\x03\x04
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	s := strings.ToLower(string(b[:minInt(len(b), 2048)]))
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	return strings.Contains(s, "<html") && strings.Contains(s, "</html>")
}

func isProbablyText(b []byte) bool {
	sample := b[:minInt(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return clampExtracted(collapseWhitespace(string(b))), nil
}

func detectOpenXMLKind(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	hasWord := false
	hasPpt := false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			hasWord = true
		}
		if strings.HasPrefix(f.Name, "ppt/") {
			hasPpt = true
		}
	}
	switch {
	case hasWord && !hasPpt:
		return "docx", nil
	case hasPpt && !hasWord:
		return "pptx", nil
	default:
		return "unknown", fmt.Errorf("zip does not look like docx or pptx")
	}
}

// extractOpenXML gathers the text runs (<w:t>/<a:t>, matched by local name
// "t") from every archive entry that passes the filter.
func extractOpenXML(zipBytes []byte, match func(name string) bool) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, f := range zr.File {
		if !match(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		b, _ := io.ReadAll(rc)
		_ = rc.Close()
		out.WriteString(textRunsFromXML(b))
		out.WriteString("\n")
	}
	s := collapseWhitespace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from openxml document")
	}
	return clampExtracted(s), nil
}

func textRunsFromXML(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

func clampExtracted(s string) string {
	if len(s) > MaxExtractedChars {
		return truncateAtRuneBoundary(s, MaxExtractedChars) + "..."
	}
	return s
}

// truncateAtRuneBoundary cuts s to at most limit bytes without splitting a
// multi-byte rune.
func truncateAtRuneBoundary(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
