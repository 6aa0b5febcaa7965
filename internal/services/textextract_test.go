package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractText_Plaintext(t *testing.T) {
	data := []byte("Quadratic equations are polynomials of degree two.\nThey have at most two real roots.")
	got, err := ExtractText("notes.txt", "text/plain", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Quadratic equations are polynomials of degree two. They have at most two real roots." {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestExtractText_StripsHTML(t *testing.T) {
	data := []byte("<!doctype html><html><body><h1>Cell Biology</h1><p>Mitochondria&nbsp;produce ATP.</p></body></html>")
	got, err := ExtractText("page.html", "text/html", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Cell Biology Mitochondria produce ATP." {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestExtractText_DocxTextRuns(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Photosynthesis</w:t></w:r><w:r><w:t>converts light</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	got, err := ExtractText("bio.docx", "", buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Photosynthesis converts light" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestExtractText_ClampsLongOutput(t *testing.T) {
	data := []byte(strings.Repeat("a", MaxExtractedChars+500))
	got, err := ExtractText("big.txt", "text/plain", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxExtractedChars+3 {
		t.Fatalf("expected clamp to %d chars plus ellipsis, got %d", MaxExtractedChars, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected trailing ellipsis")
	}
}

func TestTruncateAtRuneBoundary_NeverSplitsRunes(t *testing.T) {
	// "é" is 2 bytes; a 5-byte limit falls inside the third é
	s := strings.Repeat("é", 4)
	got := truncateAtRuneBoundary(s, 5)
	if got != "éé" {
		t.Fatalf("expected truncation to back up to a rune boundary, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string must be valid UTF-8")
	}
	if truncateAtRuneBoundary("abc", 10) != "abc" {
		t.Fatalf("strings under the limit must pass through unchanged")
	}
}

func TestClampExtracted_ValidUTF8AtCap(t *testing.T) {
	s := strings.Repeat("ü", MaxExtractedChars/2+10)
	got := clampExtracted(s)
	if !utf8.ValidString(got) {
		t.Fatalf("clamped output must be valid UTF-8")
	}
	if len(got) > MaxExtractedChars+3 {
		t.Fatalf("clamp exceeded the cap: %d bytes", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected trailing ellipsis")
	}
}

func TestExtractText_RejectsEmptyFile(t *testing.T) {
	if _, err := ExtractText("empty.txt", "text/plain", nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
}

func TestExtractText_RejectsFakePDF(t *testing.T) {
	if _, err := ExtractText("fake.pdf", "application/pdf", []byte{0x00, 0x01, 0x02, 0x03}); err == nil {
		t.Fatalf("expected error for a pdf without the %%PDF header")
	}
}
