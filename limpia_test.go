package limpia

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lectorlabs/limpia/reader"
)

// testPDFPath returns the path to a sample PDF used by integration tests.
func testPDFPath(filename string) string {
	return filepath.Join("pdf-samples", filename)
}

func TestOpen_NonexistentFile(t *testing.T) {
	_, _, err := Open("nonexistent.pdf").Text()
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}

	var extErr *reader.ExtractionError
	if !errors.As(err, &extErr) {
		t.Errorf("expected *reader.ExtractionError, got %T", err)
	}
}

func TestFromBytes_NotAPDF(t *testing.T) {
	_, _, err := FromBytes([]byte("not a pdf")).Text()
	if err == nil {
		t.Fatal("expected error for non-PDF bytes")
	}

	var extErr *reader.ExtractionError
	if !errors.As(err, &extErr) {
		t.Errorf("expected *reader.ExtractionError, got %T", err)
	}
}

func TestExtractor_NoSource(t *testing.T) {
	e := &Extractor{options: defaultOptions()}
	if _, _, err := e.Text(); err == nil {
		t.Error("expected error when no document specified")
	}
}

func TestClean(t *testing.T) {
	got := Clean("H I S T O R I A S   de   verifica-\nción")
	want := "HISTORIAS de verificación"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCleanPages(t *testing.T) {
	got := CleanPages([][]string{
		{"primera", "página"},
		{"segunda", "página"},
	})
	want := "primera página\n\nsegunda página"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := CleanPages(nil); got != "" {
		t.Errorf("expected empty output for zero pages, got %q", got)
	}
}

func TestConfigurationMethodsAreImmutable(t *testing.T) {
	base := Open("document.pdf")
	withPages := base.Pages(1, 2)
	withKeep := base.KeepRepeatedLines()

	if len(base.options.pages) != 0 {
		t.Error("Pages modified the original extractor")
	}
	if base.options.keepRepeatedLines {
		t.Error("KeepRepeatedLines modified the original extractor")
	}
	if len(withPages.options.pages) != 2 {
		t.Error("Pages not applied to the new extractor")
	}
	if !withKeep.options.keepRepeatedLines {
		t.Error("KeepRepeatedLines not applied to the new extractor")
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name      string
		extractor *Extractor
		want      string
	}{
		{"from filename", Open("docs/informe.pdf"), "informe.txt"},
		{"from source name", FromBytes(nil).SourceName("subida.pdf"), "subida.txt"},
		{"source name wins", Open("a.pdf").SourceName("b.pdf"), "b.txt"},
		{"no name at all", FromBytes(nil), "document.txt"},
		{"extensionless", Open("README"), "README.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.extractor.outputFilename(); got != tt.want {
				t.Errorf("outputFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWarnings(t *testing.T) {
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("expected empty string for no warnings, got %q", got)
	}

	warnings := []Warning{
		{Page: 2, Message: "no extractable text"},
		{Message: "document-level notice"},
	}
	got := FormatWarnings(warnings)
	want := "page 2: no extractable text; document-level notice"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMustText_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustText("", nil, errors.New("boom"))
}

func TestBasicConversion(t *testing.T) {
	pdfPath := testPDFPath("dinosaurs.pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		t.Skip("test PDF not found:", pdfPath)
	}

	text, _, err := Open(pdfPath).Text()
	if err != nil {
		t.Fatalf("failed to convert: %v", err)
	}
	if len(text) == 0 {
		t.Fatal("expected non-empty text")
	}
	if strings.Contains(text, "\n\n\n") {
		t.Error("expected no runs of blank lines in cleaned output")
	}
}

func TestPageSelection(t *testing.T) {
	pdfPath := testPDFPath("dinosaurs.pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		t.Skip("test PDF not found:", pdfPath)
	}

	text1, _, err := Open(pdfPath).Pages(1).Text()
	if err != nil {
		t.Fatalf("failed to convert page 1: %v", err)
	}
	textAll, _, err := Open(pdfPath).Text()
	if err != nil {
		t.Fatalf("failed to convert all pages: %v", err)
	}

	if len(text1) >= len(textAll) {
		t.Error("expected page 1 to be shorter than all pages")
	}
}

func TestPageSelection_OutOfRange(t *testing.T) {
	pdfPath := testPDFPath("dinosaurs.pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		t.Skip("test PDF not found:", pdfPath)
	}

	if _, _, err := Open(pdfPath).Pages(9999).Text(); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestResult(t *testing.T) {
	pdfPath := testPDFPath("dinosaurs.pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		t.Skip("test PDF not found:", pdfPath)
	}

	conv, _, err := Open(pdfPath).Result()
	if err != nil {
		t.Fatalf("failed to convert: %v", err)
	}
	if conv.Filename != "dinosaurs.txt" {
		t.Errorf("expected generated filename %q, got %q", "dinosaurs.txt", conv.Filename)
	}
	if conv.Characters != len([]rune(conv.Text)) {
		t.Errorf("character count %d does not match text length %d",
			conv.Characters, len([]rune(conv.Text)))
	}
}
