package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lectorlabs/limpia"
	"github.com/lectorlabs/limpia/reader"
)

// stubConverter returns canned results so handler behavior can be tested
// without real PDFs.
type stubConverter struct {
	conv     *limpia.Conversion
	warnings []limpia.Warning
	err      error
}

func (s *stubConverter) Convert(_ context.Context, _ string, _ []byte) (*limpia.Conversion, []limpia.Warning, error) {
	return s.conv, s.warnings, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// uploadRequest builds a multipart POST with a single "file" part.
func uploadRequest(t *testing.T, path, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	if contentType != "" {
		hdr["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pdfBytes = []byte("%PDF-1.4 fake body for handler tests")

func TestHealth(t *testing.T) {
	h := NewHandler(&stubConverter{}, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %q; want %q", payload["status"], "ok")
	}
}

func TestConvert_Success(t *testing.T) {
	stub := &stubConverter{
		conv: &limpia.Conversion{
			Filename:   "informe.txt",
			Characters: 11,
			Text:       "hola mundo!",
		},
		warnings: []limpia.Warning{{Page: 2, Message: "no extractable text"}},
	}
	h := NewHandler(stub, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert", "informe.pdf", "application/pdf", pdfBytes))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Filename != "informe.txt" {
		t.Errorf("filename = %q; want %q", resp.Filename, "informe.txt")
	}
	if resp.Characters != 11 {
		t.Errorf("characters = %d; want 11", resp.Characters)
	}
	if resp.Text != "hola mundo!" {
		t.Errorf("text = %q; want %q", resp.Text, "hola mundo!")
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "page 2") {
		t.Errorf("warnings = %v; want one entry mentioning page 2", resp.Warnings)
	}
}

func TestConvert_MissingFile(t *testing.T) {
	h := NewHandler(&stubConverter{}, WithLogger(quietLogger()))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("unrelated", "value")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestConvert_TooLarge(t *testing.T) {
	h := NewHandler(&stubConverter{},
		WithLogger(quietLogger()),
		WithMaxUploadBytes(64),
	)

	big := append([]byte("%PDF-1.4 "), bytes.Repeat([]byte("x"), 4096)...)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert", "big.pdf", "application/pdf", big))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d; want 413", rec.Code)
	}
}

func TestConvert_NotAPDF(t *testing.T) {
	h := NewHandler(&stubConverter{}, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert", "notes.txt", "text/plain", []byte("plain text, no magic")))

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d; want 415", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
}

func TestConvert_DeclaredTypeRejected(t *testing.T) {
	h := NewHandler(&stubConverter{}, WithLogger(quietLogger()))

	// PDF magic bytes but an explicitly wrong declared type.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert", "img.png", "image/png", pdfBytes))

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d; want 415", rec.Code)
	}
}

func TestConvert_ExtractionError(t *testing.T) {
	stub := &stubConverter{
		err: &reader.ExtractionError{
			Source: "broken.pdf",
			Err:    errors.New("malformed xref table"),
		},
	}
	h := NewHandler(stub, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert", "broken.pdf", "application/pdf", pdfBytes))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "malformed xref table") {
		t.Errorf("error = %q; want it to mention the extraction failure", resp.Error)
	}
}

func TestConvert_InternalError(t *testing.T) {
	stub := &stubConverter{err: errors.New("unexpected")}
	h := NewHandler(stub, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert", "doc.pdf", "application/pdf", pdfBytes))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
}

func TestConvertDownload(t *testing.T) {
	stub := &stubConverter{
		conv: &limpia.Conversion{
			Filename:   "informe.txt",
			Characters: 10,
			Text:       "texto limpio",
		},
	}
	h := NewHandler(stub, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/convert/download", "informe.pdf", "application/pdf", pdfBytes))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q; want text/plain", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="informe.txt"`) {
		t.Errorf("Content-Disposition = %q; want attachment with filename", got)
	}
	if rec.Body.String() != "texto limpio" {
		t.Errorf("body = %q; want the cleaned text", rec.Body.String())
	}
}

func TestConvert_MethodNotAllowed(t *testing.T) {
	h := NewHandler(&stubConverter{}, WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/convert", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d; want 405", rec.Code)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
