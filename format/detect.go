// Package format provides file format detection for uploaded documents.
package format

import (
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// MIMEType returns the canonical MIME type for the format.
func (f Format) MIMEType() string {
	switch f {
	case PDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	name := strings.ToLower(filename)
	if strings.HasSuffix(name, ".pdf") {
		return PDF
	}
	return Unknown
}

// DetectFromMagic checks file magic bytes to determine format. This is
// more reliable than extension-based detection and is what upload
// validation uses; a declared content type is easy to spoof, the leading
// bytes are not.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	return Unknown
}
