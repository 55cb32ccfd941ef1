package extract

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/types"
)

func newTestExtractor(maxFileSize int64) *Extractor {
	return NewExtractor(maxFileSize, errors.NewLogger(slog.LevelError))
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("Expected *errors.AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("Expected code %s, got %s", code, appErr.Code)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     types.DocumentFormat
		wantErr  bool
	}{
		{"pdf extension", "resume.pdf", types.FormatPDF, false},
		{"docx extension", "resume.docx", types.FormatDOCX, false},
		{"uppercase extension", "RESUME.PDF", types.FormatPDF, false},
		{"mixed case docx", "My.Resume.DocX", types.FormatDOCX, false},
		{"legacy doc", "resume.doc", "", true},
		{"plain text", "resume.txt", "", true},
		{"no extension", "resume", "", true},
		{"empty filename", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assertAppErrorCode(t, err, errors.ErrCodeUnsupportedFormat)
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat(%q) returned error: %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %s, want %s", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtractTextRejectsOversizedFile(t *testing.T) {
	extractor := newTestExtractor(16)

	_, err := extractor.ExtractText(types.UploadedDocument{
		Filename: "big.pdf",
		Format:   types.FormatPDF,
		Data:     []byte(strings.Repeat("x", 17)),
	})
	assertAppErrorCode(t, err, errors.ErrCodeFileTooLarge)
}

func TestExtractTextSizeLimitDisabled(t *testing.T) {
	// A zero limit disables the size check; the corrupt payload must then
	// fail at the parsing stage instead.
	extractor := newTestExtractor(0)

	_, err := extractor.ExtractText(types.UploadedDocument{
		Filename: "any.pdf",
		Format:   types.FormatPDF,
		Data:     []byte("not a pdf at all"),
	})
	assertAppErrorCode(t, err, errors.ErrCodeExtractionFailed)
}

func TestExtractTextCorruptPDF(t *testing.T) {
	extractor := newTestExtractor(1 << 20)

	_, err := extractor.ExtractText(types.UploadedDocument{
		Filename: "corrupt.pdf",
		Format:   types.FormatPDF,
		Data:     []byte("%PDF-1.4 garbage without structure"),
	})
	assertAppErrorCode(t, err, errors.ErrCodeExtractionFailed)
}

func TestExtractTextCorruptDOCX(t *testing.T) {
	extractor := newTestExtractor(1 << 20)

	_, err := extractor.ExtractText(types.UploadedDocument{
		Filename: "corrupt.docx",
		Format:   types.FormatDOCX,
		Data:     []byte("this is not a zip archive"),
	})
	assertAppErrorCode(t, err, errors.ErrCodeExtractionFailed)
}

func TestExtractTextUnknownFormat(t *testing.T) {
	extractor := newTestExtractor(1 << 20)

	_, err := extractor.ExtractText(types.UploadedDocument{
		Filename: "resume.odt",
		Format:   types.DocumentFormat("odt"),
		Data:     []byte("irrelevant"),
	})
	assertAppErrorCode(t, err, errors.ErrCodeUnsupportedFormat)
}

func TestFlattenDocxXML(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "paragraphs become lines",
			raw:  `<w:document><w:body><w:p><w:r><w:t>First paragraph</w:t></w:r></w:p><w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p></w:body></w:document>`,
			want: "First paragraph\nSecond paragraph\n",
		},
		{
			name: "runs within a paragraph join",
			raw:  `<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>`,
			want: "Hello world\n",
		},
		{
			name: "break ends a line",
			raw:  `<w:p><w:r><w:t>line one</w:t><w:br></w:br><w:t>line two</w:t></w:r></w:p>`,
			want: "line one\nline two\n",
		},
		{
			name: "empty document",
			raw:  `<w:document></w:document>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenDocxXML(tt.raw); got != tt.want {
				t.Errorf("flattenDocxXML() = %q, want %q", got, tt.want)
			}
		})
	}
}
