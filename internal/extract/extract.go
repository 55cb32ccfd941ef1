package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// minExtractedChars is the smallest trimmed text length accepted as a
// readable resume. Anything shorter is treated as a failed extraction.
const minExtractedChars = 50

// Extractor converts uploaded resume documents into plain text.
type Extractor struct {
	maxFileSize int64
	logger      *errors.Logger
}

// NewExtractor creates an extractor enforcing the given upload size limit.
func NewExtractor(maxFileSize int64, logger *errors.Logger) *Extractor {
	return &Extractor{
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// DetectFormat maps a filename to a supported document format by extension.
func DetectFormat(filename string) (types.DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return types.FormatPDF, nil
	case ".docx":
		return types.FormatDOCX, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			"Unsupported file format: only PDF and DOCX files are accepted", nil).
			WithContext("filename", filename)
	}
}

// ExtractText produces the plain text of the document, in source order.
// PDF pages are concatenated in page order; DOCX paragraphs in document
// order. It fails before parsing when the document exceeds the size limit.
func (e *Extractor) ExtractText(doc types.UploadedDocument) (string, error) {
	if e.maxFileSize > 0 && int64(len(doc.Data)) > e.maxFileSize {
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File exceeds the maximum allowed size of %d bytes", e.maxFileSize), nil).
			WithContext("filename", doc.Filename).
			WithContext("size", len(doc.Data))
	}

	var (
		text string
		err  error
	)
	switch doc.Format {
	case types.FormatPDF:
		text, err = extractPDF(doc.Data)
	case types.FormatDOCX:
		text, err = extractDOCX(doc.Data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported document format: %s", doc.Format), nil)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			"Could not read text from the uploaded document", err).
			WithContext("filename", doc.Filename).
			WithContext("format", string(doc.Format))
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minExtractedChars {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			"The document contains too little readable text to analyze", nil).
			WithContext("filename", doc.Filename).
			WithContext("extracted_chars", len(trimmed))
	}

	e.logger.Debug("Text extracted from document",
		"filename", doc.Filename,
		"format", string(doc.Format),
		"chars", len(trimmed))

	return trimmed, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip unreadable pages, keep the rest
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return flattenDocxXML(doc.Editable().GetContent()), nil
}

// flattenDocxXML reduces word/document.xml content to plain text, ending a
// line at each paragraph or break element.
func flattenDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return buf.String()
}
