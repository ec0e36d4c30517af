package scanning

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scanner defines the interface for turning receipt files into plain text
type Scanner interface {
	// ScanReceipt produces the text content of a receipt file
	ScanReceipt(data []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}

// Local reads text files and PDF text layers directly and hands rendered
// pages and photos to an OCR engine. The engine is optional; without one,
// only inputs that already carry text can be scanned.
type Local struct {
	ocr *RemoteOCR
}

// NewLocal creates a Local scanner. ocr may be nil.
func NewLocal(ocr *RemoteOCR) *Local {
	return &Local{ocr: ocr}
}

// ScanReceipt dispatches on the content type of the upload.
func (l *Local) ScanReceipt(data []byte, contentType string) (string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case mimeType == "" || strings.HasPrefix(mimeType, "text/"):
		return decodeText(data)
	case mimeType == "application/pdf":
		return l.scanPDF(data)
	default:
		return l.scanImage(data, mimeType)
	}
}

func (l *Local) scanPDF(data []byte) (string, error) {
	text, err := pdfText(data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		return norm.NFC.String(text), nil
	}

	// No text layer, so this is a scanned document
	if l.ocr == nil {
		return "", fmt.Errorf("PDF has no text layer and no OCR engine is configured")
	}
	pngData, err := pdfToImage(data)
	if err != nil {
		return "", err
	}
	return l.ocr.Recognize(pngData)
}

func (l *Local) scanImage(data []byte, mimeType string) (string, error) {
	if l.ocr == nil {
		return "", fmt.Errorf("no OCR engine is configured for image receipts")
	}
	pngData, err := prepareImage(data, mimeType)
	if err != nil {
		return "", err
	}
	return l.ocr.Recognize(pngData)
}

// Close closes the scanner (no resources are held between calls)
func (l *Local) Close() error {
	return nil
}
