package scanning

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// decodeText converts an uploaded text file to UTF-8. Cash-register exports
// and older OCR tools often emit Latin-1 or Windows-1252, which garbles the
// Norwegian letters when read as UTF-8.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(data) {
		// Peek a bit to detect the encoding
		sample := data
		if len(sample) > 2048 {
			sample = sample[:2048]
		}
		enc := charmap.Windows1252
		if det, err := chardet.NewTextDetector().DetectBest(sample); err == nil && det != nil {
			switch strings.ToLower(det.Charset) {
			case "iso-8859-1":
				enc = charmap.ISO8859_1
			case "iso-8859-15":
				enc = charmap.ISO8859_15
			case "windows-1252":
				enc = charmap.Windows1252
			}
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("decoding text: %w", err)
		}
		data = decoded
	}

	// Compose combining marks so the pattern matching sees single runes
	return norm.NFC.String(string(data)), nil
}
