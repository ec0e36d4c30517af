package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// RemoteOCR recognizes text in receipt images through an HTTP OCR engine,
// such as a tesseract sidecar.
type RemoteOCR struct {
	baseURL  string
	language string
	client   *http.Client
}

// NewRemoteOCR creates a client for the OCR engine at baseURL. The language
// hint follows tesseract naming, e.g. "nor" or "nor+eng".
func NewRemoteOCR(baseURL string, language string) (*RemoteOCR, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8884"
	}
	if language == "" {
		language = "nor"
	}

	return &RemoteOCR{
		baseURL:  baseURL,
		language: language,
		client: &http.Client{
			Timeout: 120 * time.Second, // recognition can be slow on large scans
		},
	}, nil
}

// ocrRequest represents the request body for the OCR engine
type ocrRequest struct {
	Image    string `json:"image"`
	Language string `json:"language,omitempty"`
}

// ocrResponse represents the response from the OCR engine
type ocrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Recognize sends a PNG to the OCR engine and returns the recognized text.
func (r *RemoteOCR) Recognize(pngData []byte) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	reqBody := ocrRequest{
		Image:    base64.StdEncoding.EncodeToString(pngData),
		Language: r.language,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/ocr", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ocr engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocr engine error (status %d): %s", resp.StatusCode, string(body))
	}

	var ocrResp ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&ocrResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if ocrResp.Error != "" {
		return "", fmt.Errorf("ocr engine: %s", ocrResp.Error)
	}

	return norm.NFC.String(strings.TrimSpace(ocrResp.Text)), nil
}
