package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultSpaceEndpoint is the public OCR.space parse endpoint.
const DefaultSpaceEndpoint = "https://api.ocr.space/parse/image"

// SpaceClient calls an OCR.space compatible HTTP API.
type SpaceClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewSpaceClient creates a SpaceClient. An empty endpoint uses
// DefaultSpaceEndpoint.
func NewSpaceClient(endpoint, apiKey string, timeout time.Duration) *SpaceClient {
	if endpoint == "" {
		endpoint = DefaultSpaceEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SpaceClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type spaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"` // string or []string
}

func (r spaceResponse) errorMessage() string {
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(r.ErrorMessage, &s); err == nil {
		return s
	}
	return "unknown error"
}

// ExtractText uploads image and returns the recognized text.
func (c *SpaceClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	body, contentType, err := c.form(image)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("building ocr request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ocr: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr returned %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(msg)), ErrUnavailable)
	}

	var parsed spaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding ocr response: %v: %w", err, ErrUnavailable)
	}
	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %s: %w", parsed.errorMessage(), ErrUnavailable)
	}

	var parts []string
	for _, r := range parsed.ParsedResults {
		parts = append(parts, r.ParsedText)
	}
	text := normalize(strings.Join(parts, "\n"))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (c *SpaceClient) form(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"language":          "eng",
		"OCREngine":         "2",
		"scale":             "true",
		"isTable":           "true",
		"detectOrientation": "true",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", k, err)
		}
	}

	fw, err := w.CreateFormFile("file", "receipt"+extensionFor(image))
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return nil, "", fmt.Errorf("writing image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func extensionFor(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	case "image/gif":
		return ".gif"
	}
	return ".jpg"
}
