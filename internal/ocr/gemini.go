package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const transcribePrompt = "Transcribe all text printed on this receipt or payment slip.\n" +
	"Keep the original line order, one printed line per output line.\n" +
	"Copy numbers, currency symbols and separators exactly as printed.\n" +
	"Return plain text only, with no commentary and no Markdown.\n" +
	"If there is no legible text, return an empty response."

// contentGenerator is the slice of the genai client GeminiClient needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient transcribes receipts with a Gemini vision model.
type GeminiClient struct {
	models contentGenerator
	model  string
}

// NewGeminiClient creates a GeminiClient. With an empty apiKey the genai
// library reads its usual environment variables.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	if apiKey != "" {
		cc.APIKey = apiKey
		cc.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiClient(client.Models, model), nil
}

func newGeminiClient(g contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{models: g, model: model}
}

// ExtractText sends image to the model and returns its transcription.
func (c *GeminiClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: http.DetectContentType(image),
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %v: %w", err, ErrUnavailable)
	}

	text := normalize(stripFences(resp.Text()))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// stripFences removes a Markdown code fence the model may wrap output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return s
}
