package translate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini-backed translator.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini translates text through the Gemini API. Service errors are not
// recovered here; a failed call fails the caller's run.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini translator.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

// Translate sends one translation request and returns the translated text.
func (g *Gemini) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	temp := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: buildPrompt(text, source, target)},
			},
		},
	}, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini translate: %w", err)
	}

	translated := extractText(resp)
	if translated == "" {
		return "", fmt.Errorf("gemini translate: empty response")
	}
	return translated, nil
}

func buildPrompt(text, source, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text from language code %q to language code %q.\n", source, target)
	b.WriteString("Return only the translated text with no preamble, labels, or quotation marks.\n\n")
	b.WriteString(text)
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
