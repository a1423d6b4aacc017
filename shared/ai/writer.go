package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bur98022/cfm-personal-podcast/shared/config"

	"google.golang.org/genai"
)

// ErrQuotaExceeded signals a rate-limit or quota condition from the
// generation service. It is surfaced for operator diagnosis, never retried:
// repeated calls cost money and could duplicate content.
var ErrQuotaExceeded = errors.New("generation quota exceeded")

// Writer produces and adjusts episode scripts through the Gemini API.
type Writer struct {
	client *genai.Client
	model  string
}

func NewWriter(cfg *config.Config) (*Writer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Writer{
		client: client,
		model:  cfg.AI.ScriptModel,
	}, nil
}

// Generate sends one prompt and returns the full text response. There is no
// caching and no retry; every invocation is independent.
func (w *Writer) Generate(ctx context.Context, prompt string) (string, error) {
	return w.complete(ctx, prompt)
}

// Expand asks the model to lengthen text toward the given word band while
// preserving structure and without inventing new source material.
func (w *Writer) Expand(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	prompt := fmt.Sprintf(`The following podcast episode script is too short. Expand it to between %d and %d words.

Rules:
- Keep the existing structure, headers, and section order exactly as they are.
- Deepen the existing points; do not invent new scripture references or source material.
- Return only the revised script, nothing else.

SCRIPT:
%s`, minWords, maxWords, text)

	return w.complete(ctx, prompt)
}

// Shorten asks the model to tighten text into the given word band.
func (w *Writer) Shorten(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	prompt := fmt.Sprintf(`The following podcast episode script is too long. Shorten it to between %d and %d words.

Rules:
- Keep the existing structure, headers, and section order exactly as they are.
- Cut repetition and trim wordy passages; do not drop whole sections.
- Return only the revised script, nothing else.

SCRIPT:
%s`, minWords, maxWords, text)

	return w.complete(ctx, prompt)
}

func (w *Writer) complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := w.client.Models.GenerateContent(ctx, w.model, contents, nil)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", w.model)
	}

	return text, nil
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429")
}
