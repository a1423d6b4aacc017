package ai

import (
	"context"
	"fmt"

	"github.com/bur98022/cfm-personal-podcast/shared/config"

	"google.golang.org/genai"
)

// Speech converts narration text into audio bytes through the Gemini API.
// Callers are responsible for keeping each request under the provider's
// input-size ceiling; this client sends whatever it is given.
type Speech struct {
	client *genai.Client
	model  string
	voice  string
}

func NewSpeech(cfg *config.Config) (*Speech, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Speech{
		client: client,
		model:  cfg.AI.SpeechModel,
		voice:  cfg.AI.Voice,
	}, nil
}

// Synthesize renders one chunk of narration text as audio bytes.
func (s *Speech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(text)}, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, fmt.Errorf("no audio data in response from model %s", s.model)
}
