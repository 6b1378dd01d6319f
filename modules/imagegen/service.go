package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"google.golang.org/genai"

	"inspiration-poster-server/modules/common/config"
	"inspiration-poster-server/modules/common/gemini"
	"inspiration-poster-server/modules/poster"
	"inspiration-poster-server/modules/theme"
)

// Service - Gemini-backed image provider
type Service struct {
	model        string
	fallbackKeys []string
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		model:        cfg.GeminiImageModel,
		fallbackKeys: cfg.GeminiExtraKeys,
	}
}

// GeneratePosterImage - generate the poster background for one run and
// return it as a displayable data URI
func (s *Service) GeneratePosterImage(ctx context.Context, apiKey string, content *poster.DailyContent, th theme.Theme) (string, error) {
	prompt := BuildImagePrompt(content.Quote, th)
	log.Printf("🎨 [Image] Calling image model %s (theme: %s, prompt: %d chars)", s.model, th, len(prompt))

	contents := []*genai.Content{
		{Parts: []*genai.Part{genai.NewPartFromText(prompt)}},
	}

	keys := append([]string{apiKey}, s.fallbackKeys...)
	result, err := gemini.GenerateContentWithRetry(ctx, keys, s.model, contents, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: "1:1",
		},
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [Image] Received image: %d bytes (%s)", len(part.InlineData.Data), part.InlineData.MIMEType)
				return DataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}

	return "", fmt.Errorf("no image data in response")
}

// DataURI - encode image bytes as a data URI embeddable by any renderer
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
