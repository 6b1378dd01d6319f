package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"inspiration-poster-server/modules/common/config"
	"inspiration-poster-server/modules/common/gemini"
	"inspiration-poster-server/modules/poster"
	"inspiration-poster-server/modules/theme"
)

// Service - Gemini-backed content provider
type Service struct {
	model        string
	fallbackKeys []string
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		model:        cfg.GeminiTextModel,
		fallbackKeys: cfg.GeminiExtraKeys,
	}
}

// contentSchema - response schema forcing the model into the DailyContent shape
func contentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quote":      {Type: genai.TypeString, Description: "Inspirational quote in Chinese"},
			"author":     {Type: genai.TypeString, Description: "Author name"},
			"luckyItem":  {Type: genai.TypeString, Description: "A lucky object"},
			"luckyColor": {Type: genai.TypeString, Description: "A lucky color"},
			"poem":       {Type: genai.TypeString, Description: "Short poem or haiku"},
			"lunarDate":  {Type: genai.TypeString, Description: "Full lunar date string with GanZhi, e.g. 乙巳年 丁亥月 十月初八"},
			"solarTerm":  {Type: genai.TypeString, Description: "Solar term (JieQi)"},
			"yi":         {Type: genai.TypeString, Description: "Suitable activities (Yi), separated by space or comma"},
			"ji":         {Type: genai.TypeString, Description: "Avoid activities (Ji), separated by space or comma"},
		},
		Required: []string{"quote", "author", "luckyItem", "luckyColor", "lunarDate", "solarTerm", "yi", "ji"},
	}
}

// GenerateDailyContent - one text generation call for (date, theme)
func (s *Service) GenerateDailyContent(ctx context.Context, apiKey string, date time.Time, th theme.Theme) (*poster.DailyContent, error) {
	prompt := BuildPrompt(date, th)
	log.Printf("📝 [Content] Calling text model %s (date: %s, theme: %s)", s.model, date.Format("2006-01-02"), th)

	contents := []*genai.Content{
		{Parts: []*genai.Part{genai.NewPartFromText(prompt)}},
	}

	keys := append([]string{apiKey}, s.fallbackKeys...)
	result, err := gemini.GenerateContentWithRetry(ctx, keys, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   contentSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	raw := extractText(result)
	if raw == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	parsed, err := ParseContent([]byte(raw))
	if err != nil {
		return nil, err
	}

	log.Printf("✅ [Content] Generated daily content (quote: %d chars, solar term: %s)", len(parsed.Quote), parsed.SolarTerm)
	return parsed, nil
}

// ParseContent - decode the model's JSON payload into DailyContent
func ParseContent(data []byte) (*poster.DailyContent, error) {
	var content poster.DailyContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse content response: %w", err)
	}
	return &content, nil
}

// extractText - concatenate the text parts of the first usable candidate
func extractText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}
