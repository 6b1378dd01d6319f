package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GenerateContentWithRetry - call Gemini, rotating through API keys on rate limits.
// apiKeys[0] is the run credential; any further keys are server-side fallbacks.
// Each key gets up to 3 attempts before the next key is tried. Non-rate-limit
// errors are returned immediately so the caller can classify them.
func GenerateContentWithRetry(
	ctx context.Context,
	apiKeys []string,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {

	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys provided")
	}

	const maxRetriesPerKey = 3
	var lastErr error

	for keyIndex, apiKey := range apiKeys {
		for attempt := 1; attempt <= maxRetriesPerKey; attempt++ {
			if attempt > 1 {
				log.Printf("   🔄 [Gemini Retry] Attempt %d/%d for key #%d", attempt, maxRetriesPerKey, keyIndex+1)
			}

			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				log.Printf("⚠️  [Gemini Retry] Failed to create client with key #%d: %v", keyIndex+1, err)
				lastErr = err
				continue
			}

			result, err := client.Models.GenerateContent(ctx, model, contents, config)
			if err == nil {
				if attempt > 1 || keyIndex > 0 {
					log.Printf("✅ [Gemini Retry] Success with key #%d (attempt %d/%d)", keyIndex+1, attempt, maxRetriesPerKey)
				}
				return result, nil
			}

			lastErr = err

			// Anything other than a rate limit goes straight back to the caller.
			if !isRateLimitError(err) {
				return nil, err
			}

			log.Printf("⚠️  [Gemini Retry] Key #%d hit rate limit on attempt %d/%d", keyIndex+1, attempt, maxRetriesPerKey)

			if attempt < maxRetriesPerKey {
				time.Sleep(2 * time.Second)
			}
		}

		if keyIndex < len(apiKeys)-1 {
			log.Printf("⚠️  [Gemini Retry] Key #%d exhausted, trying next key", keyIndex+1)
		}
	}

	return nil, fmt.Errorf("all %d API keys exhausted: %w", len(apiKeys), lastErr)
}

// isRateLimitError - transient 429-class errors worth retrying
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource_exhausted")
}
