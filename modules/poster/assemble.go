package poster

import (
	"time"

	"inspiration-poster-server/modules/theme"
)

// ValidateContent - structural completeness check of a provider result.
// Runs before assembly (and before the image call, which derives its prompt
// from the quote); never deferred to the renderer.
func ValidateContent(content *DailyContent) error {
	if content == nil {
		return &MalformedContentError{Field: "content"}
	}

	required := []struct {
		name  string
		value string
	}{
		{"quote", content.Quote},
		{"author", content.Author},
		{"luckyItem", content.LuckyItem},
		{"luckyColor", content.LuckyColor},
		{"lunarDate", content.LunarDate},
		{"solarTerm", content.SolarTerm},
		{"yi", content.Yi},
		{"ji", content.Ji},
	}

	for _, field := range required {
		if field.value == "" {
			return &MalformedContentError{Field: field.name}
		}
	}
	return nil
}

// AssembleRecord - merge generated content with the run parameters into one
// immutable poster record. Pure; no side effects beyond the completeness
// check.
func AssembleRecord(content DailyContent, date time.Time, th theme.Theme, imageURL string) (*PosterRecord, error) {
	if err := ValidateContent(&content); err != nil {
		return nil, err
	}

	return &PosterRecord{
		DailyContent: content,
		Date:         date,
		Theme:        th,
		ImageURL:     imageURL,
	}, nil
}
