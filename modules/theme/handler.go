package theme

import (
	"encoding/json"
	"net/http"
)

// ThemeInfo - catalog entry returned to the poster controls UI
type ThemeInfo struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	StylePrompt string      `json:"stylePrompt"`
	Layout      LayoutStyle `json:"layout"`
}

// HandleList - GET /api/themes
func HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	themes := make([]ThemeInfo, 0, len(all))
	for _, t := range All() {
		themes = append(themes, ThemeInfo{
			ID:          string(t),
			Label:       t.Label(),
			StylePrompt: t.StylePrompt(),
			Layout:      t.Layout(),
		})
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"themes":  themes,
	})
}
