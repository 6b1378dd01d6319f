package archive

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"inspiration-poster-server/modules/poster"
)

// Handler - read-only archive lookup surface
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// ListResponse - GET /api/poster/archive body
type ListResponse struct {
	Success      bool         `json:"success"`
	Posters      []PosterView `json:"posters,omitempty"`
	ErrorCode    string       `json:"errorCode,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
}

// PosterView - archive row plus a resolved public image URL
type PosterView struct {
	ArchivedPoster
	ImageURL string `json:"image_url,omitempty"`
}

// HandleList - GET /api/poster/archive?date=YYYY-MM-DD (empty date means today)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	date := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			json.NewEncoder(w).Encode(ListResponse{
				Success:      false,
				ErrorCode:    poster.ErrCodeInvalidRequest,
				ErrorMessage: "Invalid date, expected YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	rows, err := h.client.FetchByDate(r.Context(), date)
	if err != nil {
		log.Printf("❌ [Archive] Lookup failed: %v", err)
		json.NewEncoder(w).Encode(ListResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInternalError,
			ErrorMessage: "Failed to query archive",
		})
		return
	}

	views := make([]PosterView, 0, len(rows))
	for _, row := range rows {
		views = append(views, PosterView{
			ArchivedPoster: row,
			ImageURL:       h.client.PublicImageURL(row.ImagePath),
		})
	}

	json.NewEncoder(w).Encode(ListResponse{Success: true, Posters: views})
}
