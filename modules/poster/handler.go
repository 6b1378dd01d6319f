package poster

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"inspiration-poster-server/modules/theme"
)

// Handler - synchronous generation HTTP surface
type Handler struct {
	workflow   *Workflow
	classifier *Classifier
}

func NewHandler(workflow *Workflow, classifier *Classifier) *Handler {
	return &Handler{
		workflow:   workflow,
		classifier: classifier,
	}
}

// GenerateRequest - POST /api/poster/generate body
type GenerateRequest struct {
	Date  string `json:"date"`  // YYYY-MM-DD, empty means today
	Theme string `json:"theme"` // theme id or display label
}

// GenerateResponse - generation result envelope
type GenerateResponse struct {
	Success          bool          `json:"success"`
	Poster           *PosterRecord `json:"poster,omitempty"`
	ErrorCode        string        `json:"errorCode,omitempty"`
	ErrorMessage     string        `json:"errorMessage,omitempty"`
	PromptCredential bool          `json:"promptCredential,omitempty"`
}

// StatusResponse - GET /api/poster/status body
type StatusResponse struct {
	Status Status `json:"status"`
}

// HandleGenerate - POST /api/poster/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Poster] Invalid request: %v", err)
		json.NewEncoder(w).Encode(GenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeInvalidRequest,
			ErrorMessage: "Invalid request format",
		})
		return
	}

	date, th, errResp := ParseRunParams(req.Date, req.Theme)
	if errResp != nil {
		json.NewEncoder(w).Encode(*errResp)
		return
	}

	record, err := h.workflow.Generate(r.Context(), date, th)
	if err != nil {
		classified := h.classifier.Classify(err)
		json.NewEncoder(w).Encode(GenerateResponse{
			Success:          false,
			ErrorCode:        classified.Code,
			ErrorMessage:     classified.UserMessage,
			PromptCredential: classified.ShouldPromptCredential,
		})
		return
	}

	json.NewEncoder(w).Encode(GenerateResponse{
		Success: true,
		Poster:  record,
	})
}

// HandleStatus - GET /api/poster/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{Status: h.workflow.Status()})
}

// ParseRunParams - validate the (date, theme) pair shared by the sync
// endpoint and the job queue. An empty date means today.
func ParseRunParams(dateStr, themeStr string) (time.Time, theme.Theme, *GenerateResponse) {
	date := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return time.Time{}, "", &GenerateResponse{
				Success:      false,
				ErrorCode:    ErrCodeInvalidRequest,
				ErrorMessage: "Invalid date, expected YYYY-MM-DD",
			}
		}
		date = parsed
	}

	th, err := theme.Parse(themeStr)
	if err != nil {
		return time.Time{}, "", &GenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeInvalidRequest,
			ErrorMessage: "Invalid theme",
		}
	}

	return date, th, nil
}
