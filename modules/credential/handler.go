package credential

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// Handler - credential slot HTTP surface. The stored key is never echoed
// back; status reports presence only.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type saveRequest struct {
	APIKey string `json:"apiKey"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HandleSave - POST /api/credential
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Credential] Invalid request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(saveResponse{Success: false, Error: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.APIKey) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(saveResponse{Success: false, Error: "apiKey is required"})
		return
	}

	if err := h.store.Write(r.Context(), req.APIKey); err != nil {
		log.Printf("❌ [Credential] Failed to store key: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(saveResponse{Success: false, Error: "Failed to store credential"})
		return
	}

	json.NewEncoder(w).Encode(saveResponse{Success: true})
}

// HandleStatus - GET /api/credential/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_, err := h.store.Read(r.Context())
	json.NewEncoder(w).Encode(map[string]bool{
		"configured": err == nil,
	})
}
