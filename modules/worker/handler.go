package worker

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	redisutil "inspiration-poster-server/modules/common/redis"
	"inspiration-poster-server/modules/poster"
)

// Handler - HTTP surface of the job queue
type Handler struct {
	rdb *redis.Client
}

func NewHandler(rdb *redis.Client) *Handler {
	return &Handler{rdb: rdb}
}

// RegisterRoutes - job queue routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/poster/jobs", h.HandleEnqueue).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/poster/jobs/{jobId}", h.HandleJobStatus).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/poster/jobs/{jobId}/cancel", h.HandleCancel).Methods("POST", "OPTIONS")
	log.Println("✅ [Worker] Job routes registered: /api/poster/jobs")
}

// EnqueueRequest - POST /api/poster/jobs body
type EnqueueRequest struct {
	Date  string `json:"date"`
	Theme string `json:"theme"`
}

// EnqueueResponse - enqueue result
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	JobID         string `json:"jobId,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
	ErrorCode     string `json:"errorCode,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// JobResponse - job lookup and cancel result
type JobResponse struct {
	Success      bool       `json:"success"`
	Job          *PosterJob `json:"job,omitempty"`
	ErrorCode    string     `json:"errorCode,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// HandleEnqueue - POST /api/poster/jobs
func (h *Handler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Worker] Invalid enqueue request: %v", err)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInvalidRequest,
			ErrorMessage: "Invalid request body",
		})
		return
	}

	// validate up front so the queue only ever holds runnable jobs
	if _, _, errResp := poster.ParseRunParams(req.Date, req.Theme); errResp != nil {
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success:      false,
			ErrorCode:    errResp.ErrorCode,
			ErrorMessage: errResp.ErrorMessage,
		})
		return
	}

	job := &PosterJob{
		JobID:     uuid.New().String(),
		Date:      req.Date,
		Theme:     req.Theme,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := saveJob(ctx, h.rdb, job); err != nil {
		log.Printf("❌ [Worker] Failed to store job: %v", err)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInternalError,
			ErrorMessage: "Failed to store job",
		})
		return
	}

	if err := h.rdb.LPush(ctx, QueueKey, job.JobID).Err(); err != nil {
		log.Printf("❌ [Worker] Redis LPUSH failed: %v", err)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInternalError,
			ErrorMessage: "Failed to enqueue job",
		})
		return
	}

	queueLen, _ := h.rdb.LLen(ctx, QueueKey).Result()
	log.Printf("📥 [Worker] Job %s enqueued (position: %d)", job.JobID, queueLen)

	json.NewEncoder(w).Encode(EnqueueResponse{
		Success:       true,
		JobID:         job.JobID,
		QueuePosition: queueLen,
	})
}

// HandleJobStatus - GET /api/poster/jobs/{jobId}
func (h *Handler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	jobID := mux.Vars(r)["jobId"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job, err := loadJob(ctx, h.rdb, jobID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(JobResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInvalidRequest,
			ErrorMessage: "Job not found",
		})
		return
	}

	json.NewEncoder(w).Encode(JobResponse{Success: true, Job: job})
}

// HandleCancel - POST /api/poster/jobs/{jobId}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	jobID := mux.Vars(r)["jobId"]
	log.Printf("🛑 [Worker] Cancel requested for job: %s", jobID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job, err := loadJob(ctx, h.rdb, jobID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(JobResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInvalidRequest,
			ErrorMessage: "Job not found",
		})
		return
	}

	if job.Terminal() {
		json.NewEncoder(w).Encode(JobResponse{
			Success:      false,
			Job:          job,
			ErrorCode:    poster.ErrCodeInvalidRequest,
			ErrorMessage: "Job already " + job.Status,
		})
		return
	}

	if err := redisutil.SetJobCancelled(h.rdb, jobID); err != nil {
		log.Printf("❌ [Worker] Failed to set cancel flag: %v", err)
		json.NewEncoder(w).Encode(JobResponse{
			Success:      false,
			ErrorCode:    poster.ErrCodeInternalError,
			ErrorMessage: "Failed to set cancel flag",
		})
		return
	}

	// a pending job never reaches the workflow; mark it cancelled now
	if job.Status == StatusPending {
		markCancelled(job)
		if err := saveJob(ctx, h.rdb, job); err != nil {
			log.Printf("⚠️  [Worker] Failed to persist cancelled job %s: %v", jobID, err)
		}
	}

	log.Printf("✅ [Worker] Cancel flag set for job: %s (status: %s)", jobID, job.Status)
	json.NewEncoder(w).Encode(JobResponse{Success: true, Job: job})
}

func saveJob(ctx context.Context, rdb *redis.Client, job *PosterJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, JobKey(job.JobID), data, jobTTL).Err()
}

func loadJob(ctx context.Context, rdb *redis.Client, jobID string) (*PosterJob, error) {
	data, err := rdb.Get(ctx, JobKey(jobID)).Bytes()
	if err != nil {
		return nil, err
	}

	var job PosterJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
