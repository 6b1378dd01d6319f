package worker

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	redisutil "inspiration-poster-server/modules/common/redis"
	"inspiration-poster-server/modules/export"
	"inspiration-poster-server/modules/poster"
)

// Archiver - optional long-term storage for finished posters
type Archiver interface {
	ArchivePoster(ctx context.Context, record *poster.PosterRecord, webpData []byte) (string, error)
}

// Worker - sequential queue consumer. Jobs run one at a time because the
// workflow allows a single active generation.
type Worker struct {
	rdb        *redis.Client
	workflow   *poster.Workflow
	classifier *poster.Classifier
	archiver   Archiver
	raster     export.Rasterizer
}

func NewWorker(rdb *redis.Client, workflow *poster.Workflow, classifier *poster.Classifier, archiver Archiver) *Worker {
	return &Worker{
		rdb:        rdb,
		workflow:   workflow,
		classifier: classifier,
		archiver:   archiver,
		raster:     export.NewDrawRasterizer(),
	}
}

// Start - block on the queue and process jobs until ctx is done
func (w *Worker) Start(ctx context.Context) {
	log.Println("🔄 [Worker] Poster queue worker starting...")
	log.Printf("👀 [Worker] Watching queue: %s", QueueKey)

	for {
		result, err := w.rdb.BRPop(ctx, 0, QueueKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				log.Println("👋 [Worker] Queue worker stopping")
				return
			}
			log.Printf("❌ [Worker] Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0] is the queue name, result[1] the job ID
		jobID := result[1]
		log.Printf("🎯 [Worker] Received job: %s", jobID)
		w.processJob(ctx, jobID)
	}
}

func (w *Worker) processJob(ctx context.Context, jobID string) {
	job, err := loadJob(ctx, w.rdb, jobID)
	if err != nil {
		log.Printf("❌ [Worker] Failed to load job %s: %v", jobID, err)
		return
	}

	// cancelled while still in the queue
	if job.Terminal() {
		log.Printf("⏭️  [Worker] Skipping %s job: %s", job.Status, jobID)
		return
	}
	if redisutil.IsJobCancelled(w.rdb, jobID) {
		markCancelled(job)
		w.persist(ctx, job)
		log.Printf("🛑 [Worker] Job cancelled before start: %s", jobID)
		return
	}

	date, th, errResp := poster.ParseRunParams(job.Date, job.Theme)
	if errResp != nil {
		markFailed(job, errResp.ErrorCode, errResp.ErrorMessage)
		w.persist(ctx, job)
		return
	}

	markProcessing(job)
	w.persist(ctx, job)
	log.Printf("🚀 [Worker] Processing job: %s (%s, %s)", jobID, job.Date, job.Theme)

	cancelled := func() bool {
		return redisutil.IsJobCancelled(w.rdb, jobID)
	}

	record, err := w.workflow.GenerateWithCancel(ctx, date, th, cancelled)
	if err != nil {
		classified := w.classifier.Classify(err)
		if classified.Code == poster.ErrCodeCancelled {
			markCancelled(job)
			log.Printf("🛑 [Worker] Job cancelled: %s", jobID)
		} else {
			markFailed(job, classified.Code, classified.UserMessage)
			log.Printf("❌ [Worker] Job failed: %s (%s)", jobID, classified.Code)
		}
		w.persist(ctx, job)
		return
	}

	markCompleted(job, record)
	if w.archiver != nil {
		if path, err := w.archive(ctx, record); err != nil {
			// the poster itself is done; archival is best effort
			log.Printf("⚠️  [Worker] Failed to archive poster for job %s: %v", jobID, err)
		} else {
			job.ArchivePath = path
		}
	}
	w.persist(ctx, job)
	log.Printf("✅ [Worker] Job completed: %s", jobID)
}

// archive - render the finished poster and hand it to long-term storage
func (w *Worker) archive(ctx context.Context, record *poster.PosterRecord) (string, error) {
	pngData, err := w.raster.Rasterize(record, export.Scale)
	if err != nil {
		return "", err
	}
	webpData, err := export.ConvertPNGToWebP(pngData, 90.0)
	if err != nil {
		return "", err
	}
	return w.archiver.ArchivePoster(ctx, record, webpData)
}

func (w *Worker) persist(ctx context.Context, job *PosterJob) {
	if err := saveJob(ctx, w.rdb, job); err != nil {
		log.Printf("⚠️  [Worker] Failed to persist job %s: %v", job.JobID, err)
	}
}

func markProcessing(job *PosterJob) {
	now := time.Now().UTC()
	job.Status = StatusProcessing
	job.StartedAt = &now
}

func markCompleted(job *PosterJob, record *poster.PosterRecord) {
	now := time.Now().UTC()
	job.Status = StatusCompleted
	job.Poster = record
	job.CompletedAt = &now
}

func markFailed(job *PosterJob, code, message string) {
	now := time.Now().UTC()
	job.Status = StatusFailed
	job.ErrorCode = code
	job.ErrorMessage = message
	job.CompletedAt = &now
}

func markCancelled(job *PosterJob) {
	now := time.Now().UTC()
	job.Status = StatusUserCancelled
	job.CompletedAt = &now
}
