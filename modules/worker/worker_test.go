package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspiration-poster-server/modules/poster"
	"inspiration-poster-server/modules/theme"
)

func pendingJob() *PosterJob {
	return &PosterJob{
		JobID:     "job-1",
		Date:      "2026-08-29",
		Theme:     "ink_wash",
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestJobKeyNamespacing(t *testing.T) {
	assert.Equal(t, "poster:job:abc", JobKey("abc"))
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := pendingJob()
	assert.False(t, job.Terminal())

	markProcessing(job)
	assert.Equal(t, StatusProcessing, job.Status)
	require.NotNil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.False(t, job.Terminal())

	content := poster.DailyContent{
		Quote: "q", Author: "a", LuckyItem: "i", LuckyColor: "c",
		LunarDate: "l", SolarTerm: "s", Yi: "y", Ji: "j",
	}
	record, err := poster.AssembleRecord(content, time.Now(), theme.InkWash, "data:image/png;base64,AAAA")
	require.NoError(t, err)

	markCompleted(job, record)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Same(t, record, job.Poster)
	require.NotNil(t, job.CompletedAt)
	assert.True(t, job.Terminal())
}

func TestMarkFailedRecordsClassification(t *testing.T) {
	job := pendingJob()
	markFailed(job, poster.ErrCodeAuthOrQuota, "Invalid API Key or Quota exceeded. Please check your key.")

	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, poster.ErrCodeAuthOrQuota, job.ErrorCode)
	assert.NotEmpty(t, job.ErrorMessage)
	assert.True(t, job.Terminal())
}

func TestMarkCancelledIsTerminal(t *testing.T) {
	job := pendingJob()
	markCancelled(job)

	assert.Equal(t, StatusUserCancelled, job.Status)
	assert.True(t, job.Terminal())
	assert.Empty(t, job.ErrorCode)
}
