package poster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspiration-poster-server/modules/credential"
	"inspiration-poster-server/modules/theme"
)

// fakeContentProvider - scripted content provider
type fakeContentProvider struct {
	mu        sync.Mutex
	content   *DailyContent
	err       error
	calls     int
	lastKey   string
	lastDate  time.Time
	lastTheme theme.Theme
	block     chan struct{} // when set, the call parks until closed
}

func (f *fakeContentProvider) GenerateDailyContent(ctx context.Context, apiKey string, date time.Time, th theme.Theme) (*DailyContent, error) {
	f.mu.Lock()
	f.calls++
	f.lastKey = apiKey
	f.lastDate = date
	f.lastTheme = th
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	content := *f.content
	return &content, nil
}

func (f *fakeContentProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeImageProvider - scripted image provider, captures the quote it was
// derived from
type fakeImageProvider struct {
	mu         sync.Mutex
	url        string
	err        error
	calls      int
	lastQuotes []string
	lastTheme  theme.Theme
}

func (f *fakeImageProvider) GeneratePosterImage(ctx context.Context, apiKey string, content *DailyContent, th theme.Theme) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastQuotes = append(f.lastQuotes, content.Quote)
	f.lastTheme = th
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeImageProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingSink - captures every status transition in order
type recordingSink struct {
	mu       sync.Mutex
	statuses []Status
}

func (s *recordingSink) OnStatus(runID string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *recordingSink) seen() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

func validContent() *DailyContent {
	return &DailyContent{
		Quote:      "Q",
		Author:     "A",
		LuckyItem:  "I",
		LuckyColor: "C",
		LunarDate:  "L",
		SolarTerm:  "S",
		Yi:         "Y1",
		Ji:         "J1",
	}
}

func newTestWorkflow(t *testing.T, content ContentProvider, image ImageProvider, creds credential.Reader, sink StatusSink) *Workflow {
	t.Helper()
	w := NewWorkflow(content, image, creds, sink, 800*time.Millisecond)
	w.sleep = func(time.Duration) {}
	return w
}

func TestGenerateHappyPath(t *testing.T) {
	contentProvider := &fakeContentProvider{content: validContent()}
	imageProvider := &fakeImageProvider{url: "IMG"}
	sink := &recordingSink{}
	creds := credential.NewMemoryStore("test-key")
	w := newTestWorkflow(t, contentProvider, imageProvider, creds, sink)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	record, err := w.Generate(context.Background(), date, theme.Minimalist)
	require.NoError(t, err)
	require.NotNil(t, record)

	// exact state sequence, no skips, no reordering
	assert.Equal(t, []Status{
		StatusGeneratingText,
		StatusGeneratingImage,
		StatusFinalizing,
		StatusComplete,
	}, sink.seen())
	assert.Equal(t, StatusComplete, w.Status())

	assert.Equal(t, "Q", record.Quote)
	assert.Equal(t, "A", record.Author)
	assert.Equal(t, "I", record.LuckyItem)
	assert.Equal(t, "C", record.LuckyColor)
	assert.Equal(t, "L", record.LunarDate)
	assert.Equal(t, "S", record.SolarTerm)
	assert.Equal(t, "Y1", record.Yi)
	assert.Equal(t, "J1", record.Ji)
	assert.Equal(t, date, record.Date)
	assert.Equal(t, theme.Minimalist, record.Theme)
	assert.Equal(t, "IMG", record.ImageURL)

	// providers saw the run parameters and the stored credential
	assert.Equal(t, "test-key", contentProvider.lastKey)
	assert.Equal(t, date, contentProvider.lastDate)
	assert.Equal(t, theme.Minimalist, contentProvider.lastTheme)
	assert.Equal(t, theme.Minimalist, imageProvider.lastTheme)
}

func TestContentFailureSkipsImageProvider(t *testing.T) {
	contentProvider := &fakeContentProvider{err: errors.New("connection reset")}
	imageProvider := &fakeImageProvider{url: "IMG"}
	sink := &recordingSink{}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore("k"), sink)

	_, err := w.Generate(context.Background(), time.Now(), theme.Watercolor)
	require.Error(t, err)

	assert.Equal(t, 0, imageProvider.callCount(), "image provider must not run after a content failure")
	assert.Equal(t, StatusError, w.Status())
	assert.NotContains(t, sink.seen(), StatusComplete)
}

func TestAuthFailureClassification(t *testing.T) {
	contentProvider := &fakeContentProvider{err: errors.New("401 Unauthorized")}
	imageProvider := &fakeImageProvider{}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore("bad-key"), nil)

	_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
	require.Error(t, err)

	classified := NewClassifier().Classify(err)
	assert.Equal(t, KindAuthOrQuota, classified.Kind)
	assert.True(t, classified.ShouldPromptCredential)
	assert.Equal(t, 0, imageProvider.callCount())
	assert.Equal(t, StatusError, w.Status())
}

func TestMissingCredentialFailsBeforeAnyCall(t *testing.T) {
	contentProvider := &fakeContentProvider{content: validContent()}
	imageProvider := &fakeImageProvider{url: "IMG"}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore(""), nil)

	_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
	require.ErrorIs(t, err, ErrMissingCredential)

	assert.Equal(t, 0, contentProvider.callCount(), "zero network calls on missing credential")
	assert.Equal(t, 0, imageProvider.callCount())
	assert.Equal(t, StatusError, w.Status())
}

func TestImagePromptDerivesFromCurrentRunQuote(t *testing.T) {
	contentProvider := &fakeContentProvider{content: validContent()}
	imageProvider := &fakeImageProvider{url: "IMG"}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore("k"), nil)

	_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
	require.NoError(t, err)

	// second run with different content; the image provider must see the new
	// quote, never a cached one
	second := validContent()
	second.Quote = "Q2"
	contentProvider.content = second

	_, err = w.Generate(context.Background(), time.Now(), theme.Minimalist)
	require.NoError(t, err)

	require.Equal(t, []string{"Q", "Q2"}, imageProvider.lastQuotes)
}

func TestMalformedContentAbortsBeforeImage(t *testing.T) {
	broken := validContent()
	broken.LunarDate = ""
	contentProvider := &fakeContentProvider{content: broken}
	imageProvider := &fakeImageProvider{url: "IMG"}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore("k"), nil)

	_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
	require.Error(t, err)

	var malformed *MalformedContentError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "lunarDate", malformed.Field)
	assert.Equal(t, 0, imageProvider.callCount())
	assert.Equal(t, KindMalformed, NewClassifier().Classify(err).Kind)
}

func TestSingleFlightGuard(t *testing.T) {
	block := make(chan struct{})
	contentProvider := &fakeContentProvider{content: validContent(), block: block}
	imageProvider := &fakeImageProvider{url: "IMG"}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore("k"), nil)

	done := make(chan error, 1)
	go func() {
		_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
		done <- err
	}()

	// wait for the first run to reach the content provider
	require.Eventually(t, func() bool {
		return contentProvider.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(block)
	require.NoError(t, <-done)

	// once the first run is terminal a new run is accepted again
	_, err = w.Generate(context.Background(), time.Now(), theme.Minimalist)
	assert.NoError(t, err)
}

func TestCancelledRunNeverCompletes(t *testing.T) {
	contentProvider := &fakeContentProvider{content: validContent()}
	imageProvider := &fakeImageProvider{url: "IMG"}
	sink := &recordingSink{}
	w := newTestWorkflow(t, contentProvider, imageProvider, credential.NewMemoryStore("k"), sink)

	record, err := w.GenerateWithCancel(context.Background(), time.Now(), theme.Minimalist, func() bool { return true })
	require.ErrorIs(t, err, ErrRunCancelled)
	assert.Nil(t, record, "a cancelled run must not return a record")

	// the generated text result is discarded before the image stage
	assert.Equal(t, 1, contentProvider.callCount())
	assert.Equal(t, 0, imageProvider.callCount())
	assert.NotContains(t, sink.seen(), StatusComplete)
}

func TestInvalidRunParameters(t *testing.T) {
	w := newTestWorkflow(t, &fakeContentProvider{content: validContent()}, &fakeImageProvider{url: "IMG"}, credential.NewMemoryStore("k"), nil)

	_, err := w.Generate(context.Background(), time.Time{}, theme.Minimalist)
	assert.Error(t, err)

	_, err = w.Generate(context.Background(), time.Now(), theme.Theme("vaporwave"))
	assert.Error(t, err)
}

func TestFinalizeDelayIsApplied(t *testing.T) {
	contentProvider := &fakeContentProvider{content: validContent()}
	imageProvider := &fakeImageProvider{url: "IMG"}
	w := NewWorkflow(contentProvider, imageProvider, credential.NewMemoryStore("k"), nil, 800*time.Millisecond)

	var slept time.Duration
	w.sleep = func(d time.Duration) { slept = d }

	_, err := w.Generate(context.Background(), time.Now(), theme.Minimalist)
	require.NoError(t, err)
	assert.Equal(t, 800*time.Millisecond, slept)
}
