package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspiration-poster-server/modules/imagegen"
	"inspiration-poster-server/modules/poster"
	"inspiration-poster-server/modules/theme"
)

// fakeRasterizer - returns fixed bytes without drawing
type fakeRasterizer struct {
	data []byte
	err  error
}

func (f *fakeRasterizer) Rasterize(record *poster.PosterRecord, scale int) ([]byte, error) {
	return f.data, f.err
}

type fakeDownloader struct {
	calls    int
	filename string
	mimeType string
}

func (f *fakeDownloader) Download(filename string, data []byte, mimeType string) error {
	f.calls++
	f.filename = filename
	f.mimeType = mimeType
	return nil
}

type fakeClipboard struct {
	calls int
	err   error
}

func (f *fakeClipboard) CopyImage(data []byte) error {
	f.calls++
	return f.err
}

type fakeShare struct {
	calls int
	err   error
}

func (f *fakeShare) Share(title, text, filename string, data []byte) error {
	f.calls++
	return f.err
}

func testRecord(t *testing.T) *poster.PosterRecord {
	t.Helper()
	record, err := poster.AssembleRecord(poster.DailyContent{
		Quote: "Q", Author: "A", LuckyItem: "I", LuckyColor: "C",
		LunarDate: "L", SolarTerm: "S", Yi: "Y", Ji: "J",
	}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), theme.Minimalist, tinyPNGDataURI(t))
	require.NoError(t, err)
	return record
}

// tinyPNGDataURI - 2x2 PNG as a data URI, the shape the image provider emits
func tinyPNGDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return imagegen.DataURI("image/png", buf.Bytes())
}

func TestFileNameIsDeterministic(t *testing.T) {
	date := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "inspiration-calendar-2024-03-01.png", FileName(date))
	assert.Equal(t, FileName(date), FileName(date))
}

func TestExportPNG(t *testing.T) {
	download := &fakeDownloader{}
	f := NewFacility(&fakeRasterizer{data: []byte("PNG")}, download, nil, nil, DefaultSharePolicy())

	name, err := f.ExportPNG(testRecord(t))
	require.NoError(t, err)

	assert.Equal(t, "inspiration-calendar-2024-03-01.png", name)
	assert.Equal(t, 1, download.calls)
	assert.Equal(t, "image/png", download.mimeType)
}

func TestShareUsesNativeShareFirst(t *testing.T) {
	download := &fakeDownloader{}
	clipboard := &fakeClipboard{}
	share := &fakeShare{}
	f := NewFacility(&fakeRasterizer{data: []byte("PNG")}, download, clipboard, share, DefaultSharePolicy())

	require.NoError(t, f.Share(testRecord(t)))
	assert.Equal(t, 1, share.calls)
	assert.Equal(t, 0, clipboard.calls)
	assert.Equal(t, 0, download.calls)
}

func TestShareCancelIsSwallowed(t *testing.T) {
	download := &fakeDownloader{}
	clipboard := &fakeClipboard{}
	share := &fakeShare{err: &CancelError{Name: "AbortError"}}
	f := NewFacility(&fakeRasterizer{data: []byte("PNG")}, download, clipboard, share, DefaultSharePolicy())

	require.NoError(t, f.Share(testRecord(t)))
	// dismissal is not a failure; no fallback fires
	assert.Equal(t, 0, clipboard.calls)
	assert.Equal(t, 0, download.calls)
}

func TestShareFailureFallsBackToClipboard(t *testing.T) {
	download := &fakeDownloader{}
	clipboard := &fakeClipboard{}
	share := &fakeShare{err: errors.New("share target crashed")}
	f := NewFacility(&fakeRasterizer{data: []byte("PNG")}, download, clipboard, share, DefaultSharePolicy())

	require.NoError(t, f.Share(testRecord(t)))
	assert.Equal(t, 1, clipboard.calls)
	assert.Equal(t, 0, download.calls)
}

func TestShareFallsAllTheWayToDownload(t *testing.T) {
	download := &fakeDownloader{}
	clipboard := &fakeClipboard{err: errors.New("clipboard unavailable")}
	share := &fakeShare{err: errors.New("share unavailable")}
	f := NewFacility(&fakeRasterizer{data: []byte("PNG")}, download, clipboard, share, DefaultSharePolicy())

	require.NoError(t, f.Share(testRecord(t)))
	assert.Equal(t, 1, clipboard.calls)
	assert.Equal(t, 1, download.calls)
	assert.Equal(t, "inspiration-calendar-2024-03-01.png", download.filename)
}

func TestSharePolicyIsConfigurable(t *testing.T) {
	policy := SharePolicy{CancelNames: []string{"AbortError", "NotAllowedError"}}

	assert.True(t, policy.IsCancel(&CancelError{Name: "NotAllowedError"}))
	assert.False(t, policy.IsCancel(&CancelError{Name: "TypeError"}))
	assert.False(t, policy.IsCancel(errors.New("AbortError")), "only CancelError carries a dismissal name")
}

func TestDrawRasterizerProducesScaledPNG(t *testing.T) {
	raster := NewDrawRasterizer()

	data, err := raster.Rasterize(testRecord(t), Scale)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, baseWidth*Scale, img.Bounds().Dx())
	assert.Equal(t, baseHeight*Scale, img.Bounds().Dy())
}

func TestDrawRasterizerWithoutImage(t *testing.T) {
	record := testRecord(t)
	bare := *record
	bare.ImageURL = ""

	data, err := NewDrawRasterizer().Rasterize(&bare, 1)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, baseWidth, img.Bounds().Dx())
}

func TestDecodeDataURI(t *testing.T) {
	data, mimeType, err := DecodeDataURI("data:image/webp;base64,AQI=")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, data)
	assert.Equal(t, "image/webp", mimeType)

	_, _, err = DecodeDataURI("https://example.com/a.png")
	assert.Error(t, err)

	_, _, err = DecodeDataURI("data:image/png;base64")
	assert.Error(t, err)
}
