package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspiration-poster-server/modules/poster"
	"inspiration-poster-server/modules/theme"
)

func testRecord(t *testing.T) *poster.PosterRecord {
	t.Helper()

	content := poster.DailyContent{
		Quote:      "山重水复疑无路，柳暗花明又一村。",
		Author:     "陆游",
		LuckyItem:  "一杯清茶",
		LuckyColor: "黛青色",
		LunarDate:  "七月初七",
		SolarTerm:  "处暑",
		Yi:         "远行",
		Ji:         "争执",
	}
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	record, err := poster.AssembleRecord(content, date, theme.InkWash, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	return record
}

func TestStoragePathLayout(t *testing.T) {
	date := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	path := StoragePath(date, "abc-123")
	assert.Equal(t, "posters/2026-08-29/abc-123.webp", path)
}

func TestRowFromRecordCarriesAllFields(t *testing.T) {
	record := testRecord(t)
	row := RowFromRecord(record, "abc-123", "posters/2026-08-29/abc-123.webp")

	assert.Equal(t, "abc-123", row.ArchiveID)
	assert.Equal(t, "2026-08-29", row.PosterDate)
	assert.Equal(t, "ink_wash", row.Theme)
	assert.Equal(t, record.Quote, row.Quote)
	assert.Equal(t, record.Author, row.Author)
	assert.Equal(t, record.LuckyItem, row.LuckyItem)
	assert.Equal(t, record.LuckyColor, row.LuckyColor)
	assert.Equal(t, record.LunarDate, row.LunarDate)
	assert.Equal(t, record.SolarTerm, row.SolarTerm)
	assert.Equal(t, record.Yi, row.Yi)
	assert.Equal(t, record.Ji, row.Ji)
	assert.Equal(t, "posters/2026-08-29/abc-123.webp", row.ImagePath)
}

func TestPublicImageURL(t *testing.T) {
	c := &Client{storageBaseURL: "https://cdn.example.com/storage/v1/object/public/"}
	assert.Equal(t,
		"https://cdn.example.com/storage/v1/object/public/posters/2026-08-29/abc.webp",
		c.PublicImageURL("posters/2026-08-29/abc.webp"))

	bare := &Client{}
	assert.Empty(t, bare.PublicImageURL("posters/x.webp"))
}

func TestUploadImageSendsWebPWithAuth(t *testing.T) {
	var gotPath, gotAuth, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		serviceKey: "service-key",
	}

	err := c.uploadImage(context.Background(), "posters/2026-08-29/abc.webp", []byte("webp-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/posters/2026-08-29/abc.webp", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/webp", gotContentType)
}

func TestUploadImageRejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		serviceKey: "service-key",
	}

	err := c.uploadImage(context.Background(), "posters/x.webp", []byte("webp-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
