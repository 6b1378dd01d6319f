package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"inspiration-poster-server/modules/common/config"
	"inspiration-poster-server/modules/poster"
)

const postersTable = "daily_posters"

// ArchivedPoster - one row in the daily_posters table
type ArchivedPoster struct {
	ArchiveID  string `json:"archive_id"`
	PosterDate string `json:"poster_date"`
	Theme      string `json:"theme"`
	Quote      string `json:"quote"`
	Author     string `json:"author"`
	LuckyItem  string `json:"lucky_item"`
	LuckyColor string `json:"lucky_color"`
	Poem       string `json:"poem,omitempty"`
	LunarDate  string `json:"lunar_date"`
	SolarTerm  string `json:"solar_term"`
	Yi         string `json:"yi"`
	Ji         string `json:"ji"`
	ImagePath  string `json:"image_path"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Client - poster archive backed by Supabase Storage and Postgres
type Client struct {
	supabase       *supabase.Client
	httpClient     *http.Client
	baseURL        string
	serviceKey     string
	storageBaseURL string
}

// NewClient - create the archive client; requires ArchiveEnabled() config
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.ArchiveEnabled() {
		return nil, fmt.Errorf("archive not configured: SUPABASE_URL and SUPABASE_SERVICE_KEY required")
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{
		supabase:       supabaseClient,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		baseURL:        cfg.SupabaseURL,
		serviceKey:     cfg.SupabaseServiceKey,
		storageBaseURL: cfg.SupabaseStorageBaseURL,
	}, nil
}

// PublicImageURL - browser-reachable URL for an archived image, empty when no
// public storage base is configured
func (c *Client) PublicImageURL(imagePath string) string {
	if c.storageBaseURL == "" {
		return ""
	}
	return c.storageBaseURL + imagePath
}

// StoragePath - deterministic bucket path for an archived poster image
func StoragePath(date time.Time, archiveID string) string {
	return fmt.Sprintf("posters/%s/%s.webp", date.Format("2006-01-02"), archiveID)
}

// RowFromRecord - map a completed poster onto its archive row
func RowFromRecord(record *poster.PosterRecord, archiveID, imagePath string) ArchivedPoster {
	return ArchivedPoster{
		ArchiveID:  archiveID,
		PosterDate: record.Date.Format("2006-01-02"),
		Theme:      string(record.Theme),
		Quote:      record.Quote,
		Author:     record.Author,
		LuckyItem:  record.LuckyItem,
		LuckyColor: record.LuckyColor,
		Poem:       record.Poem,
		LunarDate:  record.LunarDate,
		SolarTerm:  record.SolarTerm,
		Yi:         record.Yi,
		Ji:         record.Ji,
		ImagePath:  imagePath,
	}
}

// ArchivePoster - upload the exported WebP and insert the archive row.
// Returns the storage path of the uploaded image.
func (c *Client) ArchivePoster(ctx context.Context, record *poster.PosterRecord, webpData []byte) (string, error) {
	if record == nil {
		return "", fmt.Errorf("nil poster record")
	}
	if len(webpData) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	archiveID := uuid.New().String()
	imagePath := StoragePath(record.Date, archiveID)

	if err := c.uploadImage(ctx, imagePath, webpData); err != nil {
		return "", err
	}

	row := RowFromRecord(record, archiveID, imagePath)
	_, _, err := c.supabase.From(postersTable).
		Insert(row, false, "", "", "").
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to insert archive row: %w", err)
	}

	log.Printf("✅ [Archive] Poster archived: %s (%s, %d bytes)", imagePath, record.Theme, len(webpData))
	return imagePath, nil
}

// FetchByDate - all archived posters for a calendar date
func (c *Client) FetchByDate(ctx context.Context, date time.Time) ([]ArchivedPoster, error) {
	data, _, err := c.supabase.From(postersTable).
		Select("*", "exact", false).
		Eq("poster_date", date.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	var rows []ArchivedPoster
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse archive rows: %w", err)
	}
	return rows, nil
}

// uploadImage - POST the WebP to the Supabase Storage object API
func (c *Client) uploadImage(ctx context.Context, imagePath string, webpData []byte) error {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, imagePath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "image/webp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("📤 [Archive] WebP uploaded: %s (%d bytes)", imagePath, len(webpData))
	return nil
}
