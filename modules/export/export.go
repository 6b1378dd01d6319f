package export

import (
	"errors"
	"fmt"
	"log"
	"time"

	"inspiration-poster-server/modules/poster"
)

// Scale - fixed raster upscale factor for exports
const Scale = 2

// Rasterizer - turns a poster record into PNG bytes. The default
// implementation lives in raster.go; UI embeddings substitute their own
// canvas capture.
type Rasterizer interface {
	Rasterize(record *poster.PosterRecord, scale int) ([]byte, error)
}

// Downloader - delivers a named file to the user
type Downloader interface {
	Download(filename string, data []byte, mimeType string) error
}

// Clipboard - places image bytes on the user's clipboard
type Clipboard interface {
	CopyImage(data []byte) error
}

// NativeShare - hands the poster to a platform share surface
type NativeShare interface {
	Share(title, text, filename string, data []byte) error
}

// CancelError - the user dismissed the share surface. Carries the
// platform's error name so policy can distinguish dismissal from failure.
type CancelError struct {
	Name string
}

func (e *CancelError) Error() string {
	return "share dismissed: " + e.Name
}

// SharePolicy - which error names count as an expected user cancel. The
// boundary between "cancelled" and "failed" is platform-dependent, so it is
// configuration rather than a hard-coded check.
type SharePolicy struct {
	CancelNames []string
}

// DefaultSharePolicy - browsers report share dismissal as AbortError
func DefaultSharePolicy() SharePolicy {
	return SharePolicy{CancelNames: []string{"AbortError"}}
}

// IsCancel - true when the error is a user dismissal under this policy
func (p SharePolicy) IsCancel(err error) bool {
	var cancel *CancelError
	if !errors.As(err, &cancel) {
		return false
	}
	for _, name := range p.CancelNames {
		if cancel.Name == name {
			return true
		}
	}
	return false
}

// FileName - deterministic export name derived from the run's date
func FileName(date time.Time) string {
	return fmt.Sprintf("inspiration-calendar-%s.png", date.Format("2006-01-02"))
}

// Facility - export and share paths over injected capabilities
type Facility struct {
	raster    Rasterizer
	download  Downloader
	clipboard Clipboard
	share     NativeShare
	policy    SharePolicy
}

// NewFacility - wire the export surface; clipboard and share may be nil
// when the embedding offers no such capability
func NewFacility(raster Rasterizer, download Downloader, clipboard Clipboard, share NativeShare, policy SharePolicy) *Facility {
	return &Facility{
		raster:    raster,
		download:  download,
		clipboard: clipboard,
		share:     share,
		policy:    policy,
	}
}

// ExportPNG - rasterize at the fixed 2x scale and trigger a download
func (f *Facility) ExportPNG(record *poster.PosterRecord) (string, error) {
	data, err := f.raster.Rasterize(record, Scale)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize poster: %w", err)
	}

	name := FileName(record.Date)
	if err := f.download.Download(name, data, "image/png"); err != nil {
		return "", fmt.Errorf("failed to download poster: %w", err)
	}

	log.Printf("📥 [Export] Poster downloaded as %s (%d bytes)", name, len(data))
	return name, nil
}

// ExportWebP - rasterize and convert for archive upload
func (f *Facility) ExportWebP(record *poster.PosterRecord) ([]byte, error) {
	data, err := f.raster.Rasterize(record, Scale)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize poster: %w", err)
	}
	return ConvertPNGToWebP(data, 90.0)
}

// Share - native share → clipboard → download fallback chain. A user
// dismissal of the share surface is expected and swallowed; real failures
// fall through to the next stage.
func (f *Facility) Share(record *poster.PosterRecord) error {
	data, err := f.raster.Rasterize(record, Scale)
	if err != nil {
		return fmt.Errorf("failed to rasterize poster: %w", err)
	}

	name := FileName(record.Date)
	text := fmt.Sprintf("Here is my daily inspiration for %s", record.Date.Format("2006-01-02"))

	if f.share != nil {
		err := f.share.Share("灵感日历", text, name, data)
		if err == nil {
			return nil
		}
		if f.policy.IsCancel(err) {
			log.Printf("ℹ️  [Export] Share dismissed by user")
			return nil
		}
		log.Printf("⚠️  [Export] Native share failed, trying clipboard: %v", err)
	}

	if f.clipboard != nil {
		if err := f.clipboard.CopyImage(data); err == nil {
			log.Println("📋 [Export] Poster copied to clipboard")
			return nil
		} else {
			log.Printf("⚠️  [Export] Clipboard write failed, falling back to download: %v", err)
		}
	}

	if err := f.download.Download(name, data, "image/png"); err != nil {
		return fmt.Errorf("failed to share poster: %w", err)
	}
	log.Printf("📥 [Export] Shared via download fallback: %s", name)
	return nil
}
