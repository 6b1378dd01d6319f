package poster

import (
	"time"

	"inspiration-poster-server/modules/theme"
)

// DailyContent - structured result of one text generation. Every field except
// Poem must be non-empty; the content provider contract guarantees this or the
// run fails before an image is requested.
type DailyContent struct {
	Quote      string `json:"quote"`
	Author     string `json:"author"`
	LuckyItem  string `json:"luckyItem"`
	LuckyColor string `json:"luckyColor"`
	Poem       string `json:"poem,omitempty"`
	LunarDate  string `json:"lunarDate"` // full lunar string, e.g. 乙巳年 丁亥月 十月初八
	SolarTerm  string `json:"solarTerm"` // e.g. 小雪
	Yi         string `json:"yi"`        // suitable activities
	Ji         string `json:"ji"`        // activities to avoid
}

// PosterRecord - immutable output of one successful generation run. A new run
// produces a new record; an old record is never mutated.
type PosterRecord struct {
	DailyContent
	Date     time.Time   `json:"date"`
	Theme    theme.Theme `json:"theme"`
	ImageURL string      `json:"imageUrl,omitempty"` // data URI of the generated background
}

// Status - generation run state. Exactly one run is active at a time; status
// is process-wide for the lifetime of the server.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusGeneratingText  Status = "generating_text"
	StatusGeneratingImage Status = "generating_image"
	StatusFinalizing      Status = "finalizing"
	StatusComplete        Status = "complete"
	StatusError           Status = "error"
)

// Terminal - a new run may only start from a terminal status
func (s Status) Terminal() bool {
	return s == StatusIdle || s == StatusComplete || s == StatusError
}

// Error codes surfaced to the UI
const (
	ErrCodeMissingCredential = "MISSING_CREDENTIAL"
	ErrCodeAuthOrQuota       = "AUTH_OR_QUOTA"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeBusy              = "GENERATION_IN_FLIGHT"
	ErrCodeCancelled         = "CANCELLED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)
