package poster

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Sentinel failures of the generation workflow
var (
	// ErrMissingCredential - no credential in the slot; surfaced before any
	// provider call is made.
	ErrMissingCredential = errors.New("no API key configured")

	// ErrGenerationInFlight - a run was started while another is active.
	// Overlapping runs are a caller error, enforced here rather than by the UI.
	ErrGenerationInFlight = errors.New("a generation run is already in flight")

	// ErrRunCancelled - the run was cancelled between stages; no record is
	// produced and the in-flight provider response is discarded.
	ErrRunCancelled = errors.New("generation run cancelled")
)

// MalformedContentError - the content provider returned structurally
// incomplete data. Messaged like a generic provider failure but logged
// distinctly for diagnosis.
type MalformedContentError struct {
	Field string
}

func (e *MalformedContentError) Error() string {
	return fmt.Sprintf("content provider returned incomplete data: missing %s", e.Field)
}

// Kind - coarse classification of a workflow failure
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindAuthOrQuota       Kind = "auth_or_quota"
	KindMalformed         Kind = "malformed_content"
	KindGeneric           Kind = "generic"
)

// Classified - what the UI needs to know about a failure
type Classified struct {
	Kind                   Kind
	Code                   string
	UserMessage            string
	ShouldPromptCredential bool
}

// Classifier - maps raw provider failures onto the error taxonomy. The
// auth/quota detection is a string heuristic against the provider's error
// text; provider error formats are not stable, so the trigger markers are
// configuration rather than hard-coded literals.
type Classifier struct {
	AuthMarkers []string
}

// defaultAuthMarkers - signatures of credential and quota rejections seen
// from the Gemini API
var defaultAuthMarkers = []string{
	"400",
	"401",
	"403",
	"API key",
	"invalid credential",
	"quota",
	"PERMISSION_DENIED",
}

// NewClassifier - classifier with the default marker set
func NewClassifier() *Classifier {
	markers := make([]string, len(defaultAuthMarkers))
	copy(markers, defaultAuthMarkers)
	return &Classifier{AuthMarkers: markers}
}

// Classify - classify a workflow failure for user-facing handling
func (c *Classifier) Classify(err error) Classified {
	if errors.Is(err, ErrMissingCredential) {
		return Classified{
			Kind:                   KindMissingCredential,
			Code:                   ErrCodeMissingCredential,
			UserMessage:            "No API key configured. Please enter your Gemini API key.",
			ShouldPromptCredential: true,
		}
	}

	if errors.Is(err, ErrGenerationInFlight) {
		return Classified{
			Kind:        KindGeneric,
			Code:        ErrCodeBusy,
			UserMessage: "A poster is already being generated. Please wait for it to finish.",
		}
	}

	if errors.Is(err, ErrRunCancelled) {
		return Classified{
			Kind:        KindGeneric,
			Code:        ErrCodeCancelled,
			UserMessage: "Generation was cancelled.",
		}
	}

	var malformed *MalformedContentError
	if errors.As(err, &malformed) {
		// distinct log line, generic user message
		log.Printf("⚠️  [Classify] Malformed provider content: %v", malformed)
		return Classified{
			Kind:        KindMalformed,
			Code:        ErrCodeInternalError,
			UserMessage: "Failed to generate content. Please try again.",
		}
	}

	message := err.Error()
	lowered := strings.ToLower(message)
	for _, marker := range c.AuthMarkers {
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return Classified{
				Kind:                   KindAuthOrQuota,
				Code:                   ErrCodeAuthOrQuota,
				UserMessage:            "Invalid API Key or Quota exceeded. Please check your key.",
				ShouldPromptCredential: true,
			}
		}
	}

	return Classified{
		Kind:        KindGeneric,
		Code:        ErrCodeInternalError,
		UserMessage: message + " Please try again.",
	}
}
