package credential

import (
	"context"
	"errors"
)

// SlotKey - fixed name of the durable credential slot, shared with the web
// client's local storage convention.
const SlotKey = "gemini_api_key"

// ErrNotFound - absence of a stored credential. A valid, detectable state:
// the workflow turns it into a missing-credential failure before any network
// call is made.
var ErrNotFound = errors.New("credential not found")

// Reader - read-only view of the credential slot, all the workflow needs
type Reader interface {
	Read(ctx context.Context) (string, error)
}

// Store - full credential slot. Writes take effect on the next generation
// run, never on one in flight.
type Store interface {
	Reader
	Write(ctx context.Context, key string) error
}
