package credential

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAbsenceIsDetectable(t *testing.T) {
	store := NewMemoryStore("")

	_, err := store.Read(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore("")
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "  AIzaSy-test-key  "))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AIzaSy-test-key", got)
}

func TestMemoryStoreSeed(t *testing.T) {
	store := NewMemoryStore("env-key")

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-key", got)
}

func TestHandleSaveRejectsEmptyKey(t *testing.T) {
	h := NewHandler(NewMemoryStore(""))

	req := httptest.NewRequest(http.MethodPost, "/api/credential", strings.NewReader(`{"apiKey":"  "}`))
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatusNeverEchoesKey(t *testing.T) {
	store := NewMemoryStore("super-secret")
	h := NewHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/credential/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret")

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["configured"])
}
