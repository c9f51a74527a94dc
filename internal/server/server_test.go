package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psm0419/gmaking-growth/internal/evolution"
	"github.com/psm0419/gmaking-growth/internal/growth"
	"github.com/psm0419/gmaking-growth/internal/provider"
	"github.com/psm0419/gmaking-growth/internal/types"
)

// stubEvolver returns a canned result or error.
type stubEvolver struct {
	result *types.EvolutionResult
	err    error

	calls   atomic.Int32
	mu      sync.Mutex
	gate    chan struct{}
	lastKey string
}

func (e *stubEvolver) EvolveCharacter(_ context.Context, userID string, characterID int64, modificationKey string) (*types.EvolutionResult, error) {
	e.calls.Add(1)
	e.mu.Lock()
	e.lastKey = modificationKey
	e.mu.Unlock()
	if e.gate != nil {
		<-e.gate
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func newTestServer(evolver Evolver) *Server {
	return New(Config{Port: 0, AllowedOrigins: []string{"http://localhost:3000"}}, nil, evolver)
}

func postGrow(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/grow-character", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func successResult() *types.EvolutionResult {
	return &types.EvolutionResult{
		UserID:           "u1",
		CharacterID:      7,
		NewEvolutionStep: 3,
		TotalStageClears: 25,
		TotalStats:       types.Stats{Attack: 15, Defense: 12, HP: 110, Speed: 8, CriticalRate: 7},
		Delta:            types.StatDelta{Attack: 2, Defense: 2, HP: 4, Speed: 2, CriticalRate: 1},
		Image:            []byte{0x89, 0x50, 0x4E, 0x47},
		ImageFormat:      "png",
		NewImageRef:      "/images/character/u1/new.png",
	}
}

func TestGrowCharacter_Success(t *testing.T) {
	evolver := &stubEvolver{result: successResult()}
	srv := newTestServer(evolver)

	rec := postGrow(t, srv.Handler(), `{"user_id":"u1","character_id":7}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.EvolutionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.NewEvolutionStep)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, result.Image)

	// Omitted modification key falls back to the default.
	assert.Equal(t, types.DefaultModification, evolver.lastKey)
}

func TestGrowCharacter_ExplicitModification(t *testing.T) {
	evolver := &stubEvolver{result: successResult()}
	srv := newTestServer(evolver)

	rec := postGrow(t, srv.Handler(), `{"user_id":"u1","character_id":7,"target_modification":"battle_hardened"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "battle_hardened", evolver.lastKey)
}

func TestGrowCharacter_InvalidBody(t *testing.T) {
	srv := newTestServer(&stubEvolver{})

	rec := postGrow(t, srv.Handler(), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestGrowCharacter_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user id", `{"character_id":7}`},
		{"missing character id", `{"user_id":"u1"}`},
		{"non-positive character id", `{"user_id":"u1","character_id":-3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evolver := &stubEvolver{result: successResult()}
			srv := newTestServer(evolver)

			rec := postGrow(t, srv.Handler(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, int32(0), evolver.calls.Load())
		})
	}
}

func TestGrowCharacter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"character not found", &evolution.ErrCharacterNotFound{UserID: "u1", CharacterID: 7}, http.StatusNotFound, "CHARACTER_NOT_FOUND"},
		{"job not found", &provider.JobNotFoundError{JobID: "j1"}, http.StatusNotFound, "JOB_NOT_FOUND"},
		{"already max stage", &growth.ErrAlreadyMaxStage{Step: 5}, http.StatusForbidden, "ALREADY_MAX_STAGE"},
		{"insufficient clears", &growth.ErrInsufficientClears{Required: 10, Current: 5, NextStep: 2}, http.StatusForbidden, "INSUFFICIENT_CLEARS"},
		{"unknown modification", &evolution.ErrUnknownModification{Key: "x"}, http.StatusBadRequest, "UNKNOWN_MODIFICATION"},
		{"timeout", &provider.TimeoutError{JobID: "j1"}, http.StatusGatewayTimeout, "GENERATION_TIMEOUT"},
		{"provider rejected", &provider.RejectedError{StatusCode: 503, Message: "overloaded"}, http.StatusBadGateway, "PROVIDER_REJECTED"},
		{"generation failed", &provider.GenerationFailedError{JobID: "j1"}, http.StatusBadGateway, "GENERATION_FAILED"},
		{"source image", &evolution.SourceImageError{Ref: "ref"}, http.StatusBadGateway, "SOURCE_IMAGE_UNAVAILABLE"},
		{"persistence", &evolution.PersistenceError{Message: "insert failed"}, http.StatusInternalServerError, "PERSISTENCE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubEvolver{err: tt.err})

			rec := postGrow(t, srv.Handler(), `{"user_id":"u1","character_id":7}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestGrowCharacter_UnknownErrorIsOpaque(t *testing.T) {
	srv := newTestServer(&stubEvolver{err: assert.AnError})

	rec := postGrow(t, srv.Handler(), `{"user_id":"u1","character_id":7}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestGrowCharacter_ConcurrentRequestsCollapsed(t *testing.T) {
	gate := make(chan struct{})
	evolver := &stubEvolver{result: successResult(), gate: gate}
	srv := newTestServer(evolver)
	handler := srv.Handler()

	var wg sync.WaitGroup
	codes := make([]int, 2)
	send := func(i int) {
		defer wg.Done()
		req := httptest.NewRequest("POST", "/api/v1/grow-character",
			bytes.NewReader([]byte(`{"user_id":"u1","character_id":7}`)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	wg.Add(2)
	go send(0)
	// The first request must be in flight before the duplicate arrives.
	for evolver.calls.Load() == 0 {
		runtime.Gosched()
	}
	go send(1)
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
	assert.Equal(t, int32(1), evolver.calls.Load(), "duplicate in-flight request must share one evolution")
}

func TestRoot(t *testing.T) {
	srv := newTestServer(&stubEvolver{})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestCORS_AllowedOrigin(t *testing.T) {
	srv := newTestServer(&stubEvolver{})

	req := httptest.NewRequest("OPTIONS", "/api/v1/grow-character", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	srv := newTestServer(&stubEvolver{})

	req := httptest.NewRequest("OPTIONS", "/api/v1/grow-character", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
