package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/llm"
)

type fakeProber struct {
	statuses []llm.ModelStatus
	calls    int
}

func (f *fakeProber) Probe(ctx context.Context) []llm.ModelStatus {
	f.calls++
	return f.statuses
}

func TestModelsProbe(t *testing.T) {
	prober := &fakeProber{statuses: []llm.ModelStatus{
		{Model: "m1", OK: true},
		{Model: "m2", Status: 404, Kind: "model_not_found", Error: "gone"},
	}}
	h := NewModelsHandler(testConfig(), prober, zap.NewNop())

	resp, err := h.Handle(context.Background(), request(http.MethodPost, "{}"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["working"])

	models, ok := body["models"].([]any)
	require.True(t, ok)
	assert.Len(t, models, 2)
}

func TestModelsMissingCredential(t *testing.T) {
	prober := &fakeProber{}
	cfg := &config.Config{DefaultMaxTokens: 2000}
	h := NewModelsHandler(cfg, prober, zap.NewNop())

	resp, err := h.Handle(context.Background(), request(http.MethodPost, "{}"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["fallback"])
	assert.Zero(t, prober.calls)
}

func TestModelsMethodGate(t *testing.T) {
	h := NewModelsHandler(testConfig(), &fakeProber{}, zap.NewNop())

	resp, err := h.Handle(context.Background(), request(http.MethodPut, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
