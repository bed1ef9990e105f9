package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, ready bool) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "not ready", "dictionarySize": 0})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ready", "dictionarySize": 120, "fingerprint": "abc"})
	})
	r.Post("/api/v1/estimates", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["items"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Bad Request", "message": "items must not be empty"})
			return
		}
		_ = json.NewEncoder(w).Encode(Quote{
			ID:               "q-1",
			TotalVolume:      215,
			TotalVolumeExact: 215,
			Vehicle:          "Luton Van",
			Crew:             2,
			Breakdown: []BreakdownLine{
				{Name: "sofa", Quantity: 2, UnitVolume: 90, TotalVolume: 180, Kind: "dictionary"},
				{Name: "armchair", Quantity: 1, UnitVolume: 35, TotalVolume: 35, Kind: "dictionary"},
			},
			Unmatched:      []string{},
			DictionarySize: 120,
		})
	})
	r.Post("/api/v1/resolve", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(Resolution{
			Phrase:     req["phrase"],
			Normalized: "three sofa",
			Quantity:   3,
			Residual:   "sofa",
			Matched:    true,
			Match:      &Match{Key: "sofa", Volume: 90, Layer: "exact"},
		})
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(ClientConfig{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8090", c.baseURL)

	c, err = NewClient(ClientConfig{BaseURL: "http://example.test/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", c.baseURL)

	_, err = NewClient(ClientConfig{BaseURL: "example.test"})
	require.Error(t, err)
}

func TestClient_Estimate(t *testing.T) {
	srv := newTestServer(t, true)
	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	q, err := c.Estimate(context.Background(), "2x sofa\narmchair")
	require.NoError(t, err)
	assert.Equal(t, 215.0, q.TotalVolume)
	assert.Equal(t, "Luton Van", q.Vehicle)
	require.Len(t, q.Breakdown, 2)
	assert.Equal(t, "sofa", q.Breakdown[0].Name)
	assert.Nil(t, q.Price)
}

func TestClient_EstimateAPIError(t *testing.T) {
	srv := newTestServer(t, true)
	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Estimate(context.Background(), "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "items must not be empty", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "400")
}

func TestClient_Resolve(t *testing.T) {
	srv := newTestServer(t, true)
	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	r, err := c.Resolve(context.Background(), "three sofas")
	require.NoError(t, err)
	assert.Equal(t, "three sofas", r.Phrase)
	assert.Equal(t, 3, r.Quantity)
	require.NotNil(t, r.Match)
	assert.Equal(t, "sofa", r.Match.Key)
}

func TestClient_Health(t *testing.T) {
	c, err := NewClient(ClientConfig{BaseURL: newTestServer(t, true).URL})
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", h.Status)
	assert.Equal(t, 120, h.DictionarySize)

	c, err = NewClient(ClientConfig{BaseURL: newTestServer(t, false).URL})
	require.NoError(t, err)

	h, err = c.Health(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, "not ready", h.Status)
}

func TestClient_Timeout(t *testing.T) {
	srv := newTestServer(t, true)
	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	var out map[string]interface{}
	err = c.do(context.Background(), http.MethodGet, "/slow", nil, &out)
	require.Error(t, err)
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := newTestServer(t, true)
	url := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Estimate(context.Background(), "sofa")
	require.Error(t, err)
}
