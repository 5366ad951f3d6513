package estimator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/planning/application/services"
)

func answerWith(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": body}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestAPIClient_Estimate(t *testing.T) {
	ctx := context.Background()
	week := services.WeekContext{Today: "2026-08-31", BurnoutThreshold: 15}

	t.Run("decodes a well-formed answer", func(t *testing.T) {
		srv := httptest.NewServer(answerWith(t, `{
			"text": "write report",
			"effort": 3,
			"duration_hours": 1.5,
			"recommended_day": "2026-09-02",
			"recommended_time": "10:00",
			"reasoning": "deep work"
		}`))
		defer srv.Close()

		client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
		est, err := client.Estimate(ctx, "write report", week)
		require.NoError(t, err)

		assert.Equal(t, "write report", est.Text)
		assert.Equal(t, 3, est.Effort)
		assert.Equal(t, 1.5, est.DurationHours)
		assert.Equal(t, "2026-09-02", est.RecommendedDay)
		assert.Equal(t, "10:00", est.RecommendedTime)
	})

	t.Run("non-success status is an api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
		_, err := client.Estimate(ctx, "x", week)

		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationAPIError, estErr.Kind)
	})

	t.Run("unreachable backend is an api error", func(t *testing.T) {
		client := NewAPIClient(APIClientConfig{BaseURL: "http://127.0.0.1:1", APIKey: "test"}, nil)
		_, err := client.Estimate(ctx, "x", week)

		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationAPIError, estErr.Kind)
	})

	t.Run("non-JSON answer is an invalid response", func(t *testing.T) {
		srv := httptest.NewServer(answerWith(t, `I would say about three effort points.`))
		defer srv.Close()

		client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
		_, err := client.Estimate(ctx, "x", week)

		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationInvalidResponse, estErr.Kind)
	})

	t.Run("answer missing effort is an invalid response", func(t *testing.T) {
		srv := httptest.NewServer(answerWith(t, `{"text": "x", "duration_hours": 1.0}`))
		defer srv.Close()

		client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
		_, err := client.Estimate(ctx, "x", week)

		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationInvalidResponse, estErr.Kind)
	})

	t.Run("empty candidate list is an invalid response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates": []}`))
		}))
		defer srv.Close()

		client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
		_, err := client.Estimate(ctx, "x", week)

		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationInvalidResponse, estErr.Kind)
	})

	t.Run("repeated failures trip the circuit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
		for i := 0; i < 3; i++ {
			_, err := client.Estimate(ctx, "x", week)
			require.Error(t, err)
		}

		// The breaker is now open; the failure is still classified.
		_, err := client.Estimate(ctx, "x", week)
		var estErr *services.EstimationError
		require.ErrorAs(t, err, &estErr)
		assert.Equal(t, services.EstimationAPIError, estErr.Kind)
	})
}
