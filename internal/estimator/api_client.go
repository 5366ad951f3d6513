// Package estimator provides the effort and duration estimators behind the
// placement engine: a generative-language API client and a deterministic
// rule-based fallback.
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/taskflow-app/taskflow/internal/planning/application/services"
)

// APIClientConfig configures the generative-language estimator.
type APIClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// APIClient estimates effort by asking a generative-language model to judge
// the task text against the weekly context. The model is instructed to
// answer in JSON; calls run behind a circuit breaker so a flapping backend
// fails fast instead of stalling every placement.
type APIClient struct {
	config  APIClientConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[services.Estimate]
	logger  *slog.Logger
}

// NewAPIClient creates a new APIClient.
func NewAPIClient(config APIClientConfig, logger *slog.Logger) *APIClient {
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker[services.Estimate](gobreaker.Settings{
		Name:        "estimator-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("estimator circuit state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &APIClient{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: breaker,
		logger:  logger,
	}
}

// Estimate implements services.Estimator.
func (c *APIClient) Estimate(ctx context.Context, text string, week services.WeekContext) (services.Estimate, error) {
	estimate, err := c.breaker.Execute(func() (services.Estimate, error) {
		return c.call(ctx, text, week)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationAPIError, "estimator backend unavailable", err)
	}
	return estimate, err
}

func (c *APIClient) call(ctx context.Context, text string, week services.WeekContext) (services.Estimate, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{{Text: buildPrompt(text, week)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1,
		},
	})
	if err != nil {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationUnknown, "failed to encode request", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.config.BaseURL, "/"), c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationUnknown, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationAPIError, "estimator request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationAPIError, "failed to read estimator response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("estimator returned non-success status",
			"status", resp.StatusCode,
		)
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationAPIError,
			fmt.Sprintf("estimator returned status %d", resp.StatusCode), nil)
	}

	return decodeEstimate(raw)
}

func decodeEstimate(raw []byte) (services.Estimate, error) {
	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationInvalidResponse, "failed to decode estimator envelope", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationInvalidResponse, "estimator returned no candidates", nil)
	}

	var payload estimatePayload
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &payload); err != nil {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationInvalidResponse, "estimator answer is not valid JSON", err)
	}
	if payload.Effort < 1 || payload.DurationHours <= 0 {
		return services.Estimate{}, services.NewEstimationError(
			services.EstimationInvalidResponse, "estimator answer is missing effort or duration", nil)
	}

	return services.Estimate{
		Text:            payload.Text,
		Effort:          payload.Effort,
		DurationHours:   payload.DurationHours,
		RecommendedDay:  payload.RecommendedDay,
		RecommendedTime: payload.RecommendedTime,
		Reasoning:       payload.Reasoning,
	}, nil
}

// buildPrompt serializes the weekly context and the estimation contract into
// a single instruction block.
func buildPrompt(text string, week services.WeekContext) string {
	var b strings.Builder

	b.WriteString("You estimate the effort and duration of a new item on a weekly schedule.\n")
	b.WriteString("Effort is an integer from 1 (trivial) to 5 (exhausting) for regular tasks.\n")
	b.WriteString("Fixed appointments and events use roughly 2 effort points per hour instead.\n")
	b.WriteString("If the text names a specific day, return it as recommended_day (YYYY-MM-DD).\n")
	b.WriteString("If the text names a specific clock time, return it as recommended_time (HH:MM, 24h).\n")
	b.WriteString("Answer with a single JSON object with the keys: ")
	b.WriteString(`text, effort, duration_hours, recommended_day, recommended_time, reasoning.` + "\n\n")

	fmt.Fprintf(&b, "Today is %s. The daily effort cap is %d.\n", week.Today, week.BurnoutThreshold)

	b.WriteString("Weekly availability (Monday first):\n")
	dayNames := [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, w := range week.Windows {
		if w.IsOpen() {
			fmt.Fprintf(&b, "- %s: %s-%s\n", dayNames[i], w.Start, w.End)
		} else {
			fmt.Fprintf(&b, "- %s: closed\n", dayNames[i])
		}
	}

	b.WriteString("Current schedule:\n")
	for _, day := range week.Days {
		fmt.Fprintf(&b, "- %s (effort %d):\n", day.Date, day.Effort)
		for _, task := range day.Tasks {
			fmt.Fprintf(&b, "  - %q at %s for %.1fh\n", task.Text, task.StartTime, task.DurationHours)
		}
	}

	fmt.Fprintf(&b, "\nNew item: %q\n", text)

	return b.String()
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type estimatePayload struct {
	Text            string  `json:"text"`
	Effort          int     `json:"effort"`
	DurationHours   float64 `json:"duration_hours"`
	RecommendedDay  string  `json:"recommended_day"`
	RecommendedTime string  `json:"recommended_time"`
	Reasoning       string  `json:"reasoning"`
}
