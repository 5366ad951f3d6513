package estimator

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/taskflow-app/taskflow/internal/planning/application/services"
)

// Heuristic is a deterministic estimator used when no generative backend is
// configured. It classifies the text as an event or a task, derives effort
// and duration from keywords, and picks up explicit dates and clock times
// written into the text.
type Heuristic struct{}

// NewHeuristic creates a new Heuristic.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var eventKeywords = []string{
	"meeting", "appointment", "call", "interview", "lunch", "dinner",
	"doctor", "dentist", "flight", "conference", "workshop", "standup",
}

var heavyKeywords = []string{
	"write", "prepare", "report", "study", "review", "refactor",
	"design", "research", "migrate", "presentation",
}

var (
	isoDateRe  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	clockRe    = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	durationRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)\b`)
)

var weekdayNames = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Estimate implements services.Estimator. It never fails.
func (h *Heuristic) Estimate(_ context.Context, text string, week services.WeekContext) (services.Estimate, error) {
	lower := strings.ToLower(text)

	duration, hasDuration := parseDuration(lower)

	isEvent := false
	for _, kw := range eventKeywords {
		if strings.Contains(lower, kw) {
			isEvent = true
			break
		}
	}

	var effort int
	var reasoning string
	switch {
	case isEvent:
		if !hasDuration {
			duration = 1.0
		}
		effort = int(math.Round(duration * 2))
		if effort < 2 {
			effort = 2
		}
		reasoning = fmt.Sprintf("looks like a fixed event of %.1fh, weighted at two effort points per hour", duration)
	default:
		if !hasDuration {
			duration = 0.5
		}
		effort = 1
		for _, kw := range heavyKeywords {
			if strings.Contains(lower, kw) {
				effort += 2
				break
			}
		}
		if len(lower) > 60 {
			effort++
		}
		if effort > 5 {
			effort = 5
		}
		reasoning = fmt.Sprintf("task-like text, effort %d of 5", effort)
	}

	return services.Estimate{
		Text:            strings.TrimSpace(text),
		Effort:          effort,
		DurationHours:   duration,
		RecommendedDay:  parseDay(lower, week.Today),
		RecommendedTime: parseClock(lower),
		Reasoning:       reasoning,
	}, nil
}

// parseDuration extracts an explicit duration such as "2h" or "45 min".
func parseDuration(text string) (float64, bool) {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	if strings.HasPrefix(m[2], "m") {
		value /= 60
	}
	return value, true
}

// parseDay extracts an explicit day: an ISO date verbatim, or a weekday name
// resolved to the next matching date from today.
func parseDay(text, today string) string {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	anchor, err := time.Parse("2006-01-02", today)
	if err != nil {
		return ""
	}
	anchorIdx := (int(anchor.Weekday()) + 6) % 7

	for idx, name := range weekdayNames {
		if !strings.Contains(text, name) {
			continue
		}
		ahead := (idx - anchorIdx + 7) % 7
		return anchor.AddDate(0, 0, ahead).Format("2006-01-02")
	}
	return ""
}

// parseClock extracts an explicit "HH:MM" clock time.
func parseClock(text string) string {
	m := clockRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
