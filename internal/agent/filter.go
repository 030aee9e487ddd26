package agent

import (
	"strings"
	"time"

	"github.com/canvasbot/canvas-agent-go/internal/intent"
)

const recentWindow = 7 * 24 * time.Hour

// Filterable is the view of a Canvas item needed for time and search
// filtering. PrimaryTime is the due/posted date, BestTime falls back to the
// creation date, SearchText exposes title and body.
type Filterable interface {
	PrimaryTime() (time.Time, bool)
	BestTime() (time.Time, bool)
	SearchText() (string, string)
}

// FilterByTimeFrame keeps items inside the requested window relative to now.
// Items missing the relevant date are excluded from every window except the
// passthrough default.
func FilterByTimeFrame[T Filterable](items []T, frame intent.TimeFrame, now time.Time) []T {
	switch frame {
	case intent.TimeFrameUpcoming:
		return keep(items, func(item T) bool {
			ts, ok := item.PrimaryTime()
			return ok && ts.After(now)
		})
	case intent.TimeFramePast:
		return keep(items, func(item T) bool {
			ts, ok := item.PrimaryTime()
			return ok && ts.Before(now)
		})
	case intent.TimeFrameRecent:
		cutoff := now.Add(-recentWindow)
		return keep(items, func(item T) bool {
			ts, ok := item.BestTime()
			return ok && ts.After(cutoff)
		})
	default:
		return items
	}
}

// FilterBySearchTerm keeps items whose title or body contains term,
// case-insensitively. An empty term is a passthrough.
func FilterBySearchTerm[T Filterable](items []T, term string) []T {
	if term == "" {
		return items
	}
	lower := strings.ToLower(term)
	return keep(items, func(item T) bool {
		title, body := item.SearchText()
		return strings.Contains(strings.ToLower(title), lower) ||
			strings.Contains(strings.ToLower(body), lower)
	})
}

func keep[T any](items []T, pred func(T) bool) []T {
	var out []T
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
