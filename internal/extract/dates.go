package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// ParseDate parses a free-text publication date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, types.ErrNoDate
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseWindow builds the inclusive crawl window from the job's free-text
// bounds. A blank earliest bound defaults to now.
func ParseWindow(oldest, earliest string) (types.DateWindow, error) {
	w := types.DateWindow{}

	t, err := ParseDate(oldest)
	if err != nil {
		return w, fmt.Errorf("oldest date: %w", err)
	}
	w.Oldest = t

	if strings.TrimSpace(earliest) == "" {
		w.Earliest = time.Now()
	} else {
		t, err := ParseDate(earliest)
		if err != nil {
			return w, fmt.Errorf("earliest date: %w", err)
		}
		w.Earliest = t
	}

	if w.Earliest.Before(w.Oldest) {
		return w, fmt.Errorf("earliest date %s precedes oldest date %s",
			w.Earliest.Format("2006-01-02"), w.Oldest.Format("2006-01-02"))
	}
	return w, nil
}

// RecordDate extracts the authoritative publication date of a detail record,
// or the reason it cannot be compared against the window.
func RecordDate(rec *types.DetailRecord) (time.Time, types.UnusableReason) {
	if rec.Date == nil || strings.TrimSpace(*rec.Date) == "" {
		return time.Time{}, types.NoDate
	}
	t, err := ParseDate(*rec.Date)
	if err != nil {
		return time.Time{}, types.BadDate
	}
	return t, types.Usable
}
