package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// DateRange limits snapshots by save time.
type DateRange string

const (
	RangeAll        DateRange = "all"
	RangeToday      DateRange = "today"
	RangeLast7Days  DateRange = "7d"
	RangeLast30Days DateRange = "30d"
)

// ParseDateRange converts a flag value to a DateRange.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "", RangeAll:
		return RangeAll, nil
	case RangeToday, RangeLast7Days, RangeLast30Days:
		return r, nil
	default:
		return RangeAll, fmt.Errorf("unknown date range: %q (expected all, today, 7d or 30d)", s)
	}
}

// Filter selects snapshots by text and save time.
type Filter struct {
	Text  string    // Case-insensitive match on name or any window title
	Range DateRange // Empty means all
	Now   func() time.Time
}

// Match reports whether s passes the filter.
func (f Filter) Match(s domain.Snapshot) bool {
	if !f.matchText(s) {
		return false
	}
	if f.Range == "" || f.Range == RangeAll {
		return true
	}

	saved, err := s.SavedAt()
	if err != nil {
		return false
	}
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}

	switch f.Range {
	case RangeToday:
		y1, m1, d1 := saved.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case RangeLast7Days:
		return now.Sub(saved) < 8*24*time.Hour
	case RangeLast30Days:
		return now.Sub(saved) < 31*24*time.Hour
	default:
		return true
	}
}

func (f Filter) matchText(s domain.Snapshot) bool {
	text := strings.ToLower(strings.TrimSpace(f.Text))
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), text) {
		return true
	}
	for _, w := range s.Windows {
		if strings.Contains(strings.ToLower(w.Title), text) {
			return true
		}
	}
	return false
}

// Apply returns the matching snapshots, newest save time first. Snapshots
// without a parseable time sort last.
func (f Filter) Apply(all []domain.Snapshot) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(all))
	for _, s := range all {
		if f.Match(s) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, erri := out[i].SavedAt()
		tj, errj := out[j].SavedAt()
		switch {
		case erri != nil && errj != nil:
			return out[i].Name > out[j].Name
		case erri != nil:
			return false
		case errj != nil:
			return true
		case !ti.Equal(tj):
			return ti.After(tj)
		default:
			return out[i].Name > out[j].Name
		}
	})
	return out
}
