package core

import (
	"fmt"
	"sort"
	"time"
)

// RangeKind names a reporting period. Named buckets use calendar-day
// boundaries (midnight to midnight) in the reference timezone.
type RangeKind string

const (
	RangeToday     RangeKind = "today"
	RangeYesterday RangeKind = "yesterday"
	RangeLast3Days RangeKind = "3days"
	RangeLastWeek  RangeKind = "1week"
	RangeLastMonth RangeKind = "1month"
	RangeLastYear  RangeKind = "1year"
	RangeCustom    RangeKind = "custom"
	RangeAll       RangeKind = "all"
)

// DateRange is a resolved reporting period. Start and End are set only for
// RangeCustom; named buckets derive their bounds from the evaluation time.
type DateRange struct {
	Kind  RangeKind
	Start time.Time // custom only, date-level precision
	End   time.Time // custom only, inclusive end date
}

// ParseRange builds a DateRange from query-style inputs. kind defaults to
// "all" when empty. A custom range requires BOTH start and end (layout
// 2006-01-02): a half-open custom range used to silently match everything,
// which hid typos, so it is rejected now.
func ParseRange(kind, start, end string, loc *time.Location) (DateRange, error) {
	if kind == "" {
		kind = string(RangeAll)
	}
	k := RangeKind(kind)
	switch k {
	case RangeToday, RangeYesterday, RangeLast3Days, RangeLastWeek, RangeLastMonth, RangeLastYear, RangeAll:
		return DateRange{Kind: k}, nil
	case RangeCustom:
		if start == "" || end == "" {
			return DateRange{}, fmt.Errorf("custom range needs both start and end: %w", ErrInvalidRange)
		}
		s, err := time.ParseInLocation("2006-01-02", start, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("bad start date %q: %w", start, ErrInvalidRange)
		}
		e, err := time.ParseInLocation("2006-01-02", end, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("bad end date %q: %w", end, ErrInvalidRange)
		}
		if e.Before(s) {
			return DateRange{}, fmt.Errorf("end before start: %w", ErrInvalidRange)
		}
		return DateRange{Kind: RangeCustom, Start: s, End: e}, nil
	default:
		return DateRange{}, fmt.Errorf("unknown range %q: %w", kind, ErrInvalidRange)
	}
}

// midnight truncates t to the start of its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Bounds resolves the range to a half-open interval [from, to) relative to
// now. ok is false for RangeAll, which is unbounded.
func (r DateRange) Bounds(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	today := midnight(now, loc)
	tomorrow := today.AddDate(0, 0, 1)

	switch r.Kind {
	case RangeToday:
		return today, tomorrow, true
	case RangeYesterday:
		return today.AddDate(0, 0, -1), today, true
	case RangeLast3Days:
		return today.AddDate(0, 0, -3), tomorrow, true
	case RangeLastWeek:
		return today.AddDate(0, 0, -7), tomorrow, true
	case RangeLastMonth:
		return today.AddDate(0, -1, 0), tomorrow, true
	case RangeLastYear:
		return today.AddDate(-1, 0, 0), tomorrow, true
	case RangeCustom:
		// Inclusive end: extend to midnight after the end date.
		return midnight(r.Start, loc), midnight(r.End, loc).AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether t falls inside the range evaluated at now.
func (r DateRange) Contains(t, now time.Time, loc *time.Location) bool {
	from, to, bounded := r.Bounds(now, loc)
	if !bounded {
		return true
	}
	return !t.Before(from) && t.Before(to)
}

// FilterByRange returns the subset of txns whose Date falls inside the range.
// Order is preserved; the result is a new slice.
func FilterByRange(txns []StockTransaction, r DateRange, now time.Time, loc *time.Location) []StockTransaction {
	out := make([]StockTransaction, 0, len(txns))
	for _, t := range txns {
		if r.Contains(t.Date, now, loc) {
			out = append(out, t)
		}
	}
	return out
}

// SortForDisplay returns a copy of txns sorted by date descending. The
// unsorted input is what aggregation operates on; this ordering is for
// activity lists only.
func SortForDisplay(txns []StockTransaction) []StockTransaction {
	out := make([]StockTransaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
