package core_test

import (
	"errors"
	"testing"
	"time"

	"stockmaster/internal/core"
)

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
	return loc
}()

// fixed evaluation time: 2026-03-15 14:30 IST
var testNow = time.Date(2026, 3, 15, 14, 30, 0, 0, testLoc)

func TestParseRange_NamedKinds(t *testing.T) {
	for _, kind := range []string{"today", "yesterday", "3days", "1week", "1month", "1year", "all", ""} {
		r, err := core.ParseRange(kind, "", "", testLoc)
		if err != nil {
			t.Errorf("ParseRange(%q) unexpected error: %v", kind, err)
			continue
		}
		if kind == "" && r.Kind != core.RangeAll {
			t.Errorf("empty kind should default to all, got %q", r.Kind)
		}
	}
}

func TestParseRange_CustomRejectsHalfOpen(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"missing end", "2026-01-01", ""},
		{"missing start", "", "2026-01-31"},
		{"both missing", "", ""},
		{"bad start format", "01/01/2026", "2026-01-31"},
		{"end before start", "2026-02-01", "2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.ParseRange("custom", tt.start, tt.end, testLoc)
			if !errors.Is(err, core.ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestDateRange_CustomEndIsInclusive(t *testing.T) {
	r, err := core.ParseRange("custom", "2026-03-01", "2026-03-10", testLoc)
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}

	// 23:59 on the end date is still inside the range.
	endOfLastDay := time.Date(2026, 3, 10, 23, 59, 0, 0, testLoc)
	if !r.Contains(endOfLastDay, testNow, testLoc) {
		t.Errorf("end date should be inclusive")
	}
	nextMidnight := time.Date(2026, 3, 11, 0, 0, 0, 0, testLoc)
	if r.Contains(nextMidnight, testNow, testLoc) {
		t.Errorf("midnight after end date should be excluded")
	}
}

func TestDateRange_TodayYesterdayDisjoint(t *testing.T) {
	today := core.DateRange{Kind: core.RangeToday}
	yesterday := core.DateRange{Kind: core.RangeYesterday}

	samples := []time.Time{
		time.Date(2026, 3, 15, 0, 0, 0, 0, testLoc),   // today midnight
		time.Date(2026, 3, 15, 23, 59, 0, 0, testLoc), // today late
		time.Date(2026, 3, 14, 0, 0, 0, 0, testLoc),   // yesterday midnight
		time.Date(2026, 3, 14, 23, 59, 0, 0, testLoc), // yesterday late
		time.Date(2026, 3, 13, 12, 0, 0, 0, testLoc),  // older
	}
	for _, ts := range samples {
		inToday := today.Contains(ts, testNow, testLoc)
		inYesterday := yesterday.Contains(ts, testNow, testLoc)
		if inToday && inYesterday {
			t.Errorf("%v is in both today and yesterday", ts)
		}
	}
}

// Every named bucket must be a subset of the next-wider bucket; "all" is a
// superset of everything.
func TestFilterByRange_Refinement(t *testing.T) {
	txns := []core.StockTransaction{
		{ID: "a", Date: testNow},                         // today
		{ID: "b", Date: testNow.AddDate(0, 0, -1)},       // yesterday
		{ID: "c", Date: testNow.AddDate(0, 0, -5)},       // last week
		{ID: "d", Date: testNow.AddDate(0, 0, -20)},      // last month
		{ID: "e", Date: testNow.AddDate(0, -6, 0)},       // last year
		{ID: "f", Date: testNow.AddDate(-2, 0, 0)},       // ancient
		{ID: "g", Date: testNow.Add(30 * time.Minute)},   // later today
		{ID: "h", Date: time.Time{}.Add(24 * time.Hour)}, // epoch-ish
	}

	order := []core.RangeKind{core.RangeToday, core.RangeLast3Days, core.RangeLastWeek, core.RangeLastMonth, core.RangeLastYear, core.RangeAll}
	var prev map[string]bool
	for _, kind := range order {
		got := core.FilterByRange(txns, core.DateRange{Kind: kind}, testNow, testLoc)
		ids := make(map[string]bool, len(got))
		for _, tx := range got {
			ids[tx.ID] = true
		}
		if prev != nil {
			for id := range prev {
				if !ids[id] {
					t.Errorf("%s contained %s but wider range %s does not", order[indexOf(order, kind)-1], id, kind)
				}
			}
		}
		prev = ids
	}

	all := core.FilterByRange(txns, core.DateRange{Kind: core.RangeAll}, testNow, testLoc)
	if len(all) != len(txns) {
		t.Errorf("all range filtered %d of %d transactions", len(txns)-len(all), len(txns))
	}
}

func indexOf(kinds []core.RangeKind, k core.RangeKind) int {
	for i, v := range kinds {
		if v == k {
			return i
		}
	}
	return -1
}

func TestFilterByRange_PreservesOrder(t *testing.T) {
	txns := []core.StockTransaction{
		{ID: "1", Date: testNow.Add(-2 * time.Hour)},
		{ID: "2", Date: testNow.Add(-1 * time.Hour)},
		{ID: "3", Date: testNow.Add(-30 * time.Minute)},
	}
	got := core.FilterByRange(txns, core.DateRange{Kind: core.RangeToday}, testNow, testLoc)
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}
	for i, tx := range got {
		if tx.ID != txns[i].ID {
			t.Errorf("order not preserved at %d: got %s", i, tx.ID)
		}
	}
}

func TestSortForDisplay(t *testing.T) {
	txns := []core.StockTransaction{
		{ID: "old", Date: testNow.AddDate(0, 0, -2)},
		{ID: "new", Date: testNow},
		{ID: "mid", Date: testNow.AddDate(0, 0, -1)},
	}
	sorted := core.SortForDisplay(txns)
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, sorted[i].ID, id)
		}
	}
	// input untouched
	if txns[0].ID != "old" {
		t.Errorf("SortForDisplay mutated its input")
	}
}
