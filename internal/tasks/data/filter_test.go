package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func filterFixture() Buckets {
	tasks := []Task{
		{ID: "1", Description: "pay rent", Date: MustParseDate("2024-01-01"), Priority: PriorityHigh},
		{ID: "2", Description: "buy milk", Date: MustParseDate("2024-03-01"), Priority: PriorityLow},
		{ID: "3", Description: "buy bread", Date: MustParseDate("2024-03-05"), Priority: PriorityHigh},
		{ID: "4", Description: "call mom", Date: MustParseDate("2024-06-01")},
	}
	return GroupByDate(tasks, today)
}

func TestApplyFilters_EmptyReturnsInput(t *testing.T) {
	b := filterFixture()
	got := ApplyFilters(b, NewFilterState())
	if got.Count() != b.Count() {
		t.Errorf("expected %d tasks, got %d", b.Count(), got.Count())
	}
}

func TestApplyFilters_Search(t *testing.T) {
	got := ApplyFilters(filterFixture(), FilterState{SearchInput: "buy"})
	want := map[string][]string{
		"2024-03-01": {"2"},
		"2024-03-05": {"3"},
	}
	if diff := cmp.Diff(want, bucketIDs(got)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFilters_SearchIsCaseSensitive(t *testing.T) {
	got := ApplyFilters(filterFixture(), FilterState{SearchInput: "Buy"})
	if got.Count() != 0 {
		t.Errorf("expected no match, got %d", got.Count())
	}
}

func TestApplyFilters_DateRangeInclusive(t *testing.T) {
	f := FilterState{DateFilter: DateRange{
		Start: MustParseDate("2024-03-01"),
		End:   MustParseDate("2024-03-05"),
	}}
	got := ApplyFilters(filterFixture(), f)
	if diff := cmp.Diff([]string{"2", "3"}, got.IDs()); diff != "" {
		t.Errorf("date range mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFilters_Conjunctive(t *testing.T) {
	f := FilterState{
		SearchInput: "buy",
		Priority:    PriorityHigh,
		DateFilter:  DateRange{Start: MustParseDate("2024-02-01")},
	}
	got := ApplyFilters(filterFixture(), f)
	if diff := cmp.Diff([]string{"3"}, got.IDs()); diff != "" {
		t.Errorf("conjunctive mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFilters_OmitsEmptyBuckets(t *testing.T) {
	got := ApplyFilters(filterFixture(), FilterState{Priority: PriorityLow})
	if diff := cmp.Diff([]string{"2024-03-01"}, got.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterSummary(t *testing.T) {
	f := FilterState{SearchInput: "milk", Priority: PriorityLow}
	if got := f.Summary(); got != `search:"milk" priority:low` {
		t.Errorf("unexpected summary %q", got)
	}
	f.Reset()
	if !f.IsEmpty() {
		t.Error("expected empty state after reset")
	}
}
