package data

import "strings"

// FilterState holds the active filters of the list view.
// Zero-valued fields are inactive.
type FilterState struct {
	SearchInput string
	DateFilter  DateRange
	Priority    Priority
}

// NewFilterState returns a state with every filter inactive.
func NewFilterState() FilterState {
	return FilterState{}
}

// IsEmpty reports whether no filter is active.
func (f FilterState) IsEmpty() bool {
	return f.SearchInput == "" && f.DateFilter.IsZero() && f.Priority == PriorityNone
}

// Reset clears every filter.
func (f *FilterState) Reset() {
	*f = FilterState{}
}

// Summary renders the active filters for the info bar.
func (f FilterState) Summary() string {
	var parts []string
	if f.SearchInput != "" {
		parts = append(parts, "search:\""+f.SearchInput+"\"")
	}
	if !f.DateFilter.IsZero() {
		parts = append(parts, "date:"+f.DateFilter.String())
	}
	if f.Priority != PriorityNone {
		parts = append(parts, "priority:"+string(f.Priority))
	}
	return strings.Join(parts, " ")
}

// Matches is the filter predicate: every active filter must pass.
func (f FilterState) Matches(t Task) bool {
	if !f.DateFilter.IsZero() && !f.DateFilter.Contains(t.Date) {
		return false
	}
	if f.SearchInput != "" && !strings.Contains(t.Description, f.SearchInput) {
		return false
	}
	if f.Priority != PriorityNone && t.Priority != f.Priority {
		return false
	}
	return true
}

// ApplyFilters keeps the tasks matching f. Buckets left empty are omitted.
func ApplyFilters(b Buckets, f FilterState) Buckets {
	if f.IsEmpty() {
		return b
	}
	out := make(Buckets)
	for key, tasks := range b {
		var kept []Task
		for _, t := range tasks {
			if f.Matches(t) {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			out[key] = kept
		}
	}
	return out
}
