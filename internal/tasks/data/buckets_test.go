package data

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var today = MustParseDate("2024-03-01")

func task(id, date string) Task {
	return Task{ID: id, Description: "task " + id, Date: MustParseDate(date)}
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func bucketIDs(b Buckets) map[string][]string {
	out := make(map[string][]string, len(b))
	for k, tasks := range b {
		out[k] = ids(tasks)
	}
	return out
}

func sampleBuckets() Buckets {
	return GroupByDate([]Task{
		task("1", "2024-01-01"),
		task("2", "2024-03-01"),
		task("3", "2024-02-28"),
		task("4", "2024-06-01"),
		task("5", "2024-03-01"),
	}, today)
}

func TestBucketKeyFor(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-01-01", ExpiredKey},
		{"2024-02-29", ExpiredKey},
		{"2024-03-01", "2024-03-01"},
		{"2024-06-01", "2024-06-01"},
	}
	for _, c := range cases {
		if got := BucketKeyFor(MustParseDate(c.date), today); got != c.want {
			t.Errorf("BucketKeyFor(%s) = %q, want %q", c.date, got, c.want)
		}
	}
}

func TestGroupByDate(t *testing.T) {
	got := bucketIDs(sampleBuckets())
	want := map[string][]string{
		ExpiredKey:   {"1", "3"},
		"2024-03-01": {"2", "5"},
		"2024-06-01": {"4"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupByDate mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByDate_PastAndFuture(t *testing.T) {
	b := GroupByDate([]Task{task("a", "2024-01-01"), task("b", "2024-06-01")}, today)
	if diff := cmp.Diff([]string{ExpiredKey, "2024-06-01"}, b.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestKeysOrder(t *testing.T) {
	b := Buckets{
		"2024-06-01": {task("4", "2024-06-01")},
		ExpiredKey:   {task("1", "2024-01-01")},
		"2024-03-01": {task("2", "2024-03-01")},
	}
	want := []string{ExpiredKey, "2024-03-01", "2024-06-01"}
	if diff := cmp.Diff(want, b.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestInsert_CreatesBucketAndDoesNotMutate(t *testing.T) {
	b := sampleBuckets()
	before := bucketIDs(b)

	next := b.Insert(task("6", "2024-07-01"), 0, today)

	if diff := cmp.Diff(before, bucketIDs(b)); diff != "" {
		t.Errorf("receiver mutated (-before +after):\n%s", diff)
	}
	if got := ids(next["2024-07-01"]); !cmp.Equal(got, []string{"6"}) {
		t.Errorf("expected new bucket with task 6, got %v", got)
	}
}

func TestInsert_ClampsIndex(t *testing.T) {
	b := sampleBuckets()
	next := b.Insert(task("6", "2024-03-01"), 99, today)
	if got := ids(next["2024-03-01"]); !cmp.Equal(got, []string{"2", "5", "6"}) {
		t.Errorf("expected append on large index, got %v", got)
	}
	next = b.Insert(task("7", "2024-03-01"), -3, today)
	if got := ids(next["2024-03-01"]); !cmp.Equal(got, []string{"7", "2", "5"}) {
		t.Errorf("expected prepend on negative index, got %v", got)
	}
}

func TestRemoveAt(t *testing.T) {
	b := sampleBuckets()
	next, removed, err := b.RemoveAt(Location{BucketKey: ExpiredKey, Index: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.ID != "3" {
		t.Errorf("expected to remove 3, got %s", removed.ID)
	}
	if got := ids(next[ExpiredKey]); !cmp.Equal(got, []string{"1"}) {
		t.Errorf("unexpected Expired bucket %v", got)
	}
	if len(b[ExpiredKey]) != 2 {
		t.Error("receiver mutated")
	}
}

func TestRemoveAt_DropsEmptyBucket(t *testing.T) {
	b := sampleBuckets()
	next, _, err := b.RemoveAt(Location{BucketKey: "2024-06-01", Index: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := next["2024-06-01"]; ok {
		t.Error("expected empty bucket to be dropped")
	}
}

func TestRemoveAt_Errors(t *testing.T) {
	b := sampleBuckets()
	if _, _, err := b.RemoveAt(Location{BucketKey: "2030-01-01"}); !errors.Is(err, ErrBucketNotFound) {
		t.Errorf("expected ErrBucketNotFound, got %v", err)
	}
	if _, _, err := b.RemoveAt(Location{BucketKey: ExpiredKey, Index: 5}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRelocate_ExpiredToFuture(t *testing.T) {
	b := sampleBuckets()
	old := b[ExpiredKey][0]
	updated := old
	updated.Date = MustParseDate("2024-06-01")

	next := b.Relocate(old, updated, today)

	want := map[string][]string{
		ExpiredKey:   {"3"},
		"2024-03-01": {"2", "5"},
		"2024-06-01": {"4", "1"},
	}
	if diff := cmp.Diff(want, bucketIDs(next)); diff != "" {
		t.Errorf("Relocate mismatch (-want +got):\n%s", diff)
	}
}

func TestRelocate_SameDateReplacesInPlace(t *testing.T) {
	b := sampleBuckets()
	old := b["2024-03-01"][0]
	updated := old
	updated.Description = "renamed"

	next := b.Relocate(old, updated, today)

	if got := ids(next["2024-03-01"]); !cmp.Equal(got, []string{"2", "5"}) {
		t.Errorf("order changed: %v", got)
	}
	if next["2024-03-01"][0].Description != "renamed" {
		t.Errorf("expected replaced description, got %q", next["2024-03-01"][0].Description)
	}
}

func TestRelocate_BetweenExpiredDatesStaysPut(t *testing.T) {
	b := sampleBuckets()
	old := b[ExpiredKey][1]
	updated := old
	updated.Date = MustParseDate("2023-12-24")

	next := b.Relocate(old, updated, today)

	if got := ids(next[ExpiredKey]); !cmp.Equal(got, []string{"1", "3"}) {
		t.Errorf("expected in-place replacement within Expired, got %v", got)
	}
	if !next[ExpiredKey][1].Date.Equal(updated.Date) {
		t.Errorf("expected updated date, got %s", next[ExpiredKey][1].Date)
	}
}

func TestRelocate_FindsTaskInStaleBucket(t *testing.T) {
	b := sampleBuckets()
	old := b["2024-03-01"][0]
	updated := old
	updated.Description = "renamed"

	next := b.Relocate(old, updated, today.AddDays(1))

	want := map[string][]string{
		ExpiredKey:   {"1", "3", "2"},
		"2024-03-01": {"5"},
		"2024-06-01": {"4"},
	}
	if diff := cmp.Diff(want, bucketIDs(next)); diff != "" {
		t.Errorf("Relocate mismatch (-want +got):\n%s", diff)
	}
	if next.Count() != b.Count() {
		t.Errorf("expected %d tasks, got %d", b.Count(), next.Count())
	}
}

func TestRegroup_NextDay(t *testing.T) {
	b := sampleBuckets()

	next := b.Regroup(today.AddDays(1))

	want := map[string][]string{
		ExpiredKey:   {"1", "3", "2", "5"},
		"2024-06-01": {"4"},
	}
	if diff := cmp.Diff(want, bucketIDs(next)); diff != "" {
		t.Errorf("Regroup mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(bucketIDs(sampleBuckets()), bucketIDs(b)); diff != "" {
		t.Errorf("receiver mutated (-want +got):\n%s", diff)
	}
}

func TestReorder_PreservesMembership(t *testing.T) {
	b := Buckets{"2024-03-01": {
		task("a", "2024-03-01"), task("b", "2024-03-01"), task("c", "2024-03-01"),
	}}
	next, err := b.Reorder("2024-03-01", 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(next["2024-03-01"])
	if !cmp.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("unexpected order %v", got)
	}
	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	if !cmp.Equal(sorted, []string{"a", "b", "c"}) {
		t.Errorf("membership changed: %v", got)
	}
}

func TestMove_AcrossBuckets(t *testing.T) {
	b := sampleBuckets()
	total := b.Count()

	next, err := b.Move(
		Location{BucketKey: "2024-03-01", Index: 1},
		Location{BucketKey: "2024-06-01", Index: 0},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Count() != total {
		t.Errorf("expected %d tasks, got %d", total, next.Count())
	}
	want := map[string][]string{
		ExpiredKey:   {"1", "3"},
		"2024-03-01": {"2"},
		"2024-06-01": {"5", "4"},
	}
	if diff := cmp.Diff(want, bucketIDs(next)); diff != "" {
		t.Errorf("Move mismatch (-want +got):\n%s", diff)
	}
}

func TestMove_InvalidDestinationLeavesStateAlone(t *testing.T) {
	b := sampleBuckets()
	next, err := b.Move(
		Location{BucketKey: "2024-03-01", Index: 0},
		Location{BucketKey: "2024-06-01", Index: 9},
	)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if next.Count() != b.Count() {
		t.Error("expected unchanged buckets on error")
	}
}

func TestIDs_FollowKeyOrder(t *testing.T) {
	want := []string{"1", "3", "2", "5", "4"}
	if diff := cmp.Diff(want, sampleBuckets().IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestFind(t *testing.T) {
	loc, ok := sampleBuckets().Find("5")
	if !ok {
		t.Fatal("expected to find task 5")
	}
	if loc != (Location{BucketKey: "2024-03-01", Index: 1}) {
		t.Errorf("unexpected location %+v", loc)
	}
	if _, ok := sampleBuckets().Find("missing"); ok {
		t.Error("expected missing task not to be found")
	}
}
