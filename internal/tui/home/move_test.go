package home

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"daylist/internal/tasks/data"
)

func moveFixture() data.Buckets {
	d := data.MustParseDate("2024-03-01")
	return data.GroupByDate([]data.Task{
		{ID: "old", Date: data.MustParseDate("2024-02-01")},
		{ID: "a", Date: d},
		{ID: "b", Date: d},
		{ID: "c", Date: d.AddDays(1)},
	}, d)
}

func TestMoveSlots_SkipExpiredForCurrentTasks(t *testing.T) {
	b := moveFixture()

	got := moveSlots(b, data.Location{BucketKey: "2024-03-01", Index: 0})
	want := []data.Location{
		{BucketKey: "2024-03-01", Index: 0},
		{BucketKey: "2024-03-01", Index: 1},
		{BucketKey: "2024-03-02", Index: 0},
		{BucketKey: "2024-03-02", Index: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveSlots_ExpiredTaskCanStay(t *testing.T) {
	b := moveFixture()

	got := moveSlots(b, data.Location{BucketKey: data.ExpiredKey, Index: 0})
	if len(got) == 0 || got[0] != (data.Location{BucketKey: data.ExpiredKey, Index: 0}) {
		t.Fatalf("expected Expired slot first, got %v", got)
	}
	// Expired(1) + today(3) + tomorrow(2)
	if len(got) != 6 {
		t.Errorf("expected 6 slots, got %d: %v", len(got), got)
	}
}

func TestMoveState_StepClampsAndPreviews(t *testing.T) {
	b := moveFixture()

	s, ok := newMoveState(b, "a")
	if !ok {
		t.Fatal("expected move state")
	}
	s.step(-5)
	if s.target() != (data.Location{BucketKey: "2024-03-01", Index: 0}) {
		t.Errorf("step should clamp at the first slot, got %v", s.target())
	}
	s.step(100)
	if s.target() != (data.Location{BucketKey: "2024-03-02", Index: 1}) {
		t.Errorf("step should clamp at the last slot, got %v", s.target())
	}

	preview := s.preview(b)
	if got := preview.IDs(); !cmp.Equal(got, []string{"old", "b", "c", "a"}) {
		t.Errorf("preview ids = %v", got)
	}
	// The real buckets are untouched.
	if got := b.IDs(); !cmp.Equal(got, []string{"old", "a", "b", "c"}) {
		t.Errorf("buckets were mutated: %v", got)
	}

	drop := s.drop()
	if drop.TaskID != "a" || drop.Destination == nil || *drop.Destination != s.target() {
		t.Errorf("unexpected drop %+v", drop)
	}
}

func TestNewMoveState_UnknownTask(t *testing.T) {
	if _, ok := newMoveState(moveFixture(), "missing"); ok {
		t.Error("expected no move state for an unknown task")
	}
}
