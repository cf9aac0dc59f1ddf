package home

import "daylist/internal/tasks/data"

// moveState tracks a task being moved with the keyboard, the terminal
// counterpart of dragging it.
type moveState struct {
	taskID string
	source data.Location
	slots  []data.Location
	index  int
}

// moveSlots lists every place the task at src can be dropped, in display
// order. A task can only land in Expired if it already is expired.
func moveSlots(b data.Buckets, src data.Location) []data.Location {
	without, _, err := b.RemoveAt(src)
	if err != nil {
		return nil
	}
	var slots []data.Location
	for _, key := range b.Keys() {
		if key == data.ExpiredKey && src.BucketKey != data.ExpiredKey {
			continue
		}
		for i := 0; i <= len(without[key]); i++ {
			slots = append(slots, data.Location{BucketKey: key, Index: i})
		}
	}
	return slots
}

func newMoveState(b data.Buckets, taskID string) (*moveState, bool) {
	src, ok := b.Find(taskID)
	if !ok {
		return nil, false
	}
	slots := moveSlots(b, src)
	for i, s := range slots {
		if s == src {
			return &moveState{taskID: taskID, source: src, slots: slots, index: i}, true
		}
	}
	return nil, false
}

func (s *moveState) step(delta int) {
	s.index = min(max(s.index+delta, 0), len(s.slots)-1)
}

func (s *moveState) target() data.Location {
	return s.slots[s.index]
}

// drop is the result of releasing the task at the current slot.
func (s *moveState) drop() data.DropResult {
	dst := s.target()
	return data.DropResult{TaskID: s.taskID, Source: s.source, Destination: &dst}
}

// preview is b as it would look after dropping at the current slot.
func (s *moveState) preview(b data.Buckets) data.Buckets {
	next, err := b.Move(s.source, s.target())
	if err != nil {
		return b
	}
	return next
}
