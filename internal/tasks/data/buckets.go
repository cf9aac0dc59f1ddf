package data

import (
	"errors"
	"fmt"
	"sort"
)

// ExpiredKey is the bucket holding every task dated before today.
const ExpiredKey = "Expired"

var (
	ErrBucketNotFound  = errors.New("bucket not found")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// BucketKeyFor decides which bucket a task dated `date` belongs to.
// All bucket membership checks go through here.
func BucketKeyFor(date, today Date) string {
	if date.Before(today) {
		return ExpiredKey
	}
	return date.String()
}

// Buckets maps a bucket key to its ordered tasks.
//
// Methods never mutate the receiver: they return a new mapping that shares
// untouched slices with the old one, so callers may keep the previous value
// around (e.g. for rendering) without aliasing surprises.
type Buckets map[string][]Task

// Location addresses a slot inside a bucket.
type Location struct {
	BucketKey string
	Index     int
}

// DropResult describes the end of a move. A nil Destination means the task
// was dropped outside any bucket.
type DropResult struct {
	TaskID      string
	Source      Location
	Destination *Location
}

// GroupByDate buckets tasks, keeping their input order within each bucket.
func GroupByDate(tasks []Task, today Date) Buckets {
	b := make(Buckets)
	for _, t := range tasks {
		key := BucketKeyFor(t.Date, today)
		b[key] = append(b[key], t)
	}
	return b
}

// Keys returns bucket keys in display order: Expired first, then dates ascending.
func (b Buckets) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == ExpiredKey {
			return keys[j] != ExpiredKey
		}
		if keys[j] == ExpiredKey {
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Count returns the total number of tasks across buckets.
func (b Buckets) Count() int {
	n := 0
	for _, tasks := range b {
		n += len(tasks)
	}
	return n
}

// Find locates a task by id.
func (b Buckets) Find(id string) (Location, bool) {
	for key, tasks := range b {
		for i, t := range tasks {
			if t.ID == id {
				return Location{BucketKey: key, Index: i}, true
			}
		}
	}
	return Location{}, false
}

// Get returns the task at loc.
func (b Buckets) Get(loc Location) (Task, bool) {
	tasks, ok := b[loc.BucketKey]
	if !ok || loc.Index < 0 || loc.Index >= len(tasks) {
		return Task{}, false
	}
	return tasks[loc.Index], true
}

// Clone copies the mapping and every bucket slice.
func (b Buckets) Clone() Buckets {
	out := make(Buckets, len(b))
	for k, tasks := range b {
		out[k] = append([]Task(nil), tasks...)
	}
	return out
}

// with returns a shallow copy of b with key set to tasks. Empty buckets are dropped.
func (b Buckets) with(key string, tasks []Task) Buckets {
	out := make(Buckets, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	if len(tasks) == 0 {
		delete(out, key)
	} else {
		out[key] = tasks
	}
	return out
}

// Insert places task into its bucket at index, creating the bucket if absent.
// The index is clamped to the bucket bounds.
func (b Buckets) Insert(task Task, index int, today Date) Buckets {
	key := BucketKeyFor(task.Date, today)
	return b.with(key, insertAt(b[key], index, task))
}

// Append places task at the end of its bucket.
func (b Buckets) Append(task Task, today Date) Buckets {
	key := BucketKeyFor(task.Date, today)
	return b.with(key, insertAt(b[key], len(b[key]), task))
}

// RemoveAt removes the task at loc and returns it.
func (b Buckets) RemoveAt(loc Location) (Buckets, Task, error) {
	tasks, ok := b[loc.BucketKey]
	if !ok {
		return b, Task{}, fmt.Errorf("%w: %s", ErrBucketNotFound, loc.BucketKey)
	}
	if loc.Index < 0 || loc.Index >= len(tasks) {
		return b, Task{}, fmt.Errorf("%w: %d in %s", ErrIndexOutOfRange, loc.Index, loc.BucketKey)
	}
	removed := tasks[loc.Index]
	return b.with(loc.BucketKey, removeAt(tasks, loc.Index)), removed, nil
}

// RemoveByID removes the task with id from bucket key.
func (b Buckets) RemoveByID(key, id string) (Buckets, Task, bool) {
	for i, t := range b[key] {
		if t.ID == id {
			return b.with(key, removeAt(b[key], i)), t, true
		}
	}
	return b, Task{}, false
}

// Replace swaps the task sharing task.ID within bucket key.
func (b Buckets) Replace(key string, task Task) (Buckets, bool) {
	for i, t := range b[key] {
		if t.ID == task.ID {
			tasks := append([]Task(nil), b[key]...)
			tasks[i] = task
			return b.with(key, tasks), true
		}
	}
	return b, false
}

// Relocate applies an edit. The task is looked up by id wherever it
// currently sits. When its bucket key changes it is moved to the end of the
// new bucket; otherwise it is replaced in place. An updated task that cannot
// be found is appended.
func (b Buckets) Relocate(old, updated Task, today Date) Buckets {
	loc, ok := b.Find(old.ID)
	if !ok {
		return b.Append(updated, today)
	}
	if loc.BucketKey == BucketKeyFor(updated.Date, today) {
		next, _ := b.SetTask(loc, updated)
		return next
	}
	next, _, _ := b.RemoveAt(loc)
	return next.Append(updated, today)
}

// Regroup rebuckets every task for today, keeping the display order. Tasks
// whose date has passed since the buckets were built move to Expired.
func (b Buckets) Regroup(today Date) Buckets {
	return GroupByDate(b.Flatten(), today)
}

// Reorder moves the task at index from to index to within one bucket.
func (b Buckets) Reorder(key string, from, to int) (Buckets, error) {
	tasks, ok := b[key]
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrBucketNotFound, key)
	}
	if from < 0 || from >= len(tasks) || to < 0 || to >= len(tasks) {
		return b, fmt.Errorf("%w: %d -> %d in %s", ErrIndexOutOfRange, from, to, key)
	}
	moved := tasks[from]
	return b.with(key, insertAt(removeAt(tasks, from), to, moved)), nil
}

// Move takes the task at src out of its bucket and inserts it into dst.
// The destination bucket is created if it does not exist yet.
func (b Buckets) Move(src, dst Location) (Buckets, error) {
	if src.BucketKey == dst.BucketKey {
		return b.Reorder(src.BucketKey, src.Index, dst.Index)
	}
	next, moved, err := b.RemoveAt(src)
	if err != nil {
		return b, err
	}
	if dst.Index < 0 || dst.Index > len(next[dst.BucketKey]) {
		return b, fmt.Errorf("%w: %d in %s", ErrIndexOutOfRange, dst.Index, dst.BucketKey)
	}
	return next.with(dst.BucketKey, insertAt(next[dst.BucketKey], dst.Index, moved)), nil
}

// SetTask overwrites the task at loc without moving it.
func (b Buckets) SetTask(loc Location, task Task) (Buckets, error) {
	tasks, ok := b[loc.BucketKey]
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrBucketNotFound, loc.BucketKey)
	}
	if loc.Index < 0 || loc.Index >= len(tasks) {
		return b, fmt.Errorf("%w: %d in %s", ErrIndexOutOfRange, loc.Index, loc.BucketKey)
	}
	next := append([]Task(nil), tasks...)
	next[loc.Index] = task
	return b.with(loc.BucketKey, next), nil
}

// Flatten lists every task following Keys order.
func (b Buckets) Flatten() []Task {
	out := make([]Task, 0, b.Count())
	for _, k := range b.Keys() {
		out = append(out, b[k]...)
	}
	return out
}

// IDs lists task ids following Keys order.
func (b Buckets) IDs() []string {
	tasks := b.Flatten()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func insertAt(tasks []Task, index int, task Task) []Task {
	if index < 0 {
		index = 0
	}
	if index > len(tasks) {
		index = len(tasks)
	}
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks[:index]...)
	out = append(out, task)
	return append(out, tasks[index:]...)
}

func removeAt(tasks []Task, index int) []Task {
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:index]...)
	return append(out, tasks[index+1:]...)
}
