package devserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"daylist/internal/tasks/data"
)

var (
	ErrNotFound = errors.New("task not found")
	ErrInvalid  = errors.New("invalid request")
)

type deletedEntry struct {
	task  data.Task
	index int
}

// Store keeps tasks in memory in one global order. Deleted tasks are kept
// aside so they can be restored to their original slot.
type Store struct {
	mu      sync.Mutex
	tasks   []data.Task
	deleted map[string]deletedEntry
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		deleted: make(map[string]deletedEntry),
		now:     time.Now,
	}
}

// List returns live tasks in global order with positions filled in.
func (s *Store) List() []data.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]data.Task(nil), s.tasks...)
}

// Add appends a new task and assigns it an id.
func (s *Store) Add(task data.Task) (data.Task, error) {
	if err := task.Validate(); err != nil {
		return data.Task{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	task.ID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks = append(s.tasks, task)
	s.renumber()
	return s.tasks[len(s.tasks)-1], nil
}

// Update replaces the stored fields of task.ID.
func (s *Store) Update(task data.Task) (data.Task, error) {
	if err := task.Validate(); err != nil {
		return data.Task{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(task.ID)
	if i < 0 {
		return data.Task{}, fmt.Errorf("%w: %s", ErrNotFound, task.ID)
	}
	task.CreatedAt = s.tasks[i].CreatedAt
	task.UpdatedAt = s.now().UTC()
	s.tasks[i] = task
	s.renumber()
	return s.tasks[i], nil
}

// Delete removes a task, remembering its slot for Restore.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.deleted[id] = deletedEntry{task: s.tasks[i], index: i}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.renumber()
	return nil
}

// Restore brings a deleted task back at its original slot.
func (s *Store) Restore(id string) (data.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.deleted[id]
	if !ok {
		return data.Task{}, fmt.Errorf("%w: no deleted task %s", ErrNotFound, id)
	}
	delete(s.deleted, id)

	index := min(entry.index, len(s.tasks))
	s.tasks = append(s.tasks, data.Task{})
	copy(s.tasks[index+1:], s.tasks[index:])
	s.tasks[index] = entry.task
	s.renumber()
	return s.tasks[index], nil
}

// Order rearranges live tasks to follow ids. Live tasks missing from ids keep
// their relative order after the listed ones.
func (s *Store) Order(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]data.Task, len(s.tasks))
	for _, t := range s.tasks {
		byID[t.ID] = t
	}

	seen := make(map[string]bool, len(ids))
	ordered := make([]data.Task, 0, len(s.tasks))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalid, id)
		}
		seen[id] = true
		ordered = append(ordered, t)
	}
	for _, t := range s.tasks {
		if !seen[t.ID] {
			ordered = append(ordered, t)
		}
	}

	s.tasks = ordered
	s.renumber()
	return nil
}

// Seed loads a handful of demo tasks around today.
func (s *Store) Seed(today data.Date) {
	demo := []data.Task{
		{Description: "Renew passport", Date: today.AddDays(-3), Priority: data.PriorityHigh},
		{Description: "Reply to **landlord** email", Date: today.AddDays(-1)},
		{Description: "Buy milk", Date: today, Priority: data.PriorityLow},
		{Description: "Review [pull request](https://example.com/pr/42)", Date: today, Priority: data.PriorityMedium},
		{Description: "Call mom", Date: today.AddDays(1)},
		{Description: "Dentist appointment", Date: today.AddDays(4), Priority: data.PriorityHigh},
		{Description: "Plan weekend trip", Date: today.AddDays(4), Priority: data.PriorityLow},
	}
	for _, t := range demo {
		s.Add(t)
	}
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// renumber sets each task's 1-based position among tasks sharing its date.
func (s *Store) renumber() {
	counts := make(map[string]int)
	for i := range s.tasks {
		key := s.tasks[i].Date.String()
		counts[key]++
		s.tasks[i].Position = counts[key]
	}
}
