package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"daylist/internal/logs"
	"daylist/internal/tasks/api"
	"daylist/internal/tasks/data"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrInvalidDrop   = errors.New("invalid drop target")
	ErrTaskNotFound  = errors.New("task not found")
)

// Notifier receives the user-facing outcome of controller actions.
type Notifier interface {
	GeneralError(message string)
	TaskDeleted(rec data.DeletedRecord)
	TaskRestored(task data.Task)
}

type nopNotifier struct{}

func (nopNotifier) GeneralError(string)            {}
func (nopNotifier) TaskDeleted(data.DeletedRecord) {}
func (nopNotifier) TaskRestored(data.Task)         {}

// TaskService defines the task list operations used by the UI.
type TaskService interface {
	FetchTasks(ctx context.Context) error
	AddTask(ctx context.Context, task data.Task) (data.Task, error)
	EditTask(ctx context.Context, old, updated data.Task) (data.Task, error)
	DeleteTask(ctx context.Context, task data.Task, index int) error
	PerformUndo(ctx context.Context, taskID string) (data.Task, error)
	UndoLast(ctx context.Context) (data.Task, error)
	DragEnd(ctx context.Context, drop data.DropResult) error

	SetFilter(f data.FilterState)
	Filter() data.FilterState
	Filtered() data.Buckets
	Buckets() data.Buckets
	UndoDepth() int
	Today() data.Date
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the bucketed task list, the undo stack and the active filter.
// Writes are serialized; reads never wait for a request in flight.
type Controller struct {
	api      api.TasksAPI
	notifier Notifier
	now      func() time.Time

	opMu sync.Mutex

	mu         sync.RWMutex
	buckets    data.Buckets
	groupedFor data.Date
	revision   uint64
	undo     []data.DeletedRecord
	filter   data.FilterState

	memoMu sync.Mutex
	memo   filterMemo
}

type filterMemo struct {
	valid    bool
	revision uint64
	filter   data.FilterState
	result   data.Buckets
}

var _ TaskService = (*Controller)(nil)

// NewController creates a controller backed by client. A nil notifier drops
// all notifications.
func NewController(client api.TasksAPI, notifier Notifier, opts ...Option) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	c := &Controller{
		api:      client,
		notifier: notifier,
		now:      time.Now,
		buckets:  data.Buckets{},
		filter:   data.NewFilterState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.groupedFor = c.Today()
	return c
}

// Today is the current calendar date according to the controller clock.
func (c *Controller) Today() data.Date {
	return data.DateOf(c.now())
}

// Buckets returns the current unfiltered task buckets.
func (c *Controller) Buckets() data.Buckets {
	b, _ := c.current()
	return b
}

// current returns a copy of the buckets grouped for today, along with today.
// Buckets built on an earlier day are regrouped first so that tasks whose
// date has passed land in Expired.
func (c *Controller) current() (data.Buckets, data.Date) {
	today := c.rollover()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buckets.Clone(), today
}

func (c *Controller) rollover() data.Date {
	today := c.Today()
	c.mu.RLock()
	stale := !c.groupedFor.Equal(today)
	c.mu.RUnlock()
	if !stale {
		return today
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.groupedFor.Equal(today) {
		logs.Logger.Printf("Controller: regrouping tasks for %s (was %s)", today, c.groupedFor)
		c.buckets = c.buckets.Regroup(today)
		c.groupedFor = today
		c.revision++
	}
	return today
}

// UndoDepth is the number of deletions that can still be undone.
func (c *Controller) UndoDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.undo)
}

// PendingUndo returns the most recent deletion record, if any.
func (c *Controller) PendingUndo() (data.DeletedRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.undo) == 0 {
		return data.DeletedRecord{}, false
	}
	return c.undo[len(c.undo)-1], true
}

func (c *Controller) SetFilter(f data.FilterState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

func (c *Controller) Filter() data.FilterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Filtered returns the buckets passing the active filter. The filtered
// mapping is cached until either the task list or the filter changes; each
// caller gets its own copy.
func (c *Controller) Filtered() data.Buckets {
	c.rollover()
	c.mu.RLock()
	b, rev, f := c.buckets, c.revision, c.filter
	c.mu.RUnlock()

	c.memoMu.Lock()
	defer c.memoMu.Unlock()
	if c.memo.valid && c.memo.revision == rev && sameFilter(c.memo.filter, f) {
		return c.memo.result.Clone()
	}
	c.memo = filterMemo{
		valid:    true,
		revision: rev,
		filter:   f,
		result:   data.ApplyFilters(b, f),
	}
	return c.memo.result.Clone()
}

func sameFilter(a, b data.FilterState) bool {
	return a.SearchInput == b.SearchInput &&
		a.Priority == b.Priority &&
		a.DateFilter.Start.Equal(b.DateFilter.Start) &&
		a.DateFilter.End.Equal(b.DateFilter.End)
}

// setBuckets stores b, which was grouped for today.
func (c *Controller) setBuckets(b data.Buckets, today data.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = b
	c.groupedFor = today
	c.revision++
}

func (c *Controller) fail(action string, err error) error {
	logs.Logger.Printf("Controller: %s failed: %v", action, err)
	api.HandleError(err, c.notifier.GeneralError)
	return fmt.Errorf("%s: %w", action, err)
}

// FetchTasks replaces the task list with the backend's.
func (c *Controller) FetchTasks(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	tasks, err := c.api.GetTasks(ctx)
	if err != nil {
		return c.fail("fetch tasks", err)
	}
	today := c.Today()
	c.setBuckets(data.GroupByDate(tasks, today), today)
	logs.Logger.Printf("Controller: fetched %d tasks", len(tasks))
	return nil
}

// AddTask persists task and appends the stored version to its bucket.
func (c *Controller) AddTask(ctx context.Context, task data.Task) (data.Task, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := task.Validate(); err != nil {
		c.notifier.GeneralError(err.Error())
		return data.Task{}, err
	}
	created, err := c.api.AddTask(ctx, task)
	if err != nil {
		return data.Task{}, c.fail("add task", err)
	}
	current, today := c.current()
	c.setBuckets(current.Append(created, today), today)
	logs.Logger.Printf("Controller: added task %s", created.ID)
	return created, nil
}

// EditTask persists updated and moves the task to the bucket of its new date
// when the date changed.
func (c *Controller) EditTask(ctx context.Context, old, updated data.Task) (data.Task, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	updated.ID = old.ID
	if err := updated.Validate(); err != nil {
		c.notifier.GeneralError(err.Error())
		return data.Task{}, err
	}
	saved, err := c.api.EditTask(ctx, updated)
	if err != nil {
		return data.Task{}, c.fail("edit task", err)
	}

	current, today := c.current()
	c.setBuckets(current.Relocate(old, saved, today), today)
	logs.Logger.Printf("Controller: edited task %s", saved.ID)
	return saved, nil
}

// DeleteTask deletes task on the backend, then removes it from its bucket
// and records it for undo. index is the task's position in its bucket; when
// it no longer points at the task the task is looked up by id.
func (c *Controller) DeleteTask(ctx context.Context, task data.Task, index int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.api.DeleteTask(ctx, task.ID); err != nil {
		return c.fail("delete task", err)
	}

	current, today := c.current()
	loc := data.Location{BucketKey: data.BucketKeyFor(task.Date, today), Index: index}
	if cur, ok := current.Get(loc); !ok || cur.ID != task.ID {
		found, ok := current.Find(task.ID)
		if !ok {
			logs.Logger.Printf("Controller: deleted task %s was not in the list", task.ID)
			rec := data.DeletedRecord{Task: task, Index: index, Date: task.Date}
			c.pushUndo(rec)
			c.notifier.TaskDeleted(rec)
			return nil
		}
		loc = found
	}

	next, removed, err := current.RemoveAt(loc)
	if err != nil {
		return err
	}
	rec := data.DeletedRecord{Task: removed, Index: loc.Index, Date: removed.Date}
	c.mu.Lock()
	c.buckets = next
	c.groupedFor = today
	c.revision++
	c.undo = append(c.undo, rec)
	c.mu.Unlock()

	logs.Logger.Printf("Controller: deleted task %s from %s[%d]", task.ID, loc.BucketKey, loc.Index)
	c.notifier.TaskDeleted(rec)
	return nil
}

func (c *Controller) pushUndo(rec data.DeletedRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undo = append(c.undo, rec)
}

// popUndo removes the record for id, keeping the order of the rest.
func (c *Controller) popUndo(id string) (data.DeletedRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.undo) - 1; i >= 0; i-- {
		if c.undo[i].Task.ID == id {
			rec := c.undo[i]
			c.undo = append(c.undo[:i:i], c.undo[i+1:]...)
			return rec, true
		}
	}
	return data.DeletedRecord{}, false
}

// PerformUndo restores the deleted task id. A record is consumed exactly
// once, so a second undo for the same id returns ErrNothingToUndo.
func (c *Controller) PerformUndo(ctx context.Context, taskID string) (data.Task, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	rec, ok := c.popUndo(taskID)
	if !ok {
		return data.Task{}, ErrNothingToUndo
	}

	restored, err := c.api.Undo(ctx, taskID)
	if err != nil {
		c.pushUndo(rec)
		return data.Task{}, c.fail("undo delete", err)
	}

	index := restoreIndex(restored.Position, rec.Index)
	current, today := c.current()
	if loc, ok := current.Find(restored.ID); ok {
		current, _, _ = current.RemoveAt(loc)
	}
	c.setBuckets(current.Insert(restored, index, today), today)

	logs.Logger.Printf("Controller: restored task %s at index %d", restored.ID, index)
	c.notifier.TaskRestored(restored)
	return restored, nil
}

// restoreIndex is min(max(position-1, 0), recorded). A missing position
// falls back to the recorded index.
func restoreIndex(position, recorded int) int {
	if position <= 0 {
		return recorded
	}
	return min(max(position-1, 0), recorded)
}

// UndoLast undoes the most recent deletion.
func (c *Controller) UndoLast(ctx context.Context) (data.Task, error) {
	rec, ok := c.PendingUndo()
	if !ok {
		return data.Task{}, ErrNothingToUndo
	}
	return c.PerformUndo(ctx, rec.Task.ID)
}

// DragEnd applies the outcome of a move. Moving into another date bucket
// changes the task's date; nothing can be moved into Expired from outside.
// The resulting order is sent to the backend.
func (c *Controller) DragEnd(ctx context.Context, drop data.DropResult) error {
	if drop.Destination == nil {
		return nil
	}
	dst := *drop.Destination
	src := drop.Source

	c.opMu.Lock()
	defer c.opMu.Unlock()

	current, today := c.current()
	task, ok := current.Get(src)
	if !ok || (drop.TaskID != "" && task.ID != drop.TaskID) {
		loc, found := current.Find(drop.TaskID)
		if !found {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, drop.TaskID)
		}
		src = loc
		task, _ = current.Get(src)
	}
	if src == dst {
		return nil
	}

	var next data.Buckets
	var err error
	if src.BucketKey == dst.BucketKey {
		next, err = current.Reorder(src.BucketKey, src.Index, dst.Index)
		if err != nil {
			return err
		}
	} else {
		if dst.BucketKey == data.ExpiredKey {
			return fmt.Errorf("%w: cannot move into %s", ErrInvalidDrop, data.ExpiredKey)
		}
		date, perr := data.ParseDate(dst.BucketKey)
		if perr != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDrop, dst.BucketKey)
		}
		if data.BucketKeyFor(date, today) != dst.BucketKey {
			return fmt.Errorf("%w: %s is before %s", ErrInvalidDrop, dst.BucketKey, today)
		}
		if dst.Index < 0 || dst.Index > len(current[dst.BucketKey]) {
			return fmt.Errorf("%w: %d in %s", data.ErrIndexOutOfRange, dst.Index, dst.BucketKey)
		}

		moved := task
		moved.Date = date
		saved, err := c.api.EditTask(ctx, moved)
		if err != nil {
			return c.fail("move task", err)
		}
		next, err = current.Move(src, dst)
		if err != nil {
			return err
		}
		if next, err = next.SetTask(dst, saved); err != nil {
			return err
		}
	}

	c.setBuckets(next, today)
	logs.Logger.Printf("Controller: moved task %s from %s[%d] to %s[%d]",
		task.ID, src.BucketKey, src.Index, dst.BucketKey, dst.Index)

	if err := c.api.OrderTasks(ctx, next.IDs()); err != nil {
		return c.fail("save order", err)
	}
	return nil
}
