package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"daylist/internal/clierr"
	"daylist/internal/tasks/data"
	"daylist/internal/tui/home"
)

// minPartialID is the shortest id prefix accepted in place of a full id.
const minPartialID = 4

// bucketJSON is one bucket in --json list output.
type bucketJSON struct {
	Key   string      `json:"bucket"`
	Label string      `json:"label"`
	Tasks []data.Task `json:"tasks"`
}

func newListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List tasks grouped by day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fail(runList(cmd, e))
		},
	}
	cmd.Flags().StringP("search", "s", "", "only tasks whose description contains this text")
	cmd.Flags().String("from", "", "only tasks dated on or after this day (yyyy-mm-dd)")
	cmd.Flags().String("to", "", "only tasks dated on or before this day (yyyy-mm-dd)")
	cmd.Flags().StringP("priority", "p", "", "only tasks with this priority (low, medium, high)")
	return cmd
}

func runList(cmd *cobra.Command, e *env) error {
	filter, err := listFilter(cmd)
	if err != nil {
		return err
	}

	ctrl := e.controller()
	if err := ctrl.FetchTasks(cmd.Context()); err != nil {
		return err
	}
	ctrl.SetFilter(filter)
	buckets := ctrl.Filtered()
	today := ctrl.Today()

	if e.json {
		out := make([]bucketJSON, 0, len(buckets))
		for _, key := range buckets.Keys() {
			out = append(out, bucketJSON{Key: key, Label: home.DateLabel(key, today, e.cfg.WeekStart), Tasks: buckets[key]})
		}
		writeJSON(e.stdout, out)
		return nil
	}

	if buckets.Count() == 0 {
		fmt.Fprintln(e.stdout, "No tasks found.")
		return nil
	}
	for i, key := range buckets.Keys() {
		if i > 0 {
			fmt.Fprintln(e.stdout)
		}
		label := home.DateLabel(key, today, e.cfg.WeekStart)
		if label != key {
			label += "  " + key
		}
		fmt.Fprintln(e.stdout, label)
		for _, t := range buckets[key] {
			printTask(e.stdout, t)
		}
	}
	fmt.Fprintf(e.stdout, "\n%d task(s)\n", buckets.Count())
	return nil
}

func listFilter(cmd *cobra.Command) (data.FilterState, error) {
	var f data.FilterState
	f.SearchInput, _ = cmd.Flags().GetString("search")

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from != "" || to != "" {
		r, err := data.ParseDateRange(from + ".." + to)
		if err != nil {
			return f, clierr.New(clierr.InvalidDate, err.Error())
		}
		f.DateFilter = r
	}

	p, _ := cmd.Flags().GetString("priority")
	priority, err := data.ParsePriority(p)
	if err != nil {
		return f, clierr.New(clierr.InvalidPriority, err.Error())
	}
	f.Priority = priority
	return f, nil
}

func newAddCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add DESCRIPTION...",
		Aliases: []string{"a"},
		Short:   "Add a task",
		Example: `  daylist add "Buy **oat** milk" --date 2024-03-02 --priority low`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runAdd(cmd, e, args))
		},
	}
	cmd.Flags().StringP("date", "d", "", "due day (yyyy-mm-dd, default today)")
	cmd.Flags().StringP("priority", "p", "", "priority (low, medium, high)")
	return cmd
}

func runAdd(cmd *cobra.Command, e *env, args []string) error {
	task := data.Task{
		Description: strings.Join(args, " "),
		Date:        data.DateOf(e.now()),
	}
	if err := applyTaskFlags(cmd, &task); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	created, err := e.controller().AddTask(cmd.Context(), task)
	if err != nil {
		return err
	}

	if e.json {
		writeJSON(e.stdout, created)
		return nil
	}
	fmt.Fprintf(e.stdout, "Added: %s\n", data.PlainDescription(created.Description))
	fmt.Fprintf(e.stdout, "ID: %s\n", created.ID)
	return nil
}

func newEditCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit ID",
		Aliases: []string{"e"},
		Short:   "Change a task's description, day or priority",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runEdit(cmd, e, args[0]))
		},
	}
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().StringP("date", "d", "", "new day (yyyy-mm-dd)")
	cmd.Flags().StringP("priority", "p", "", "new priority (low, medium, high, or empty to clear)")
	return cmd
}

func runEdit(cmd *cobra.Command, e *env, id string) error {
	ctrl := e.controller()
	if err := ctrl.FetchTasks(cmd.Context()); err != nil {
		return err
	}
	old, _, err := findTaskByPartialID(ctrl.Buckets(), id)
	if err != nil {
		return err
	}

	updated := old
	if cmd.Flags().Changed("description") {
		updated.Description, _ = cmd.Flags().GetString("description")
	}
	if err := applyTaskFlags(cmd, &updated); err != nil {
		return err
	}
	if updated == old {
		return clierr.New(clierr.NoChanges, "nothing to change: pass --description, --date or --priority")
	}
	if err := updated.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	saved, err := ctrl.EditTask(cmd.Context(), old, updated)
	if err != nil {
		return err
	}
	if e.json {
		writeJSON(e.stdout, saved)
		return nil
	}
	fmt.Fprintf(e.stdout, "Updated: %s\n", data.PlainDescription(saved.Description))
	return nil
}

func newDoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"do"},
		Short:   "Mark a task as done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runDone(cmd, e, args[0]))
		},
	}
}

func runDone(cmd *cobra.Command, e *env, id string) error {
	ctrl := e.controller()
	if err := ctrl.FetchTasks(cmd.Context()); err != nil {
		return err
	}
	task, _, err := findTaskByPartialID(ctrl.Buckets(), id)
	if err != nil {
		return err
	}

	if task.Done {
		fmt.Fprintf(e.stdout, "Task already completed: %s\n", data.PlainDescription(task.Description))
		return nil
	}

	updated := task
	updated.Done = true
	saved, err := ctrl.EditTask(cmd.Context(), task, updated)
	if err != nil {
		return err
	}
	if e.json {
		writeJSON(e.stdout, saved)
		return nil
	}
	fmt.Fprintf(e.stdout, "Completed: %s\n", data.PlainDescription(saved.Description))
	return nil
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "del"},
		Short:   "Delete a task",
		Long:    `Deletes a task. The backend keeps it around so "daylist undo ID" can bring it back.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runDelete(cmd, e, args[0]))
		},
	}
}

func runDelete(cmd *cobra.Command, e *env, id string) error {
	ctrl := e.controller()
	if err := ctrl.FetchTasks(cmd.Context()); err != nil {
		return err
	}
	task, loc, err := findTaskByPartialID(ctrl.Buckets(), id)
	if err != nil {
		return err
	}

	if err := ctrl.DeleteTask(cmd.Context(), task, loc.Index); err != nil {
		return err
	}
	if e.json {
		writeJSON(e.stdout, task)
		return nil
	}
	fmt.Fprintf(e.stdout, "Deleted: %s\n", data.PlainDescription(task.Description))
	fmt.Fprintf(e.stdout, "Undo with: daylist undo %s\n", task.ID)
	return nil
}

func newUndoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "undo ID",
		Short: "Restore a deleted task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runUndo(cmd, e, args[0]))
		},
	}
}

func runUndo(cmd *cobra.Command, e *env, id string) error {
	// Deleted tasks are not listed, so only a full id can name one.
	restored, err := e.client().Undo(cmd.Context(), id)
	if err != nil {
		return err
	}
	if e.json {
		writeJSON(e.stdout, restored)
		return nil
	}
	fmt.Fprintf(e.stdout, "Restored: %s\n", data.PlainDescription(restored.Description))
	return nil
}

func newMoveCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "move ID",
		Aliases: []string{"mv"},
		Short:   "Move a task to another day or position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runMove(cmd, e, args[0]))
		},
	}
	cmd.Flags().StringP("date", "d", "", "destination day (yyyy-mm-dd, default the task's day)")
	cmd.Flags().IntP("index", "i", -1, "0-based position in the destination day (default last)")
	return cmd
}

func runMove(cmd *cobra.Command, e *env, id string) error {
	ctrl := e.controller()
	if err := ctrl.FetchTasks(cmd.Context()); err != nil {
		return err
	}
	buckets := ctrl.Buckets()
	task, src, err := findTaskByPartialID(buckets, id)
	if err != nil {
		return err
	}

	dstKey := src.BucketKey
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		d, err := data.ParseDate(s)
		if err != nil {
			return clierr.New(clierr.InvalidDate, err.Error())
		}
		dstKey = data.BucketKeyFor(d, ctrl.Today())
	}

	index, _ := cmd.Flags().GetInt("index")
	if index < 0 {
		index = len(buckets[dstKey])
		if dstKey == src.BucketKey {
			index--
		}
	}

	dst := data.Location{BucketKey: dstKey, Index: index}
	if err := ctrl.DragEnd(cmd.Context(), data.DropResult{TaskID: task.ID, Source: src, Destination: &dst}); err != nil {
		return err
	}
	if e.json {
		writeJSON(e.stdout, ctrl.Buckets()[dstKey])
		return nil
	}
	fmt.Fprintf(e.stdout, "Moved: %s -> %s #%d\n", data.PlainDescription(task.Description), dstKey, index+1)
	return nil
}

func newOrderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "order ID...",
		Short: "Set the global task order",
		Long: `Sends the given ids as the new global order. Tasks not named keep
their relative order after the named ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(runOrder(cmd, e, args))
		},
	}
}

func runOrder(cmd *cobra.Command, e *env, args []string) error {
	ctrl := e.controller()
	if err := ctrl.FetchTasks(cmd.Context()); err != nil {
		return err
	}
	buckets := ctrl.Buckets()

	seen := make(map[string]bool)
	var ids []string
	for _, arg := range args {
		t, _, err := findTaskByPartialID(buckets, arg)
		if err != nil {
			return err
		}
		if !seen[t.ID] {
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}
	for _, id := range buckets.IDs() {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	if err := e.client().OrderTasks(cmd.Context(), ids); err != nil {
		return err
	}
	if e.json {
		writeJSON(e.stdout, ids)
		return nil
	}
	fmt.Fprintf(e.stdout, "Ordered %d task(s)\n", len(ids))
	return nil
}

// applyTaskFlags copies --date and --priority onto t when they were given.
func applyTaskFlags(cmd *cobra.Command, t *data.Task) error {
	if cmd.Flags().Changed("date") {
		s, _ := cmd.Flags().GetString("date")
		d, err := data.ParseDate(s)
		if err != nil {
			return clierr.New(clierr.InvalidDate, err.Error())
		}
		t.Date = d
	}
	if cmd.Flags().Changed("priority") {
		s, _ := cmd.Flags().GetString("priority")
		p, err := data.ParsePriority(s)
		if err != nil {
			return clierr.New(clierr.InvalidPriority, err.Error())
		}
		t.Priority = p
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTask(w io.Writer, t data.Task) {
	status := " "
	if t.Done {
		status = "x"
	}

	priority := ""
	if t.Priority != data.PriorityNone {
		priority = fmt.Sprintf("(%s) ", t.Priority)
	}

	fmt.Fprintf(w, "  [%s] %s %s%s\n", shortID(t.ID), status, priority, data.PlainDescription(t.Description))
}

// findTaskByPartialID resolves a full id or an unambiguous prefix of at least
// minPartialID characters.
func findTaskByPartialID(b data.Buckets, partialID string) (data.Task, data.Location, error) {
	if loc, ok := b.Find(partialID); ok {
		t, _ := b.Get(loc)
		return t, loc, nil
	}

	var matches []string
	if len(partialID) >= minPartialID {
		for _, id := range b.IDs() {
			if strings.HasPrefix(id, partialID) {
				matches = append(matches, id)
			}
		}
	}

	switch len(matches) {
	case 0:
		return data.Task{}, data.Location{}, clierr.Newf(clierr.TaskNotFound, "no task found with ID: %s", partialID)
	case 1:
		loc, _ := b.Find(matches[0])
		t, _ := b.Get(loc)
		return t, loc, nil
	}
	return data.Task{}, data.Location{}, clierr.Newf(clierr.InvalidInput, "multiple tasks match ID '%s', please be more specific", partialID)
}
