package home

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylist/internal/devserver"
	"daylist/internal/tasks/api"
	"daylist/internal/tasks/data"
	"daylist/internal/tasks/service"
	"daylist/internal/tui/messages"
)

// Friday
var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

const (
	today    = "2024-03-01"
	tomorrow = "2024-03-02"
)

func newTestHome(t *testing.T, tasks ...data.Task) (Model, *service.Controller) {
	t.Helper()
	store := devserver.NewStore()
	for _, tk := range tasks {
		_, err := store.Add(tk)
		require.NoError(t, err)
	}
	srv := httptest.NewServer(devserver.NewServer(store).Handler())
	t.Cleanup(srv.Close)

	ctrl := service.NewController(api.NewClient(srv.URL+"/api"), nil,
		service.WithClock(func() time.Time { return testNow }))
	m := New(ctrl, time.Monday)
	m.SetSize(100, 40)
	m, _ = m.Update(m.Init()())
	return m, ctrl
}

func tk(desc, date string) data.Task {
	return data.Task{Description: desc, Date: data.MustParseDate(date)}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

// resolve runs cmd and feeds its message back into the model.
func resolve(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return m.Update(cmd())
}

func descriptions(m Model) []string {
	out := make([]string, len(m.items))
	for i, it := range m.items {
		out[i] = it.task.Description
	}
	return out
}

func bucketDescriptions(b data.Buckets, key string) []string {
	var out []string
	for _, t := range b[key] {
		out = append(out, t.Description)
	}
	return out
}

func TestHome_LoadsBuckets(t *testing.T) {
	m, _ := newTestHome(t,
		tk("later", "2024-03-04"),
		tk("old", "2024-02-20"),
		tk("now", today),
	)

	assert.False(t, m.loading)
	assert.Equal(t, []string{"old", "now", "later"}, descriptions(m))

	view := m.View()
	for _, want := range []string{"Expired", "Today", "Mon, Mar 4", "now"} {
		assert.Contains(t, view, want)
	}
}

func TestHome_EmptyState(t *testing.T) {
	m, _ := newTestHome(t)
	assert.Contains(t, m.View(), "No tasks. Press n to add one.")
}

func TestHome_CreateTask(t *testing.T) {
	m, ctrl := newTestHome(t, tk("existing", today))

	m, _ = press(m, "n")
	require.Equal(t, ModeCreateDescription, m.Mode())

	m, cmd := press(m, "buy milk", "enter")
	m, _ = resolve(t, m, cmd)
	require.Equal(t, ModeCreateDate, m.Mode())
	assert.Equal(t, today, m.textInput.Value(), "date should default to today")

	m, cmd = press(m, "enter")
	m, _ = resolve(t, m, cmd)
	require.Equal(t, ModeCreatePriority, m.Mode())

	m, cmd = press(m, "h", "enter")
	m, cmd = resolve(t, m, cmd)
	m, _ = resolve(t, m, cmd)

	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, []string{"existing", "buy milk"}, bucketDescriptions(ctrl.Buckets(), today))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "buy milk", sel.Description)
	assert.Equal(t, data.PriorityHigh, sel.Priority)
}

func TestHome_CreateRejectsBadDate(t *testing.T) {
	m, _ := newTestHome(t)

	m, _ = press(m, "n")
	m, cmd := press(m, "x", "enter")
	m, _ = resolve(t, m, cmd)

	m.textInput.SetValue("tomorrow-ish")
	m, cmd = press(m, "enter")
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.textInput.Error)
	assert.Equal(t, ModeCreateDate, m.Mode())

	m, cmd = press(m, "esc")
	m, _ = resolve(t, m, cmd)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Nil(t, m.textInput)
}

func TestHome_EditDateRelocates(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today), tk("b", today))

	m, _ = press(m, "d")
	require.Equal(t, ModeEditDate, m.Mode())
	m.textInput.SetValue(tomorrow)
	m, cmd := press(m, "enter")
	m, cmd = resolve(t, m, cmd)
	m, _ = resolve(t, m, cmd)

	b := ctrl.Buckets()
	assert.Equal(t, []string{"b"}, bucketDescriptions(b, today))
	assert.Equal(t, []string{"a"}, bucketDescriptions(b, tomorrow))
	sel, _ := m.Selected()
	assert.Equal(t, "a", sel.Description, "cursor should follow the edited task")
}

func TestHome_CyclePriority(t *testing.T) {
	m, _ := newTestHome(t, tk("a", today))

	m, cmd := press(m, "p")
	m, _ = resolve(t, m, cmd)

	sel, _ := m.Selected()
	assert.Equal(t, data.PriorityLow, sel.Priority)
}

func TestHome_DeleteAndUndo(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today), tk("b", today), tk("c", today))

	m, _ = press(m, "j")
	m, _ = press(m, "D")
	require.Equal(t, ModeConfirmation, m.Mode())
	assert.Contains(t, m.View(), "Delete task?")

	m, cmd := press(m, "y")
	m, cmd = resolve(t, m, cmd)
	m, _ = resolve(t, m, cmd)

	assert.Equal(t, []string{"a", "c"}, descriptions(m))
	assert.Equal(t, 1, ctrl.UndoDepth())

	m, cmd = press(m, "ctrl+z")
	m, _ = resolve(t, m, cmd)

	assert.Equal(t, []string{"a", "b", "c"}, descriptions(m))
	assert.Equal(t, 0, ctrl.UndoDepth())
	sel, _ := m.Selected()
	assert.Equal(t, "b", sel.Description)
}

func TestHome_DeleteCancelled(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today))

	m, _ = press(m, "D")
	m, cmd := press(m, "n")
	m, cmd = resolve(t, m, cmd)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, ctrl.Buckets().Count())
	assert.Equal(t, ModeNormal, m.Mode())
}

func TestHome_UndoRequestFromToast(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today))
	sel, _ := m.Selected()

	m, _ = press(m, "D")
	m, cmd := press(m, "y")
	m, cmd = resolve(t, m, cmd)
	m, _ = resolve(t, m, cmd)
	require.Equal(t, 0, ctrl.Buckets().Count())

	m, cmd = m.Update(messages.UndoRequestMsg{TaskID: sel.ID})
	m, _ = resolve(t, m, cmd)
	assert.Equal(t, 1, ctrl.Buckets().Count())

	// The record is consumed, a second request is a no-op.
	m, cmd = m.Update(messages.UndoRequestMsg{TaskID: sel.ID})
	m, _ = resolve(t, m, cmd)
	assert.Equal(t, 1, ctrl.Buckets().Count())
	assert.Equal(t, "Nothing to undo", m.infoBar.Message)
}

func TestHome_UndoWithEmptyStack(t *testing.T) {
	m, _ := newTestHome(t, tk("a", today))

	m, cmd := press(m, "ctrl+z")
	m, _ = resolve(t, m, cmd)
	assert.Equal(t, "Nothing to undo", m.infoBar.Message)
}

func TestHome_MoveModeAcrossBuckets(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today), tk("b", today), tk("c", tomorrow))

	m, _ = press(m, "m")
	require.Equal(t, ModeMove, m.Mode())
	require.True(t, m.IsInModalState())

	// Today[1], then Tomorrow[0].
	m, _ = press(m, "j", "j")
	assert.Equal(t, data.Location{BucketKey: tomorrow, Index: 0}, m.move.target())
	assert.Contains(t, m.View(), "≡ a")

	m, cmd := press(m, "enter")
	assert.Nil(t, m.move)
	m, _ = resolve(t, m, cmd)

	b := ctrl.Buckets()
	assert.Equal(t, []string{"b"}, bucketDescriptions(b, today))
	assert.Equal(t, []string{"a", "c"}, bucketDescriptions(b, tomorrow))
	assert.Equal(t, tomorrow, b[tomorrow][0].Date.String())
	sel, _ := m.Selected()
	assert.Equal(t, "a", sel.Description)
}

func TestHome_MoveModeReorder(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today), tk("b", today), tk("c", today))

	m, _ = press(m, " ", "j", "j")
	m, cmd := press(m, "enter")
	m, _ = resolve(t, m, cmd)

	assert.Equal(t, []string{"b", "c", "a"}, bucketDescriptions(ctrl.Buckets(), today))
}

func TestHome_MoveCancelled(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today), tk("b", today))

	m, _ = press(m, "m", "j")
	m, cmd := press(m, "esc")

	assert.Nil(t, cmd)
	assert.Nil(t, m.move)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, []string{"a", "b"}, bucketDescriptions(ctrl.Buckets(), today))
}

func TestHome_MoveBlockedWhileFiltered(t *testing.T) {
	m, _ := newTestHome(t, tk("milk", today), tk("eggs", today))

	m, _ = press(m, "/", "milk", "enter")
	m, _ = press(m, "m")

	assert.Nil(t, m.move)
	assert.Contains(t, m.infoBar.Message, "Clear filters")
}

func TestHome_BucketPicker(t *testing.T) {
	m, ctrl := newTestHome(t, tk("a", today), tk("b", tomorrow))

	m, _ = press(m, "M")
	require.Equal(t, ModeBucketPicker, m.Mode())

	m, _ = press(m, "Tomorrow")
	choice, ok := m.picker.Selected()
	require.True(t, ok)
	assert.Equal(t, tomorrow, choice.Key)

	m, cmd := press(m, "enter")
	m, cmd = resolve(t, m, cmd)
	m, _ = resolve(t, m, cmd)

	assert.Equal(t, []string{"b", "a"}, bucketDescriptions(ctrl.Buckets(), tomorrow))
}

func TestHome_Search(t *testing.T) {
	m, ctrl := newTestHome(t, tk("buy milk", today), tk("walk dog", today), tk("Milk run", tomorrow))

	m, _ = press(m, "/")
	require.True(t, m.searchActive)
	m, _ = press(m, "milk")

	assert.Equal(t, []string{"buy milk"}, descriptions(m), "search is case-sensitive")
	assert.Equal(t, "milk", ctrl.Filter().SearchInput)

	m, _ = press(m, "esc")
	assert.False(t, m.searchActive)
	assert.Len(t, m.items, 3)
}

func TestHome_FilterSelect(t *testing.T) {
	m, ctrl := newTestHome(t,
		data.Task{Description: "a", Date: data.MustParseDate(today), Priority: data.PriorityLow},
		tk("b", tomorrow),
		tk("c", "2024-03-09"),
	)

	m, _ = press(m, "f", "d")
	require.Equal(t, ModeDateFilter, m.Mode())
	m.textInput.SetValue(today + ".." + tomorrow)
	m, cmd := press(m, "enter")
	m, _ = resolve(t, m, cmd)

	assert.Equal(t, []string{"a", "b"}, descriptions(m))
	assert.Contains(t, m.View(), "date:"+today+".."+tomorrow)

	m, _ = press(m, "P")
	assert.Equal(t, data.PriorityLow, ctrl.Filter().Priority)
	assert.Equal(t, []string{"a"}, descriptions(m))

	m, _ = press(m, "esc")
	assert.True(t, ctrl.Filter().IsEmpty())
	assert.Len(t, m.items, 3)
}

func TestHome_FailureShowsMessage(t *testing.T) {
	m, _ := newTestHome(t, tk("a", today))

	m, _ = m.Update(messages.ActionFailedMsg{Action: ActionMove, Err: service.ErrInvalidDrop})
	assert.True(t, strings.Contains(m.infoBar.Message, "Expired"))
}

func TestHome_HelpSections(t *testing.T) {
	sections := HelpSections()
	require.NotEmpty(t, sections)
	for _, s := range sections {
		assert.NotEmpty(t, s.Binds, s.Title)
	}
}
