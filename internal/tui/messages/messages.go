package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"daylist/internal/alert"
)

// TasksChangedMsg is sent after a controller action succeeded. FocusID, when
// set, is the task the cursor should land on.
type TasksChangedMsg struct {
	Action  string
	FocusID string
}

// ActionFailedMsg is sent when a controller action returned an error. API
// failures have already been reported through the alert provider.
type ActionFailedMsg struct {
	Action string
	Err    error
}

// ToastMsg carries a toast from the alert provider into the update loop.
type ToastMsg struct {
	Toast alert.Toast
}

// UndoRequestMsg asks the home view to undo the deletion of TaskID.
type UndoRequestMsg struct {
	TaskID string
}

// RefreshMsg asks the home view to reload tasks from the backend.
type RefreshMsg struct{}

func Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

func RequestUndo(taskID string) tea.Cmd {
	return func() tea.Msg {
		return UndoRequestMsg{TaskID: taskID}
	}
}
