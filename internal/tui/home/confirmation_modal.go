package home

import (
	tea "github.com/charmbracelet/bubbletea"

	"daylist/internal/tasks/data"
	"daylist/internal/tui/shared"
	"daylist/internal/tui/theme"
)

// ConfirmationModal asks before a task is deleted.
type ConfirmationModal struct {
	Title  string
	Task   data.Task
	Bucket string
	Width  int
}

// ConfirmationResultMsg is sent when the user confirms or cancels
type ConfirmationResultMsg struct {
	Confirmed bool
}

// NewDeleteConfirmation builds the modal for deleting task from the bucket
// labelled bucket.
func NewDeleteConfirmation(task data.Task, bucket string, width int) *ConfirmationModal {
	return &ConfirmationModal{
		Title:  "Delete task?",
		Task:   task,
		Bucket: bucket,
		Width:  width,
	}
}

func (m *ConfirmationModal) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		return func() tea.Msg { return ConfirmationResultMsg{Confirmed: true} }
	case "n", "N", "esc", "q":
		return func() tea.Msg { return ConfirmationResultMsg{Confirmed: false} }
	}
	return nil
}

func (m *ConfirmationModal) View() string {
	content := theme.Title.Render(m.Title) + "\n\n"
	content += shared.StyledTaskLine(m.Task) + "\n"
	if m.Bucket != "" {
		content += theme.Muted.Render(m.Bucket) + "\n"
	}
	content += "\n" + theme.HelpHint.Render("You can undo this from the toast (u) or with ctrl+z.")
	content += "\n\n" + theme.Ok.Render("[y]") + " Delete  " + theme.Error.Render("[n/esc]") + " Keep"
	return theme.ModalBox.Width(m.Width).Render(content)
}
