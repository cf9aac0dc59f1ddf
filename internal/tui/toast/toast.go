// Package toast renders the stack of notifications shown in the top-right
// corner and expires them on a timer.
package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"daylist/internal/alert"
	"daylist/internal/logs"
	"daylist/internal/tui/messages"
	"daylist/internal/tui/theme"
)

// DefaultMaxVisible is how many toasts are drawn at once; older ones wait.
const DefaultMaxVisible = 3

// ExpiredMsg is delivered when a non-sticky toast's duration has elapsed.
type ExpiredMsg struct {
	ID int64
}

// Model is the toast stack, newest last.
type Model struct {
	toasts     []alert.Toast
	maxVisible int
	width      int
}

func New() Model {
	return Model{maxVisible: DefaultMaxVisible}
}

func (m *Model) SetWidth(w int) {
	m.width = w
}

// Len is the number of live toasts.
func (m Model) Len() int {
	return len(m.toasts)
}

// Toasts returns the live toasts, oldest first.
func (m Model) Toasts() []alert.Toast {
	return append([]alert.Toast(nil), m.toasts...)
}

// Push adds t to the stack. Non-sticky toasts get a timer.
func (m *Model) Push(t alert.Toast) tea.Cmd {
	m.toasts = append(m.toasts, t)
	logs.Logger.Printf("Toast: show %s", t)
	if t.Sticky || t.Duration <= 0 {
		return nil
	}
	id := t.ID
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Dismiss removes the toast with id.
func (m *Model) Dismiss(id int64) {
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissAll clears the stack.
func (m *Model) DismissAll() {
	m.toasts = nil
}

// PendingAction returns the newest toast offering an action.
func (m Model) PendingAction() (alert.Toast, bool) {
	for i := len(m.toasts) - 1; i >= 0; i-- {
		if m.toasts[i].Action != nil {
			return m.toasts[i], true
		}
	}
	return alert.Toast{}, false
}

// ConsumeAction drops every toast whose action targets taskID.
func (m *Model) ConsumeAction(taskID string) {
	kept := m.toasts[:0:0]
	for _, t := range m.toasts {
		if t.Action != nil && t.Action.TaskID == taskID {
			continue
		}
		kept = append(kept, t)
	}
	m.toasts = kept
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ExpiredMsg:
		m.Dismiss(msg.ID)
	case messages.ToastMsg:
		cmd := m.Push(msg.Toast)
		return m, cmd
	}
	return m, nil
}

func styleFor(v alert.Variant) lipgloss.Style {
	switch v {
	case alert.VariantSuccess:
		return theme.ToastSuccess
	case alert.VariantError:
		return theme.ToastError
	}
	return theme.ToastInfo
}

func renderToast(t alert.Toast) string {
	text := t.Text
	if t.Action != nil {
		text += "  " + theme.ToastAction.Render("["+t.Action.Key+"] "+t.Action.Label)
	}
	return styleFor(t.Variant).Render(text)
}

// View renders the newest toasts right-aligned, newest on top. It is empty
// when there is nothing to show.
func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	visible := m.toasts
	if m.maxVisible > 0 && len(visible) > m.maxVisible {
		visible = visible[len(visible)-m.maxVisible:]
	}

	boxes := make([]string, 0, len(visible))
	for i := len(visible) - 1; i >= 0; i-- {
		boxes = append(boxes, renderToast(visible[i]))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	if m.width > 0 {
		stack = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
	}
	return strings.TrimRight(stack, "\n")
}
