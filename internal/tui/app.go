package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"daylist/internal/alert"
	"daylist/internal/config"
	"daylist/internal/logs"
	"daylist/internal/tasks/api"
	"daylist/internal/tasks/data"
	"daylist/internal/tasks/service"
	"daylist/internal/tui/home"
	"daylist/internal/tui/messages"
	"daylist/internal/tui/shared"
	"daylist/internal/tui/toast"
)

// toastQueue is how many toasts may wait for the UI before new ones are dropped.
const toastQueue = 16

// statusBarHeight includes the top border of theme.StatusBar.
const statusBarHeight = 2

// AppModel is the root model: the home view with the toast stack above it.
type AppModel struct {
	cfg      *config.Config
	svc      service.TaskService
	alerts   *alert.Provider
	toastCh  chan alert.Toast
	toasts   toast.Model
	home     home.Model
	showHelp bool
	width    int
	height   int
	ready    bool
}

// alertNotifier turns controller events into toasts.
type alertNotifier struct {
	alerts *alert.Provider
	sticky bool
}

func (n alertNotifier) GeneralError(message string) {
	n.alerts.Error(message)
}

func (n alertNotifier) TaskDeleted(rec data.DeletedRecord) {
	n.alerts.TriggerWithAction(
		alert.Payload{Title: "Task deleted", Description: "Deleted: " + data.PlainDescription(rec.Task.Description)},
		alert.ToastAction{Label: "Undo", Key: "u", TaskID: rec.Task.ID},
		n.sticky,
	)
}

func (n alertNotifier) TaskRestored(task data.Task) {
	n.alerts.Success("Restored: " + data.PlainDescription(task.Description))
}

// channelSink hands toasts to the update loop without ever blocking the caller.
func channelSink(ch chan<- alert.Toast) alert.Sink {
	return alert.SinkFunc(func(t alert.Toast) {
		select {
		case ch <- t:
		default:
			logs.Logger.Printf("Toast queue full, dropping %s", t)
		}
	})
}

func waitForToast(ch <-chan alert.Toast) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Toast: <-ch}
	}
}

// NewAppModel creates the root application model
func NewAppModel(cfg *config.Config, client api.TasksAPI, opts ...service.Option) AppModel {
	ch := make(chan alert.Toast, toastQueue)
	alerts := alert.NewProvider(channelSink(ch), cfg.ToastDuration)
	ctrl := service.NewController(client, alertNotifier{alerts: alerts, sticky: cfg.UndoToastSticky}, opts...)

	return AppModel{
		cfg:     cfg,
		svc:     ctrl,
		alerts:  alerts,
		toastCh: ch,
		toasts:  toast.New(),
		home:    home.New(ctrl, cfg.WeekStart),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.home.Init(), waitForToast(m.toastCh))
}

// contentHeight is what is left for the home view once the toasts and the
// status bar are drawn.
func (m AppModel) contentHeight() int {
	h := m.height - statusBarHeight
	if v := m.toasts.View(); v != "" {
		h -= lipgloss.Height(v)
	}
	return max(h, 0)
}

// closeIfEmpty hides the alert once no toast is left on screen.
func (m *AppModel) closeIfEmpty() {
	if m.toasts.Len() == 0 {
		m.alerts.CloseAlert()
	}
}

func (m *AppModel) resize() {
	m.toasts.SetWidth(m.width)
	m.home.SetSize(m.width, m.contentHeight())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case ToastMsg:
		cmd := m.toasts.Push(msg.Toast)
		m.resize()
		return m, tea.Batch(cmd, waitForToast(m.toastCh))

	case toast.ExpiredMsg:
		m.toasts, _ = m.toasts.Update(msg)
		m.closeIfEmpty()
		m.resize()
		return m, nil

	case TasksChangedMsg:
		// The undo toast has served its purpose once the task is back.
		if msg.Action == home.ActionUndo && msg.FocusID != "" {
			m.toasts.ConsumeAction(msg.FocusID)
			m.closeIfEmpty()
			m.resize()
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if !m.home.IsInModalState() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "x":
				if m.toasts.Len() > 0 {
					m.toasts.DismissAll()
					m.closeIfEmpty()
					m.resize()
					return m, nil
				}
			case "u":
				if t, ok := m.toasts.PendingAction(); ok {
					m.toasts.Dismiss(t.ID)
					m.closeIfEmpty()
					m.resize()
					return m, messages.RequestUndo(t.Action.TaskID)
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.home, cmd = m.home.Update(msg)
	return m, cmd
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return shared.RenderHelpPopup("daylist - Keyboard Shortcuts", helpSections(), m.width, m.height)
	}

	content := m.home.View()
	if v := m.toasts.View(); v != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, v, content)
	}

	statusText := "?:help | q:quit"
	if m.toasts.Len() > 0 {
		statusText = "x:dismiss | " + statusText
	}
	if _, ok := m.toasts.PendingAction(); ok {
		statusText = "u:undo | " + statusText
	}
	statusBar := StatusBarStyle.Width(m.width).Render(HelpStyle.Render(statusText))

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func helpSections() []shared.HelpSection {
	sections := home.HelpSections()
	return append(sections, shared.HelpSection{
		Title: "Global",
		Binds: []shared.HelpBind{
			{Key: "u", Desc: "Undo from the latest toast"},
			{Key: "x", Desc: "Dismiss toasts"},
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
			{Key: "ctrl+c", Desc: "Force quit"},
		},
	})
}
