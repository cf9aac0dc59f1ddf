package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"daylist/internal/logs"
	"daylist/internal/tasks/api"
	"daylist/internal/tasks/data"
	"daylist/internal/tasks/service"
	"daylist/internal/tui/messages"
	"daylist/internal/tui/shared"
	"daylist/internal/tui/theme"
)

// Action names carried by TasksChangedMsg and ActionFailedMsg.
const (
	ActionFetch  = "fetch"
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionUndo   = "undo"
	ActionMove   = "move"
)

var cursorStyle = lipgloss.NewStyle().Foreground(theme.Success)

type item struct {
	key  string
	task data.Task
}

// Model is the home view: tasks grouped into date buckets.
type Model struct {
	svc       service.TaskService
	weekStart time.Weekday

	buckets data.Buckets
	items   []item
	cursor  int

	inputContext InputModeContext
	infoBar      InfoBarModel

	textInput    *TextInputModel
	confirmation *ConfirmationModal
	picker       *BucketPickerModel
	move         *moveState

	searchActive bool
	searchInput  textinput.Model

	draft         data.Task
	editing       *data.Task
	pendingDelete *item

	loading bool
	width   int
	height  int
}

// New creates the home view. Tasks are loaded by Init.
func New(svc service.TaskService, weekStart time.Weekday) Model {
	m := Model{
		svc:          svc,
		weekStart:    weekStart,
		inputContext: NewInputModeContext(),
		infoBar:      NewInfoBar(),
		loading:      true,
	}
	m.refresh("")
	return m
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// SetSize updates the dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.infoBar.Width = width
	if m.textInput != nil {
		m.textInput.SetWidth(width)
	}
}

// Selected returns the task under the cursor.
func (m Model) Selected() (data.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return data.Task{}, false
	}
	return m.items[m.cursor].task, true
}

// Mode is the current input mode.
func (m Model) Mode() InputMode {
	return m.inputContext.Mode
}

// IsInModalState returns true if the view is reading keys for a sub-component
// and global keys must not be intercepted.
func (m Model) IsInModalState() bool {
	if m.textInput != nil || m.confirmation != nil || m.picker != nil || m.move != nil || m.searchActive {
		return true
	}
	return m.inputContext.Mode != ModeNormal
}

// refresh rebuilds the displayed list from the controller, keeping the
// cursor on focusID when given, else on the same task or row.
func (m *Model) refresh(focusID string) {
	if focusID == "" {
		if t, ok := m.Selected(); ok {
			focusID = t.ID
		}
	}

	m.buckets = m.svc.Filtered()
	m.items = nil
	for _, key := range m.buckets.Keys() {
		for _, t := range m.buckets[key] {
			m.items = append(m.items, item{key: key, task: t})
		}
	}

	for i, it := range m.items {
		if it.task.ID == focusID {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) setFilter(f data.FilterState) {
	m.svc.SetFilter(f)
	m.refresh("")
}

// Update handles messages for the home view
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.TasksChangedMsg:
		m.loading = false
		m.infoBar.Message = ""
		m.refresh(msg.FocusID)
		return m, nil
	case messages.ActionFailedMsg:
		m.loading = false
		m.infoBar.Message = failureText(msg)
		m.refresh("")
		return m, nil
	case messages.UndoRequestMsg:
		return m, m.undo(msg.TaskID)
	case messages.RefreshMsg:
		m.loading = true
		return m, m.fetch()
	case TextInputResultMsg:
		return m.handleTextInputResult(msg)
	case ConfirmationResultMsg:
		return m.handleConfirmationResult(msg)
	case BucketPickerResultMsg:
		return m.handlePickerResult(msg)
	}

	if m.searchActive {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleSearchMode(key)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	if m.confirmation != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m, m.confirmation.Update(key)
		}
		return m, nil
	}
	if m.picker != nil {
		return m, m.picker.Update(msg)
	}
	if m.textInput != nil {
		return m, m.textInput.Update(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.inputContext.Mode {
	case ModeMove:
		return m.handleMoveMode(key)
	case ModeFilterSelect:
		return m.handleFilterSelect(key)
	}
	return m.handleNormalMode(key)
}

func failureText(msg messages.ActionFailedMsg) string {
	switch {
	case errors.Is(msg.Err, service.ErrNothingToUndo):
		return "Nothing to undo"
	case errors.Is(msg.Err, service.ErrInvalidDrop):
		return "Tasks can only be moved into Expired if they are already expired"
	case errors.Is(msg.Err, service.ErrTaskNotFound):
		return "That task is no longer in the list"
	}
	var apiErr *api.Error
	if errors.As(msg.Err, &apiErr) {
		return api.Message(msg.Err)
	}
	return msg.Err.Error()
}

// Input handlers

func (m Model) handleNormalMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.infoBar.Message = ""
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.items) - 1
		m.clampCursor()
	case "n":
		return m.startCreate()
	case "enter", "e":
		return m.startEditDescription()
	case "d":
		return m.startEditDate()
	case "p":
		return m.cyclePriority()
	case "c":
		return m.toggleDone()
	case "D":
		return m.startDelete()
	case "ctrl+z":
		return m, m.undoLast()
	case "m", " ":
		return m.startMove()
	case "M":
		return m.startBucketPicker()
	case "/":
		return m.startSearch()
	case "f":
		m.inputContext.TransitionTo(ModeFilterSelect)
	case "P":
		m.cyclePriorityFilter()
	case "esc":
		f := m.svc.Filter()
		f.Reset()
		m.setFilter(f)
	case "r":
		m.loading = true
		return m, m.fetch()
	}
	return m, nil
}

func (m Model) handleFilterSelect(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.inputContext.Reset()
		return m.startSearch()
	case "d":
		m.textInput = NewDateRangeInput("Date range")
		if r := m.svc.Filter().DateFilter; !r.IsZero() {
			m.textInput.SetValue(r.String())
		}
		m.textInput.SetWidth(m.width)
		m.inputContext.TransitionTo(ModeDateFilter)
		return m, m.textInput.Focus()
	case "P":
		m.cyclePriorityFilter()
		m.inputContext.Reset()
	case "esc":
		m.inputContext.Reset()
	}
	return m, nil
}

func (m Model) handleSearchMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		m.inputContext.Reset()
		return m, nil
	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.inputContext.Reset()
		f := m.svc.Filter()
		f.SearchInput = ""
		m.setFilter(f)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	f := m.svc.Filter()
	f.SearchInput = m.searchInput.Value()
	m.setFilter(f)
	return m, cmd
}

func (m Model) handleMoveMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.move.step(1)
	case "k", "up":
		m.move.step(-1)
	case "enter", "m", " ":
		drop := m.move.drop()
		m.move = nil
		m.inputContext.Reset()
		return m, m.dragEnd(drop)
	case "esc":
		// Dropped outside any bucket: nothing changes.
		m.move = nil
		m.inputContext.Reset()
	}
	return m, nil
}

// Actions

func (m Model) startCreate() (Model, tea.Cmd) {
	m.draft = data.Task{}
	m.textInput = NewTextInput("New task", "what needs doing?", nil)
	m.textInput.SetWidth(m.width)
	m.inputContext.TransitionTo(ModeCreateDescription)
	return m, m.textInput.Focus()
}

func (m Model) startEditDescription() (Model, tea.Cmd) {
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.editing = &t
	m.textInput = NewTextInput("Description", "", nil)
	m.textInput.SetValue(t.Description)
	m.textInput.SetWidth(m.width)
	m.inputContext.TransitionTo(ModeEditDescription)
	return m, m.textInput.Focus()
}

func (m Model) startEditDate() (Model, tea.Cmd) {
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.editing = &t
	m.textInput = NewDateInput("Date")
	m.textInput.SetValue(t.Date.String())
	m.textInput.SetWidth(m.width)
	m.inputContext.TransitionTo(ModeEditDate)
	return m, m.textInput.Focus()
}

func (m Model) cyclePriority() (Model, tea.Cmd) {
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	updated := t
	updated.Priority = t.Priority.Next()
	return m, m.edit(t, updated)
}

func (m Model) toggleDone() (Model, tea.Cmd) {
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	updated := t
	updated.Done = !t.Done
	return m, m.edit(t, updated)
}

func (m Model) startDelete() (Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return m, nil
	}
	it := m.items[m.cursor]
	m.pendingDelete = &it
	m.confirmation = NewDeleteConfirmation(it.task, DateLabel(it.key, m.svc.Today(), m.weekStart), 60)
	m.inputContext.TransitionTo(ModeConfirmation)
	return m, nil
}

func (m Model) startMove() (Model, tea.Cmd) {
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if !m.svc.Filter().IsEmpty() {
		m.infoBar.Message = "Clear filters (esc) to move tasks"
		return m, nil
	}
	ms, ok := newMoveState(m.svc.Buckets(), t.ID)
	if !ok {
		return m, nil
	}
	m.move = ms
	m.inputContext.TransitionTo(ModeMove)
	return m, nil
}

func (m Model) startBucketPicker() (Model, tea.Cmd) {
	if _, ok := m.Selected(); !ok {
		return m, nil
	}
	choices := BucketChoices(m.svc.Buckets().Keys(), m.svc.Today(), m.weekStart)
	m.picker = NewBucketPicker("Move to", choices)
	m.picker.Width = m.width
	m.inputContext.TransitionTo(ModeBucketPicker)
	return m, nil
}

func (m Model) startSearch() (Model, tea.Cmd) {
	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "type to filter..."
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 40
	m.searchInput.SetValue(m.svc.Filter().SearchInput)
	m.searchActive = true
	m.inputContext.TransitionTo(ModeSearch)
	return m, m.searchInput.Focus()
}

func (m *Model) cyclePriorityFilter() {
	f := m.svc.Filter()
	f.Priority = f.Priority.Next()
	m.setFilter(f)
}

// Result handlers

func (m Model) handleTextInputResult(msg TextInputResultMsg) (Model, tea.Cmd) {
	m.textInput = nil
	mode := m.inputContext.Mode

	if msg.Cancelled {
		m.editing = nil
		m.inputContext.Reset()
		return m, nil
	}

	switch mode {
	case ModeCreateDescription:
		if strings.TrimSpace(msg.Value) == "" {
			m.inputContext.Reset()
			return m, nil
		}
		m.draft.Description = msg.Value
		m.textInput = NewDateInput("Date")
		m.textInput.SetValue(m.svc.Today().String())
		m.textInput.SetWidth(m.width)
		m.inputContext.TransitionTo(ModeCreateDate)
		return m, m.textInput.Focus()

	case ModeCreateDate:
		d, _ := data.ParseDate(msg.Value)
		m.draft.Date = d
		m.textInput = NewPriorityInput("Priority")
		m.textInput.SetWidth(m.width)
		m.inputContext.TransitionTo(ModeCreatePriority)
		return m, m.textInput.Focus()

	case ModeCreatePriority:
		p, _ := data.ParsePriority(msg.Value)
		m.draft.Priority = p
		draft := m.draft
		m.draft = data.Task{}
		m.inputContext.Reset()
		return m, m.add(draft)

	case ModeEditDescription, ModeEditDate:
		if m.editing == nil {
			m.inputContext.Reset()
			return m, nil
		}
		old := *m.editing
		updated := old
		if mode == ModeEditDescription {
			if strings.TrimSpace(msg.Value) == "" {
				m.editing = nil
				m.inputContext.Reset()
				return m, nil
			}
			updated.Description = msg.Value
		} else {
			updated.Date, _ = data.ParseDate(msg.Value)
		}
		m.editing = nil
		m.inputContext.Reset()
		return m, m.edit(old, updated)

	case ModeDateFilter:
		r, _ := data.ParseDateRange(msg.Value)
		f := m.svc.Filter()
		f.DateFilter = r
		m.setFilter(f)
	}

	m.inputContext.Reset()
	return m, nil
}

func (m Model) handleConfirmationResult(msg ConfirmationResultMsg) (Model, tea.Cmd) {
	m.confirmation = nil
	m.inputContext.Reset()
	pending := m.pendingDelete
	m.pendingDelete = nil

	if !msg.Confirmed || pending == nil {
		return m, nil
	}

	index := 0
	if loc, ok := m.svc.Buckets().Find(pending.task.ID); ok {
		index = loc.Index
	}
	return m, m.delete(pending.task, index)
}

func (m Model) handlePickerResult(msg BucketPickerResultMsg) (Model, tea.Cmd) {
	m.picker = nil
	m.inputContext.Reset()
	if msg.Cancelled {
		return m, nil
	}

	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	all := m.svc.Buckets()
	src, ok := all.Find(t.ID)
	if !ok || src.BucketKey == msg.Key {
		return m, nil
	}
	dst := data.Location{BucketKey: msg.Key, Index: len(all[msg.Key])}
	return m, m.dragEnd(data.DropResult{TaskID: t.ID, Source: src, Destination: &dst})
}

// Commands. Each runs one controller operation off the update loop.

func changed(action, focusID string) tea.Msg {
	return messages.TasksChangedMsg{Action: action, FocusID: focusID}
}

func failed(action string, err error) tea.Msg {
	logs.Logger.Printf("Home: %s failed: %v", action, err)
	return messages.ActionFailedMsg{Action: action, Err: err}
}

func (m Model) fetch() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.FetchTasks(context.Background()); err != nil {
			return failed(ActionFetch, err)
		}
		return changed(ActionFetch, "")
	}
}

func (m Model) add(task data.Task) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		created, err := svc.AddTask(context.Background(), task)
		if err != nil {
			return failed(ActionAdd, err)
		}
		return changed(ActionAdd, created.ID)
	}
}

func (m Model) edit(old, updated data.Task) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		saved, err := svc.EditTask(context.Background(), old, updated)
		if err != nil {
			return failed(ActionEdit, err)
		}
		return changed(ActionEdit, saved.ID)
	}
}

func (m Model) delete(task data.Task, index int) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.DeleteTask(context.Background(), task, index); err != nil {
			return failed(ActionDelete, err)
		}
		return changed(ActionDelete, "")
	}
}

func (m Model) undo(taskID string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		restored, err := svc.PerformUndo(context.Background(), taskID)
		if err != nil {
			return failed(ActionUndo, err)
		}
		return changed(ActionUndo, restored.ID)
	}
}

func (m Model) undoLast() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		restored, err := svc.UndoLast(context.Background())
		if err != nil {
			return failed(ActionUndo, err)
		}
		return changed(ActionUndo, restored.ID)
	}
}

func (m Model) dragEnd(drop data.DropResult) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.DragEnd(context.Background(), drop); err != nil {
			return failed(ActionMove, err)
		}
		return changed(ActionMove, drop.TaskID)
	}
}

// View renders the home view
func (m Model) View() string {
	m.infoBar.InputContext = &m.inputContext
	m.infoBar.Filter = m.svc.Filter()
	m.infoBar.TaskCount = len(m.items)
	m.infoBar.UndoDepth = m.svc.UndoDepth()
	m.infoBar.Loading = m.loading

	hints := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.infoBar.RenderHints())

	if m.confirmation != nil {
		modal := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.confirmation.View())
		return shared.CenterWithBottomHints(modal, hints, m.height)
	}

	var b strings.Builder
	b.WriteString(m.infoBar.View())
	b.WriteString("\n")

	if m.picker != nil {
		b.WriteString(m.picker.View())
		return shared.TopWithBottomHints(b.String(), hints, m.height)
	}
	if m.textInput != nil {
		b.WriteString(m.textInput.View())
		return shared.TopWithBottomHints(b.String(), hints, m.height)
	}

	used := infoBarLines + 1 + 1
	if m.searchActive {
		b.WriteString(searchStyle.Render("/") + m.searchInput.View() + "\n")
		used++
	}

	lines, focus := m.renderLines()
	for _, line := range shared.Window(lines, focus, m.height-used) {
		b.WriteString(line + "\n")
	}

	return shared.TopWithBottomHints(b.String(), hints, m.height)
}

// renderLines renders every bucket and reports which line holds the cursor.
func (m Model) renderLines() ([]string, int) {
	buckets := m.buckets
	highlight := ""
	if m.move != nil {
		buckets = m.move.preview(m.svc.Buckets())
		highlight = m.move.taskID
	} else if t, ok := m.Selected(); ok {
		highlight = t.ID
	}

	if buckets.Count() == 0 {
		if m.loading {
			return []string{theme.Muted.Render("Loading tasks...")}, -1
		}
		if !m.svc.Filter().IsEmpty() {
			return []string{theme.Muted.Render("No tasks match the filters.")}, -1
		}
		return []string{theme.Muted.Render("No tasks. Press n to add one.")}, -1
	}

	today := m.svc.Today()
	var lines []string
	focus := -1
	for i, key := range buckets.Keys() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, m.renderHeading(key, today, len(buckets[key])))
		for _, t := range buckets[key] {
			line := shared.StyledTaskLine(t)
			switch {
			case t.ID == highlight && m.move != nil:
				focus = len(lines)
				line = theme.Moving.Render("≡ " + data.PlainDescription(t.Description))
			case t.ID == highlight:
				focus = len(lines)
				line = cursorStyle.Render("> ") + line
			default:
				line = "  " + line
			}
			lines = append(lines, line)
		}
	}
	return lines, focus
}

func (m Model) renderHeading(key string, today data.Date, count int) string {
	label := DateLabel(key, today, m.weekStart)
	if key == data.ExpiredKey {
		return theme.ExpiredHeading.Render(label) + theme.BucketDate.Render(fmt.Sprintf(" (%d)", count))
	}
	return theme.BucketHeading.Render(label) + theme.BucketDate.Render(fmt.Sprintf("  %s (%d)", key, count))
}

// HelpSections lists the home view key bindings for the help popup.
func HelpSections() []shared.HelpSection {
	return []shared.HelpSection{
		{
			Title: "Tasks",
			Binds: []shared.HelpBind{
				{Key: "j / k", Desc: "Navigate tasks"},
				{Key: "n", Desc: "New task"},
				{Key: "enter / e", Desc: "Edit description"},
				{Key: "d", Desc: "Change date"},
				{Key: "p", Desc: "Cycle priority"},
				{Key: "c", Desc: "Toggle done"},
				{Key: "D", Desc: "Delete task"},
				{Key: "ctrl+z", Desc: "Undo last delete"},
				{Key: "r", Desc: "Reload from server"},
			},
		},
		{
			Title: "Moving",
			Binds: []shared.HelpBind{
				{Key: "m / space", Desc: "Pick up task"},
				{Key: "j / k", Desc: "Move within and across days"},
				{Key: "enter", Desc: "Drop"},
				{Key: "esc", Desc: "Cancel move"},
				{Key: "M", Desc: "Move to a date"},
			},
		},
		{
			Title: "Filtering",
			Binds: []shared.HelpBind{
				{Key: "/", Desc: "Search descriptions"},
				{Key: "f d", Desc: "Filter by date range"},
				{Key: "P", Desc: "Cycle priority filter"},
				{Key: "esc", Desc: "Clear filters"},
			},
		},
	}
}
