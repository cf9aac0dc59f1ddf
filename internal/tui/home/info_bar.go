package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daylist/internal/tasks/data"
	"daylist/internal/tui/theme"
)

var (
	modeStyle    = theme.NavActive
	hintStyle    = theme.HelpHint
	filterStyle  = lipgloss.NewStyle().Foreground(theme.Warning)
	searchStyle  = lipgloss.NewStyle().Foreground(theme.Success)
	infoBarStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(theme.Border)
)

// infoBarLines is the height of the info bar including its border.
const infoBarLines = 4

// InfoBarModel displays mode, keybinds, and active filters
type InfoBarModel struct {
	InputContext *InputModeContext
	Filter       data.FilterState
	TaskCount    int
	UndoDepth    int
	Loading      bool
	Message      string
	Width        int
}

func NewInfoBar() InfoBarModel {
	return InfoBarModel{Width: 80}
}

// View renders the info bar (3 fixed lines)
func (m *InfoBarModel) View() string {
	lines := [3]string{
		m.renderModeLine(),
		m.renderFiltersLine(),
		m.renderMessageLine(),
	}
	return infoBarStyle.Width(m.Width).Render(strings.Join(lines[:], "\n"))
}

func (m *InfoBarModel) renderModeLine() string {
	mode := "Normal"
	if m.InputContext != nil {
		mode = m.InputContext.String()
	}
	line := modeStyle.Render("[" + mode + "]")
	line += hintStyle.Render(fmt.Sprintf("  %d tasks", m.TaskCount))
	if m.UndoDepth > 0 {
		line += hintStyle.Render(fmt.Sprintf("  %d undoable", m.UndoDepth))
	}
	if m.Loading {
		line += hintStyle.Render("  loading...")
	}
	return line
}

// RenderHints returns the styled keybind hints for the current mode.
func (m *InfoBarModel) RenderHints() string {
	return hintStyle.Render(m.RenderHintsRaw())
}

// RenderHintsRaw returns the raw (unstyled) keybind hints for the current mode.
func (m *InfoBarModel) RenderHintsRaw() string {
	mode := ModeNormal
	if m.InputContext != nil {
		mode = m.InputContext.Mode
	}

	switch mode {
	case ModeFilterSelect:
		return "/:search  d:date range  P:priority  esc:back"
	case ModeSearch:
		return "type to filter  enter:done  esc:clear"
	case ModeDateFilter:
		return "format: from..to  enter:apply  esc:cancel"
	case ModeCreateDescription, ModeEditDescription:
		return "enter:next  esc:cancel"
	case ModeCreateDate, ModeEditDate:
		return "format: yyyy-mm-dd  enter:save  esc:cancel"
	case ModeCreatePriority:
		return "l/m/h or empty  enter:save  esc:cancel"
	case ModeConfirmation:
		return "y/enter:yes  n/esc:no"
	case ModeMove:
		return "j/k:move  enter:drop  esc:cancel"
	case ModeBucketPicker:
		return "type to filter  enter:move  esc:cancel"
	}
	return "n:new  e:edit  d:date  p:priority  D:delete  m:move  M:move to  /:search  f:filter  ctrl+z:undo  ?:help"
}

func (m *InfoBarModel) renderFiltersLine() string {
	var parts []string
	if !m.Filter.DateFilter.IsZero() {
		parts = append(parts, "date:"+m.Filter.DateFilter.String())
	}
	if m.Filter.Priority != data.PriorityNone {
		parts = append(parts, "priority:"+string(m.Filter.Priority))
	}
	if len(parts) == 0 {
		return ""
	}
	return filterStyle.Render("Filters: " + strings.Join(parts, " "))
}

func (m *InfoBarModel) renderMessageLine() string {
	if m.Message != "" {
		return hintStyle.Render(m.Message)
	}
	if m.Filter.SearchInput != "" {
		return searchStyle.Render("Search: \"" + m.Filter.SearchInput + "\"")
	}
	return ""
}
