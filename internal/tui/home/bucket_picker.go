package home

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"daylist/internal/tasks/data"
	"daylist/internal/tui/theme"
)

// pickerHorizon is how many days ahead the picker offers even when no bucket
// exists for them yet.
const pickerHorizon = 7

// BucketChoice is one destination offered by the picker.
type BucketChoice struct {
	Key   string
	Label string
}

// BucketPickerResultMsg is sent when a destination was chosen or the picker closed.
type BucketPickerResultMsg struct {
	Key       string
	Cancelled bool
}

// BucketPickerModel lets the user fuzzy-search a destination bucket.
type BucketPickerModel struct {
	choices  []BucketChoice
	filtered []int
	selected int
	input    textinput.Model
	title    string
	Width    int
}

// BucketChoices lists the date buckets a task can move to: the existing ones
// plus the next week of days, sorted by date. Expired is never offered.
func BucketChoices(existing []string, today data.Date, weekStart time.Weekday) []BucketChoice {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k == data.ExpiredKey || seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, k)
	}
	for i := 0; i < pickerHorizon; i++ {
		add(today.AddDays(i).String())
	}
	for _, k := range existing {
		add(k)
	}

	// Keys are yyyy-mm-dd, so string order is date order.
	sort.Strings(keys)
	out := make([]BucketChoice, len(keys))
	for i, k := range keys {
		label := DateLabel(k, today, weekStart)
		if label != k {
			label = k + "  " + label
		}
		out[i] = BucketChoice{Key: k, Label: label}
	}
	return out
}

func NewBucketPicker(title string, choices []BucketChoice) *BucketPickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 64
	ti.Width = 30
	ti.Focus()

	m := &BucketPickerModel{
		choices: choices,
		input:   ti,
		title:   title,
	}
	m.applyFilter()
	return m
}

func (m *BucketPickerModel) applyFilter() {
	query := m.input.Value()
	if query == "" {
		m.filtered = make([]int, len(m.choices))
		for i := range m.choices {
			m.filtered[i] = i
		}
	} else {
		labels := make([]string, len(m.choices))
		for i, c := range m.choices {
			labels[i] = c.Label
		}
		matches := fuzzy.Find(query, labels)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = max(0, len(m.filtered)-1)
	}
}

// Selected returns the highlighted choice.
func (m *BucketPickerModel) Selected() (BucketChoice, bool) {
	if len(m.filtered) == 0 {
		return BucketChoice{}, false
	}
	return m.choices[m.filtered[m.selected]], true
}

func (m *BucketPickerModel) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return BucketPickerResultMsg{Cancelled: true} }
	case "enter":
		choice, ok := m.Selected()
		if !ok {
			return nil
		}
		return func() tea.Msg { return BucketPickerResultMsg{Key: choice.Key} }
	case "down", "ctrl+n", "ctrl+j":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return nil
	case "up", "ctrl+p", "ctrl+k":
		if m.selected > 0 {
			m.selected--
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return cmd
}

func (m *BucketPickerModel) View() string {
	var b strings.Builder
	b.WriteString(theme.ModalTitle.Render(m.title) + "\n")
	b.WriteString(theme.Subtitle.Render("/") + m.input.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(theme.Muted.Render("No matching dates"))
	}
	for i, idx := range m.filtered {
		line := m.choices[idx].Label
		if i == m.selected {
			b.WriteString(theme.Cursor.Render("> ") + theme.Selected.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + theme.ModalHelp.Render("↑/↓:navigate  enter:move  esc:cancel"))

	return lipgloss.NewStyle().Width(m.Width).Render(theme.ModalBox.Render(b.String()))
}
