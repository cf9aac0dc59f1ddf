package home

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"daylist/internal/tasks/data"
	"daylist/internal/tui/theme"
)

var (
	inputPromptStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
	inputErrorStyle  = lipgloss.NewStyle().Foreground(theme.Danger)
	inputBoxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Primary).Padding(0, 1)
)

// TextInputModel wraps bubbles/textinput with validation
type TextInputModel struct {
	Input     textinput.Model
	Prompt    string
	Validator func(string) error
	Error     string
	Width     int
}

// TextInputResultMsg is sent when input is confirmed or cancelled
type TextInputResultMsg struct {
	Value     string
	Cancelled bool
}

// NewTextInput creates a new text input component
func NewTextInput(prompt, placeholder string, validator func(string) error) *TextInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Focus()
	return &TextInputModel{
		Input:     ti,
		Prompt:    prompt,
		Validator: validator,
	}
}

// NewDateInput creates a text input configured for date entry
func NewDateInput(prompt string) *TextInputModel {
	return NewTextInput(prompt, "yyyy-mm-dd", ValidateDate)
}

// NewDateRangeInput creates a text input for a from..to range
func NewDateRangeInput(prompt string) *TextInputModel {
	return NewTextInput(prompt, "yyyy-mm-dd..yyyy-mm-dd", ValidateDateRange)
}

// NewPriorityInput creates a text input accepting low/medium/high or empty
func NewPriorityInput(prompt string) *TextInputModel {
	return NewTextInput(prompt, "low, medium, high or empty", ValidatePriority)
}

// Update handles a key and reports the result once confirmed or cancelled.
func (m *TextInputModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := m.Input.Value()
			if m.Validator != nil {
				if err := m.Validator(value); err != nil {
					m.Error = err.Error()
					return nil
				}
			}
			return func() tea.Msg {
				return TextInputResultMsg{Value: value}
			}
		case "esc":
			return func() tea.Msg {
				return TextInputResultMsg{Cancelled: true}
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.Error = ""
	return cmd
}

func (m *TextInputModel) View() string {
	content := inputPromptStyle.Render(m.Prompt+": ") + m.Input.View() + "\n"
	if m.Error != "" {
		content += inputErrorStyle.Render("Error: "+m.Error) + "\n"
	}
	content += theme.HelpHint.Render("[enter] confirm  [esc] cancel")
	return inputBoxStyle.Width(m.Width).Render(content)
}

func (m *TextInputModel) Value() string {
	return m.Input.Value()
}

func (m *TextInputModel) SetValue(v string) {
	m.Input.SetValue(v)
	m.Input.CursorEnd()
}

// SetWidth sets both the outer box and inner input widths
func (m *TextInputModel) SetWidth(w int) {
	if w <= 0 {
		return
	}
	// border (2) and padding (2)
	m.Width = w - 4
	m.Input.Width = m.Width - lipgloss.Width(m.Prompt+": ")
}

func (m *TextInputModel) Focus() tea.Cmd {
	return m.Input.Focus()
}

// ValidateDate accepts yyyy-mm-dd.
func ValidateDate(s string) error {
	_, err := data.ParseDate(s)
	return err
}

// ValidateDateRange accepts an empty string (clears the filter) or a range.
func ValidateDateRange(s string) error {
	if s == "" {
		return nil
	}
	_, err := data.ParseDateRange(s)
	return err
}

func ValidatePriority(s string) error {
	_, err := data.ParsePriority(s)
	return err
}
