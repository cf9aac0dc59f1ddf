package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daylist/internal/tui/theme"
)

// HelpBind is one key and what it does.
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection is a titled group of binds.
type HelpSection struct {
	Title string
	Binds []HelpBind
}

var (
	helpKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	helpDescStyle = lipgloss.NewStyle().Foreground(theme.Text)
	helpColumnGap = lipgloss.NewStyle().PaddingRight(4)
)

func keyColumnWidth(sections []HelpSection) int {
	w := 0
	for _, s := range sections {
		for _, b := range s.Binds {
			w = max(w, lipgloss.Width(b.Key))
		}
	}
	return w + 2
}

func renderSection(s HelpSection, keyWidth int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.Title))
	for _, bind := range s.Binds {
		b.WriteString("\n  " + helpKeyStyle.Width(keyWidth).Render(bind.Key) + helpDescStyle.Render(bind.Desc))
	}
	return b.String()
}

// RenderHelpPopup renders the sections in a centered box. Sections are laid
// out side by side when the terminal is wide enough, stacked otherwise.
func RenderHelpPopup(title string, sections []HelpSection, width, height int) string {
	keyWidth := keyColumnWidth(sections)
	rendered := make([]string, len(sections))
	for i, s := range sections {
		rendered[i] = renderSection(s, keyWidth)
	}

	body := strings.Join(rendered, "\n\n")
	if len(rendered) > 1 {
		half := (len(rendered) + 1) / 2
		left := strings.Join(rendered[:half], "\n\n")
		right := strings.Join(rendered[half:], "\n\n")
		wide := lipgloss.JoinHorizontal(lipgloss.Top, helpColumnGap.Render(left), right)
		// border and padding of ModalBox
		if lipgloss.Width(wide)+6 <= width {
			body = wide
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(theme.Title.Render(title) + "\n\n")
	}
	b.WriteString(body)
	b.WriteString("\n\n" + theme.HelpHint.Render("Press any key to close"))

	box := theme.ModalBox.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
