package shared

import (
	"strings"

	"daylist/internal/tasks/data"
	"daylist/internal/tui/theme"
)

// PriorityBadge renders a priority as a short coloured marker.
func PriorityBadge(p data.Priority) string {
	switch p {
	case data.PriorityLow:
		return theme.PriorityLow.Render("!")
	case data.PriorityMedium:
		return theme.PriorityMedium.Render("!!")
	case data.PriorityHigh:
		return theme.PriorityHigh.Render("!!!")
	}
	return ""
}

// StyledTaskLine renders a task on one line.
// Format: [x] description !!
func StyledTaskLine(t data.Task) string {
	var parts []string

	if t.Done {
		parts = append(parts, theme.Done.Render("[x]"))
	} else {
		parts = append(parts, "[ ]")
	}

	desc := data.PlainDescription(t.Description)
	if t.Done {
		desc = theme.Done.Render(desc)
	}
	parts = append(parts, desc)

	if badge := PriorityBadge(t.Priority); badge != "" {
		parts = append(parts, badge)
	}

	return strings.Join(parts, " ")
}
