package shared

import "strings"

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// CenterWithBottomHints renders content vertically centered in the available
// height, with hint text pinned to the very bottom line.
func CenterWithBottomHints(content, hints string, height int) string {
	contentLines := splitLines(content)
	hintLines := splitLines(hints)

	gap := height - len(contentLines) - len(hintLines)
	if gap <= 0 {
		return strings.Join(append(contentLines, hintLines...), "\n")
	}

	topPad := gap / 2
	lines := make([]string, 0, height)
	lines = append(lines, make([]string, topPad)...)
	lines = append(lines, contentLines...)
	lines = append(lines, make([]string, gap-topPad)...)
	lines = append(lines, hintLines...)
	return strings.Join(lines, "\n")
}

// TopWithBottomHints renders content from the top of the available height and
// pins hints to the bottom. Content that does not fit is cut from the end.
func TopWithBottomHints(content, hints string, height int) string {
	contentLines := splitLines(content)
	hintLines := splitLines(hints)

	room := height - len(hintLines)
	if room < 0 {
		room = 0
	}
	if len(contentLines) > room {
		contentLines = contentLines[:room]
	}

	lines := make([]string, 0, height)
	lines = append(lines, contentLines...)
	for len(lines) < room {
		lines = append(lines, "")
	}
	lines = append(lines, hintLines...)
	return strings.Join(lines, "\n")
}

// Window returns the slice of lines of length at most size that keeps focus
// visible. focus < 0 shows the top.
func Window(lines []string, focus, size int) []string {
	if size <= 0 || len(lines) <= size {
		return lines
	}
	start := 0
	if focus >= size {
		start = focus - size + 1
	}
	if start+size > len(lines) {
		start = len(lines) - size
	}
	return lines[start : start+size]
}
