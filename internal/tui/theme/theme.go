package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Color palette, ANSI 0-15
// ---------------------------------------------------------------------------

var (
	Text       = lipgloss.Color("7")
	TextMuted  = lipgloss.Color("8")
	TextBright = lipgloss.Color("15")

	Primary   = lipgloss.Color("4") // blue
	Secondary = lipgloss.Color("6") // cyan
	Accent    = lipgloss.Color("5") // magenta
	Success   = lipgloss.Color("2") // green
	Warning   = lipgloss.Color("3") // yellow
	Danger    = lipgloss.Color("1") // red
	Border    = lipgloss.Color("8") // dim
)

// ---------------------------------------------------------------------------
// Semantic text styles
// ---------------------------------------------------------------------------

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Muted    = lipgloss.NewStyle().Foreground(TextMuted)

	Error = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Ok    = lipgloss.NewStyle().Bold(true).Foreground(Success)

	Cursor   = lipgloss.NewStyle().Bold(true).Foreground(Success)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(Warning)

	Done = lipgloss.NewStyle().Foreground(TextMuted)
)

// ---------------------------------------------------------------------------
// Buckets and priorities
// ---------------------------------------------------------------------------

var (
	BucketHeading  = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	ExpiredHeading = lipgloss.NewStyle().Bold(true).Foreground(Warning)
	BucketDate     = lipgloss.NewStyle().Foreground(TextMuted)

	PriorityLow    = lipgloss.NewStyle().Foreground(Secondary)
	PriorityMedium = lipgloss.NewStyle().Bold(true).Foreground(Warning)
	PriorityHigh   = lipgloss.NewStyle().Bold(true).Foreground(Danger)

	Moving = lipgloss.NewStyle().Bold(true).Foreground(TextBright).Background(Primary)
)

// ---------------------------------------------------------------------------
// Toasts
// ---------------------------------------------------------------------------

var (
	toastBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MaxWidth(48)

	ToastInfo    = toastBase.BorderForeground(Primary)
	ToastSuccess = toastBase.BorderForeground(Success)
	ToastError   = toastBase.BorderForeground(Danger)
	ToastAction  = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
)

// ---------------------------------------------------------------------------
// Reusable component helpers
// ---------------------------------------------------------------------------

var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Warning)

	ModalHelp = lipgloss.NewStyle().Foreground(TextMuted)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	HelpHint = lipgloss.NewStyle().Foreground(TextMuted)

	NavActive = lipgloss.NewStyle().Bold(true).Foreground(Primary)
)
