package home

// InputMode is what the home view is currently reading keys for.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeFilterSelect
	ModeSearch
	ModeDateFilter
	ModeCreateDescription
	ModeCreateDate
	ModeCreatePriority
	ModeEditDescription
	ModeEditDate
	ModeConfirmation
	ModeMove
	ModeBucketPicker
)

func (m InputMode) String() string {
	switch m {
	case ModeFilterSelect:
		return "Filter"
	case ModeSearch:
		return "Search"
	case ModeDateFilter:
		return "Date filter"
	case ModeCreateDescription, ModeCreateDate, ModeCreatePriority:
		return "New task"
	case ModeEditDescription, ModeEditDate:
		return "Edit"
	case ModeConfirmation:
		return "Confirm"
	case ModeMove:
		return "Move"
	case ModeBucketPicker:
		return "Move to"
	}
	return "Normal"
}

// InputModeContext tracks the current mode and how we got there.
type InputModeContext struct {
	Mode    InputMode
	history []InputMode
}

func NewInputModeContext() InputModeContext {
	return InputModeContext{Mode: ModeNormal}
}

func (c *InputModeContext) TransitionTo(mode InputMode) {
	if c.Mode == mode {
		return
	}
	c.history = append(c.history, c.Mode)
	c.Mode = mode
}

// Back returns to the previous mode, or Normal when there is none.
func (c *InputModeContext) Back() {
	if len(c.history) == 0 {
		c.Mode = ModeNormal
		return
	}
	c.Mode = c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
}

func (c *InputModeContext) Reset() {
	c.Mode = ModeNormal
	c.history = nil
}

func (c InputModeContext) String() string {
	return c.Mode.String()
}
