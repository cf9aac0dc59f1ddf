// Package alert holds the notification state of the UI and turns it into
// toasts. State changes go through a reducer with a fixed set of actions.
package alert

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDuration is how long a non-sticky toast stays on screen.
const DefaultDuration = 3000 * time.Millisecond

// Severity of an alert payload.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityDefault Severity = "default"
)

// Variant is the visual style of a toast.
type Variant int

const (
	VariantInfo Variant = iota
	VariantSuccess
	VariantError
)

func (v Variant) String() string {
	switch v {
	case VariantSuccess:
		return "success"
	case VariantError:
		return "error"
	}
	return "info"
}

// VariantFor maps a severity to its toast style. Unknown severities are info.
func VariantFor(s Severity) Variant {
	switch s {
	case SeveritySuccess:
		return VariantSuccess
	case SeverityError:
		return VariantError
	}
	return VariantInfo
}

// Payload is the content of an alert.
type Payload struct {
	Title       string
	Description string
	Severity    Severity
}

// Text is what a toast shows: the description, or the title when there is none.
func (p Payload) Text() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Title
}

// State is the alert visibility and content.
type State struct {
	IsOpen bool
	Data   Payload
}

// ActionType enumerates the reducer actions.
type ActionType int

const (
	ActionSetData ActionType = iota
	ActionSetVisibility
	ActionReset
	ActionTrigger
)

// Action is a reducer input.
type Action struct {
	Type    ActionType
	Data    Payload
	Visible bool
}

// Reduce returns the state after applying a. Unknown actions leave s unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionSetData:
		s.Data = a.Data
	case ActionSetVisibility:
		s.IsOpen = a.Visible
	case ActionReset:
		s = State{}
	case ActionTrigger:
		s = State{IsOpen: true, Data: a.Data}
	}
	return s
}

// ToastAction is an optional action offered by a toast (e.g. undo).
type ToastAction struct {
	Label  string
	Key    string
	TaskID string
}

// Toast is one notification ready to render.
type Toast struct {
	ID       int64
	Variant  Variant
	Text     string
	Sticky   bool
	Duration time.Duration
	Action   *ToastAction
	Created  time.Time
}

func (t Toast) String() string {
	return fmt.Sprintf("toast#%d[%s] %s", t.ID, t.Variant, t.Text)
}

var toastSeq atomic.Int64

// NewToast builds a toast with a fresh id.
func NewToast(v Variant, text string, d time.Duration) Toast {
	return Toast{
		ID:       toastSeq.Add(1),
		Variant:  v,
		Text:     text,
		Duration: d,
		Created:  time.Now(),
	}
}

// Sink receives toasts.
type Sink interface {
	Show(Toast)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Toast)

func (f SinkFunc) Show(t Toast) { f(t) }

// Provider owns the alert state and emits exactly one toast for every state
// change that leaves the alert open.
type Provider struct {
	mu       sync.Mutex
	state    State
	sink     Sink
	duration time.Duration
}

// NewProvider creates a provider emitting to sink. A zero duration uses DefaultDuration.
func NewProvider(sink Sink, duration time.Duration) *Provider {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Provider{sink: sink, duration: duration}
}

// State returns the current alert state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Dispatch applies a to the state.
func (p *Provider) Dispatch(a Action) {
	p.dispatch(a, nil)
}

func (p *Provider) dispatch(a Action, decorate func(*Toast)) {
	p.mu.Lock()
	prev := p.state
	p.state = Reduce(p.state, a)
	next := p.state
	p.mu.Unlock()

	if next == prev && a.Type != ActionTrigger {
		return
	}
	if !next.IsOpen || p.sink == nil {
		return
	}
	t := NewToast(VariantFor(next.Data.Severity), next.Data.Text(), p.duration)
	if decorate != nil {
		decorate(&t)
	}
	p.sink.Show(t)
}

// TriggerAlert opens the alert with payload.
func (p *Provider) TriggerAlert(payload Payload) {
	p.Dispatch(Action{Type: ActionTrigger, Data: payload})
}

// TriggerWithAction opens the alert and attaches action to its toast. Sticky
// toasts stay until dismissed or acted upon.
func (p *Provider) TriggerWithAction(payload Payload, action ToastAction, sticky bool) {
	p.dispatch(Action{Type: ActionTrigger, Data: payload}, func(t *Toast) {
		t.Action = &action
		t.Sticky = sticky
	})
}

// CloseAlert hides the alert, keeping its data.
func (p *Provider) CloseAlert() {
	p.Dispatch(Action{Type: ActionSetVisibility, Visible: false})
}

// SetData replaces the alert content without changing visibility.
func (p *Provider) SetData(payload Payload) {
	p.Dispatch(Action{Type: ActionSetData, Data: payload})
}

// Reset closes the alert and clears its content.
func (p *Provider) Reset() {
	p.Dispatch(Action{Type: ActionReset})
}

// Success, Error and Info are shorthands for TriggerAlert.
func (p *Provider) Success(msg string) {
	p.TriggerAlert(Payload{Description: msg, Severity: SeveritySuccess})
}

func (p *Provider) Error(msg string) {
	p.TriggerAlert(Payload{Description: msg, Severity: SeverityError})
}

func (p *Provider) Info(msg string) {
	p.TriggerAlert(Payload{Description: msg, Severity: SeverityDefault})
}
