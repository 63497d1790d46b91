package statemachine

import (
	"context"
	"fmt"
	"slices"
)

// State names a node of the machine.
type State string

// Event names an edge trigger.
type Event string

// Transition moves the machine from From to To when Event fires.
type Transition struct {
	From  State
	Event Event
	To    State
}

// Hook runs after a transition is selected and before it is applied.
// A non-nil error keeps the run in its current state.
type Hook func(ctx context.Context, from, to State, event Event) error

// Option configures a Definition.
type Option func(*Definition)

// WithHook appends a hook invoked on every transition.
func WithHook(h Hook) Option {
	return func(d *Definition) {
		if h != nil {
			d.hooks = append(d.hooks, h)
		}
	}
}

type edge struct {
	from  State
	event Event
}

// Definition is an immutable transition table.
type Definition struct {
	initial State
	edges   map[edge]State
	hooks   []Hook
}

// Define validates the transitions and returns a Definition starting at initial.
func Define(initial State, transitions []Transition, opts ...Option) (*Definition, error) {
	if initial == "" {
		return nil, fmt.Errorf("%w: empty initial state", ErrInvalidTransition)
	}

	d := &Definition{
		initial: initial,
		edges:   make(map[edge]State, len(transitions)),
	}
	for _, t := range transitions {
		if t.From == "" || t.Event == "" || t.To == "" {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidTransition, t)
		}
		key := edge{from: t.From, event: t.Event}
		if to, ok := d.edges[key]; ok && to != t.To {
			return nil, fmt.Errorf("%w: %s --%s--> {%s, %s}", ErrAmbiguousEvent, t.From, t.Event, to, t.To)
		}
		d.edges[key] = t.To
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(initial State, transitions []Transition, opts ...Option) *Definition {
	d, err := Define(initial, transitions, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Initial returns the starting state.
func (d *Definition) Initial() State { return d.initial }

// Target returns the state event leads to from, if any.
func (d *Definition) Target(from State, event Event) (State, bool) {
	to, ok := d.edges[edge{from: from, event: event}]
	return to, ok
}

// Terminal reports whether no event leaves s.
func (d *Definition) Terminal(s State) bool {
	for e := range d.edges {
		if e.from == s {
			return false
		}
	}
	return true
}

// Start begins a new run at the initial state.
func (d *Definition) Start() *Run {
	return &Run{def: d, current: d.initial, history: []State{d.initial}}
}

// Run is one traversal of a Definition. It is not safe for concurrent use.
type Run struct {
	def     *Definition
	current State
	history []State
}

// Current returns the state the run is in.
func (r *Run) Current() State { return r.current }

// Can reports whether event is accepted in the current state.
func (r *Run) Can(event Event) bool {
	_, ok := r.def.Target(r.current, event)
	return ok
}

// Terminal reports whether the run reached a state with no outgoing transitions.
func (r *Run) Terminal() bool { return r.def.Terminal(r.current) }

// History returns the visited states in order, starting with the initial state.
func (r *Run) History() []State { return slices.Clone(r.history) }

// Fire applies event to the run.
func (r *Run) Fire(ctx context.Context, event Event) error {
	to, ok := r.def.Target(r.current, event)
	if !ok {
		return &ErrNoTransitionAvailable{State: r.current, Event: event}
	}
	for _, h := range r.def.hooks {
		if err := h(ctx, r.current, to, event); err != nil {
			return &ErrTransitionRejected{State: r.current, Event: event, Err: err}
		}
	}
	r.current = to
	r.history = append(r.history, to)
	return nil
}
