package dashboard

import (
	"errors"
	"fmt"
	"sync"
)

// Routine identifies one of the five fetch-and-render routines.
type Routine string

const (
	RoutineKPI         Routine = "kpi"
	RoutinePredictions Routine = "predictions"
	RoutineSchedule    Routine = "schedule"
	RoutineAnomalies   Routine = "anomalies"
	RoutineRanking     Routine = "ranking"
)

var Routines = []Routine{
	RoutineKPI,
	RoutinePredictions,
	RoutineSchedule,
	RoutineAnomalies,
	RoutineRanking,
}

type State int

const (
	NotStarted State = iota
	Loading
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid state transition")

// Cycle tracks the routines of one render pass. Rendered and Failed are final.
type Cycle struct {
	mu     sync.Mutex
	states map[Routine]State
	errs   map[Routine]error
}

func NewCycle() *Cycle {
	c := &Cycle{
		states: make(map[Routine]State, len(Routines)),
		errs:   make(map[Routine]error),
	}
	for _, r := range Routines {
		c.states[r] = NotStarted
	}
	return c
}

func (c *Cycle) advance(r Routine, to State, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.states[r]
	ok := (from == NotStarted && to == Loading) ||
		(from == Loading && (to == Rendered || to == Failed))
	if !ok {
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, r, from, to)
	}
	c.states[r] = to
	if to == Failed {
		c.errs[r] = cause
	}
	return nil
}

func (c *Cycle) State(r Routine) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[r]
}

// Err is the failure cause of a Failed routine.
func (c *Cycle) Err(r Routine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs[r]
}

// States returns a copy of the state table.
func (c *Cycle) States() map[Routine]State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Routine]State, len(c.states))
	for r, s := range c.states {
		out[r] = s
	}
	return out
}
