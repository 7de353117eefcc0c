package discover

import (
	"github.com/felixgeelhaar/bolt/v3"
	"github.com/felixgeelhaar/statekit"
)

const (
	stateSearching statekit.StateID = "searching"
	stateExtending statekit.StateID = "extending"
	stateRefining  statekit.StateID = "refining"
	stateReporting statekit.StateID = "reporting"
	stateErasing   statekit.StateID = "erasing"
	stateStopped   statekit.StateID = "stopped"
)

const (
	eventExtend statekit.EventType = "EXTEND"
	eventRefine statekit.EventType = "REFINE"
	eventReport statekit.EventType = "REPORT"
	eventErase  statekit.EventType = "ERASE"
	eventSearch statekit.EventType = "SEARCH"
	eventStop   statekit.EventType = "STOP"
)

// machineContext is shared by the actions of the discovery machine.
type machineContext struct {
	log   *bolt.Logger
	motif int // motif being searched for, from 1

	// trail holds every state entered, in order.
	trail []statekit.StateID
}

func logEntry(ctx **machineContext, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).log == nil {
		return
	}
	(*ctx).log.Trace().Str("event", string(event.Type)).Int("motif", (*ctx).motif).Msg("entering state")
}

func recordTransition(ctx **machineContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx
	to, _ := event.Payload.(statekit.StateID)
	c.trail = append(c.trail, to)
	if to == stateSearching {
		c.motif++
	}
}

// newMachine builds the discovery loop. Every state can stop; searching
// goes to reporting directly when there is nothing to extend.
func newMachine() (*statekit.MachineConfig[*machineContext], error) {
	return statekit.NewMachine[*machineContext]("discover").
		WithInitial(stateSearching).
		WithContext(&machineContext{}).
		WithAction("logEntry", logEntry).
		WithAction("recordTransition", recordTransition).
		State(stateSearching).
		OnEntry("logEntry").
		On(eventExtend).Target(stateExtending).Do("recordTransition").
		On(eventReport).Target(stateReporting).Do("recordTransition").
		On(eventStop).Target(stateStopped).Do("recordTransition").
		Done().
		State(stateExtending).
		OnEntry("logEntry").
		On(eventRefine).Target(stateRefining).Do("recordTransition").
		On(eventReport).Target(stateReporting).Do("recordTransition").
		On(eventStop).Target(stateStopped).Do("recordTransition").
		Done().
		State(stateRefining).
		OnEntry("logEntry").
		On(eventReport).Target(stateReporting).Do("recordTransition").
		On(eventStop).Target(stateStopped).Do("recordTransition").
		Done().
		State(stateReporting).
		OnEntry("logEntry").
		On(eventErase).Target(stateErasing).Do("recordTransition").
		On(eventStop).Target(stateStopped).Do("recordTransition").
		Done().
		State(stateErasing).
		OnEntry("logEntry").
		On(eventSearch).Target(stateSearching).Do("recordTransition").
		On(eventStop).Target(stateStopped).Do("recordTransition").
		Done().
		State(stateStopped).
		Final().
		OnEntry("logEntry").
		Done().
		Build()
}

// target is the state an event leads to, carried as the event payload.
var target = map[statekit.EventType]statekit.StateID{
	eventExtend: stateExtending,
	eventRefine: stateRefining,
	eventReport: stateReporting,
	eventErase:  stateErasing,
	eventSearch: stateSearching,
	eventStop:   stateStopped,
}

func newEvent(t statekit.EventType) statekit.Event {
	return statekit.Event{Type: t, Payload: target[t]}
}
