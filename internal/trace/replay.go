package trace

import (
	"cmp"
	"slices"

	"buildstatus/internal/build"
	"buildstatus/internal/status"
)

type eventKind int

// Order of events that share a timestamp.
const (
	eventMessage eventKind = iota
	eventStart
	eventFinish
)

type event struct {
	at    int64
	kind  eventKind
	order uint64
	index int
}

// events returns every message and edge event in replay order.
func (tr *Trace) events() []event {
	events := make([]event, 0, len(tr.Messages)+2*len(tr.Edges))
	for i, msg := range tr.Messages {
		events = append(events, event{at: msg.AtMillis, kind: eventMessage, order: uint64(i), index: i})
	}
	for i, edge := range tr.Edges {
		events = append(events,
			event{at: edge.StartMillis, kind: eventStart, order: edge.ID, index: i},
			event{at: edge.EndMillis, kind: eventFinish, order: edge.ID, index: i},
		)
	}
	slices.SortStableFunc(events, func(a, b event) int {
		return cmp.Or(
			cmp.Compare(a.at, b.at),
			cmp.Compare(a.kind, b.kind),
			cmp.Compare(a.order, b.order),
		)
	})
	return events
}

// Replay drives s through the recorded build: the plan total, the build
// start, every message and edge event in time order, then the build end.
func Replay(tr *Trace, s status.Status) {
	edges := make([]*build.Edge, len(tr.Edges))
	for i, e := range tr.Edges {
		edges[i] = &build.Edge{
			ID:          e.ID,
			Inputs:      e.Inputs,
			Outputs:     e.Outputs,
			Description: e.Description,
			Command:     e.Command,
			UseConsole:  e.UseConsole,
		}
	}

	s.PlanHasTotalEdges(tr.TotalEdges)
	s.BuildStarted()
	for _, ev := range tr.events() {
		switch ev.kind {
		case eventMessage:
			msg := tr.Messages[ev.index]
			switch msg.Level {
			case "warning":
				s.Warning(msg.Text)
			case "error":
				s.Error(msg.Text)
			default:
				s.Info(msg.Text)
			}
		case eventStart:
			s.BuildEdgeStarted(edges[ev.index], ev.at)
		case eventFinish:
			e := tr.Edges[ev.index]
			s.BuildEdgeFinished(edges[ev.index], ev.at, &build.Result{ExitStatus: e.ExitStatus, Output: e.Output})
		}
	}
	s.BuildFinished()
}
