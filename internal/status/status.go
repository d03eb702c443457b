package status

import "buildstatus/internal/build"

// Status receives build lifecycle events. Times are milliseconds since the
// build started. Messages passed to Info, Warning and Error are already
// formatted.
type Status interface {
	PlanHasTotalEdges(total int)
	BuildStarted()
	BuildEdgeStarted(edge *build.Edge, startMillis int64)
	BuildEdgeFinished(edge *build.Edge, endMillis int64, result *build.Result)
	BuildFinished()
	Info(message string)
	Warning(message string)
	Error(message string)
}

var (
	_ Status = (*Stream)(nil)
	_ Status = (*Printer)(nil)
)
