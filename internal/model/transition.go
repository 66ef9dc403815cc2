package model

// Precondition identifies the dependency check required before a status
// transition may be applied.
type Precondition int

const (
	// PrecondNone means the transition is unconditional.
	PrecondNone Precondition = iota
	// PrecondStart requires every blocking task to be completed.
	PrecondStart
	// PrecondReopen requires no dependent task to be in progress or completed.
	PrecondReopen
)

type statusPair struct {
	from Status
	to   Status
}

// transitions is the explicit status-transition policy table. Every
// (from, to) pair of distinct valid statuses has an entry; same-status
// "transitions" are no-ops and carry no precondition.
var transitions = map[statusPair]Precondition{
	{StatusPending, StatusInProgress}: PrecondStart,
	{StatusPending, StatusCompleted}:  PrecondStart,
	{StatusPending, StatusCancelled}:  PrecondNone,

	{StatusInProgress, StatusPending}:   PrecondNone,
	{StatusInProgress, StatusCompleted}: PrecondNone,
	{StatusInProgress, StatusCancelled}: PrecondNone,

	// Reopening a completed task can retroactively invalidate dependents
	// that assumed it was done.
	{StatusCompleted, StatusPending}:    PrecondReopen,
	{StatusCompleted, StatusInProgress}: PrecondReopen,
	{StatusCompleted, StatusCancelled}:  PrecondNone,

	{StatusCancelled, StatusPending}:    PrecondNone,
	{StatusCancelled, StatusInProgress}: PrecondStart,
	{StatusCancelled, StatusCompleted}:  PrecondStart,
}

// TransitionPrecondition returns the dependency precondition for moving a
// task from one status to another. The bool result is false when either
// status is unknown.
func TransitionPrecondition(from, to Status) (Precondition, bool) {
	if !from.IsValid() || !to.IsValid() {
		return PrecondNone, false
	}
	if from == to {
		return PrecondNone, true
	}
	p, ok := transitions[statusPair{from, to}]
	return p, ok
}
