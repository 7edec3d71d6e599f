package domain

import "time"

type TransitionKind string

const (
	TransitionFinalize   TransitionKind = "finalize"
	TransitionReschedule TransitionKind = "reschedule"
	TransitionClamp      TransitionKind = "clamp"
)

func (k TransitionKind) String() string {
	return string(k)
}

// Transition is the state a reminder moves to after a delivery attempt.
// NextNotifyAt is zero for TransitionFinalize.
type Transition struct {
	Kind         TransitionKind
	NextNotifyAt time.Time
}

func (t Transition) IsFinal() bool {
	return t.Kind == TransitionFinalize
}

// NextTransition decides what happens to the reminder once its current
// occurrence has been delivered. Rules are evaluated in order:
//
//  1. not repeating: finalize
//  2. notifyAt+interval <= dueDate: reschedule to notifyAt+interval
//  3. notifyAt < dueDate: clamp to dueDate for one final on-deadline push
//  4. otherwise: finalize
func (r *Reminder) NextTransition() Transition {
	if !r.IsRepeating() {
		return Transition{Kind: TransitionFinalize}
	}

	current := r.NotifyAt
	due := r.DueDate

	// Compared in minutes so an interval too large for a Duration still clamps.
	if due.Sub(current).Minutes() >= r.RepeatIntervalMinutes {
		return Transition{Kind: TransitionReschedule, NextNotifyAt: current.Add(r.RepeatInterval())}
	}

	if current.Before(due) {
		return Transition{Kind: TransitionClamp, NextNotifyAt: due}
	}

	return Transition{Kind: TransitionFinalize}
}
