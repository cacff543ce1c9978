package TaskEngine

import (
	"Taskforce/Models"
)

// Event is a requested change of a task's status.
type Event string

const (
	EventStart         Event = "start"
	EventPause         Event = "pause"
	EventResume        Event = "resume"
	EventSubmit        Event = "submit"
	EventResubmit      Event = "resubmit"
	EventApprove       Event = "approve"
	EventReturn        Event = "return"
	EventRequestPhotos Event = "request_photos"
)

// transitions is the full (state, event) -> state graph. Anything absent here
// is rejected, never coerced.
var transitions = map[Models.TaskStatus]map[Event]Models.TaskStatus{
	Models.StatusPending: {
		EventStart: Models.StatusInProgress,
	},
	Models.StatusInProgress: {
		EventPause:  Models.StatusPaused,
		EventSubmit: Models.StatusAwaitingApproval,
	},
	Models.StatusPaused: {
		EventResume: Models.StatusInProgress,
		// Completing while paused is tolerated; the pending pause segment is
		// flushed into the accumulator before the write.
		EventSubmit: Models.StatusAwaitingApproval,
	},
	Models.StatusAwaitingPhotos: {
		EventResubmit: Models.StatusAwaitingApproval,
	},
	Models.StatusAwaitingApproval: {
		EventApprove:       Models.StatusCompleted,
		EventReturn:        Models.StatusReturned,
		EventRequestPhotos: Models.StatusAwaitingPhotos,
	},
	Models.StatusReturned: {
		// The worker re-enters execution to address the revision comment.
		EventStart: Models.StatusInProgress,
	},
	// StatusCompleted is terminal.
}

// Next resolves the target status for an event, or fails with
// InvalidTransition when the event is not allowed from the current status.
func Next(from Models.TaskStatus, ev Event) (Models.TaskStatus, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return "", &TransitionError{From: from, Event: ev}
}
