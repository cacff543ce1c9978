package TaskEngine

import (
	"strings"

	"Taskforce/Models"
)

// Decision actions as delivered by the chat platform callback or the HTTP
// approval endpoint. Payload parsing down to this normalized form is the
// collaborator's concern.
const (
	ActionApprove       = "approve"
	ActionReturn        = "return"
	ActionRequestPhotos = "request_photos"
)

type Decision struct {
	TaskID    uint   `json:"task_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=approve return request_photos"`
	DeciderID uint   `json:"decider_id"`
	Comment   string `json:"comment"`
}

var decisionEvents = map[string]Event{
	ActionApprove:       EventApprove,
	ActionReturn:        EventReturn,
	ActionRequestPhotos: EventRequestPhotos,
}

var decisionOutcomes = map[string]string{
	ActionApprove:       "approved",
	ActionReturn:        "returned",
	ActionRequestPhotos: "photos_requested",
}

// ProcessApproval routes an external decision into the lifecycle. Any task
// that already left awaiting_approval fails with ErrStaleApprovalTarget —
// reported to the decider as "already processed", never silently dropped.
func (e *Engine) ProcessApproval(d Decision) (*Models.Task, error) {
	ev, ok := decisionEvents[d.Action]
	if !ok {
		return nil, &TransitionError{Event: Event(d.Action)}
	}

	task, err := e.Tasks.GetTask(d.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != Models.StatusAwaitingApproval {
		return nil, ErrStaleApprovalTarget
	}

	now := e.now()
	updates := map[string]interface{}{}

	switch ev {
	case EventApprove:
		// Approving without evidence must be impossible even if the worker
		// mutated photos after submission; the gate is load-bearing here too.
		if err := e.checkGate(task); err != nil {
			return nil, err
		}
		updates["status"] = Models.StatusCompleted
		updates["approved_at"] = now
		updates["approved_by_id"] = d.DeciderID
	case EventReturn:
		if strings.TrimSpace(d.Comment) == "" {
			return nil, ErrCommentRequired
		}
		updates["status"] = Models.StatusReturned
		updates["returned_at"] = now
		updates["revision_comment"] = d.Comment
	case EventRequestPhotos:
		updates["status"] = Models.StatusAwaitingPhotos
		if strings.TrimSpace(d.Comment) != "" {
			updates["revision_comment"] = d.Comment
		}
	}

	ok, err = e.Tasks.CommitTransition(d.TaskID, Models.StatusAwaitingApproval, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against another decider.
		return nil, ErrStaleApprovalTarget
	}

	if err := e.Tasks.RecordDecision(&Models.ApprovalDecision{
		TaskID:    d.TaskID,
		Outcome:   decisionOutcomes[d.Action],
		Comment:   d.Comment,
		DeciderID: d.DeciderID,
		DecidedAt: now,
	}); err != nil {
		return nil, err
	}

	if e.Notifier != nil {
		e.Notifier.NotifyWorker(WorkerNotification{
			TaskID:    task.ID,
			WorkerID:  task.AssignedWorkerID,
			TaskTitle: task.Title,
			Outcome:   decisionOutcomes[d.Action],
			Comment:   d.Comment,
		})
	}

	return e.Tasks.GetTask(d.TaskID)
}
