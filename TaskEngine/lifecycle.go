package TaskEngine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"Taskforce/Models"
)

// Engine drives tasks through their lifecycle. It holds no state of its own;
// every transition is a single conditional write against the store, so two
// uncoordinated actors (worker device, remote approver) can never overwrite
// each other.
type Engine struct {
	Tasks    TaskStore
	Rates    RateStore
	Notifier Notifier
	Locator  Locator

	now func() time.Time
}

func NewEngine(tasks TaskStore, rates RateStore, notifier Notifier, locator Locator) *Engine {
	return &Engine{
		Tasks:    tasks,
		Rates:    rates,
		Notifier: notifier,
		Locator:  locator,
		now:      time.Now,
	}
}

// captureLocation asks the locator for the current position within its
// bounded timeout. A failure is soft: with force the transition proceeds
// without a location, otherwise the caller gets ErrLocationUnavailable and
// retries after operator confirmation.
func (e *Engine) captureLocation(ctx context.Context, force bool) (string, error) {
	if e.Locator == nil {
		return "", nil
	}
	loc, err := e.Locator.Current(ctx)
	if err != nil {
		if force {
			log.Printf("Proceeding without location: %v", err)
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	return loc, nil
}

// commit performs the compare-and-set write and maps a conflict to the
// rejection error for the assumed status.
func (e *Engine) commit(taskID uint, expected Models.TaskStatus, ev Event, updates map[string]interface{}) error {
	ok, err := e.Tasks.CommitTransition(taskID, expected, updates)
	if err != nil {
		return err
	}
	if !ok {
		return &TransitionError{From: expected, Event: ev}
	}
	return nil
}

// Start moves a pending task into execution, or re-enters execution on a
// returned task. StartedAt is written exactly once; re-entry never resets it.
func (e *Engine) Start(ctx context.Context, taskID uint, force bool) (*Models.Task, error) {
	task, err := e.Tasks.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if _, err := Next(task.Status, EventStart); err != nil {
		return nil, err
	}

	now := e.now()
	updates := map[string]interface{}{
		"status": Models.StatusInProgress,
	}
	if task.StartedAt == nil {
		loc, err := e.captureLocation(ctx, force)
		if err != nil {
			return nil, err
		}
		updates["started_at"] = now
		updates["start_location"] = loc
	}

	if err := e.commit(taskID, task.Status, EventStart, updates); err != nil {
		return nil, err
	}
	return e.Tasks.GetTask(taskID)
}

// Pause suspends the clock. PausedAt marks the start of the open segment.
func (e *Engine) Pause(taskID uint) (*Models.Task, error) {
	task, err := e.Tasks.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if _, err := Next(task.Status, EventPause); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":    Models.StatusPaused,
		"paused_at": e.now(),
	}
	if err := e.commit(taskID, task.Status, EventPause, updates); err != nil {
		return nil, err
	}
	return e.Tasks.GetTask(taskID)
}

// Resume closes the open pause segment into the accumulator. The new total
// is computed from the loaded row and committed conditionally on the status
// still being paused, so a concurrent write can never produce a blind
// increment.
func (e *Engine) Resume(taskID uint) (*Models.Task, error) {
	task, err := e.Tasks.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if _, err := Next(task.Status, EventResume); err != nil {
		return nil, err
	}

	newTotal := AccumulatePause(task, e.now())
	updates := map[string]interface{}{
		"status":                       Models.StatusInProgress,
		"paused_at":                    nil,
		"total_pause_duration_seconds": newTotal,
	}
	if err := e.commit(taskID, task.Status, EventResume, updates); err != nil {
		return nil, err
	}
	return e.Tasks.GetTask(taskID)
}

// Submit gates the task on evidentiary completeness and hands it to the
// approver. From awaiting_photos this is the worker's resubmission after a
// photos-requested decision; the gate is re-checked either way.
func (e *Engine) Submit(ctx context.Context, taskID uint, force bool) (*Models.Task, error) {
	task, err := e.Tasks.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	ev := EventSubmit
	if task.Status == Models.StatusAwaitingPhotos {
		ev = EventResubmit
	}
	if _, err := Next(task.Status, ev); err != nil {
		return nil, err
	}

	if err := e.checkGate(task); err != nil {
		return nil, err
	}

	now := e.now()
	updates := map[string]interface{}{
		"status":       Models.StatusAwaitingApproval,
		"submitted_at": now,
	}
	if task.CompletedAt == nil {
		updates["completed_at"] = now
	}
	if task.Status == Models.StatusPaused {
		// Completing while paused: flush the pending segment first so the
		// accumulator stays the sum of all completed pause segments.
		updates["total_pause_duration_seconds"] = AccumulatePause(task, now)
		updates["paused_at"] = nil
	}
	if ev == EventSubmit {
		loc, err := e.captureLocation(ctx, force)
		if err != nil {
			return nil, err
		}
		updates["end_location"] = loc
	}

	if err := e.commit(taskID, task.Status, ev, updates); err != nil {
		return nil, err
	}

	e.notifyManager(task, ev == EventResubmit)
	return e.Tasks.GetTask(taskID)
}

func (e *Engine) checkGate(task *Models.Task) error {
	taskType, err := e.Tasks.TaskTypeOf(task)
	if err != nil {
		return err
	}
	photos, err := e.Tasks.Photos(task.ID)
	if err != nil {
		return err
	}
	checklist, err := e.Tasks.Checklist(task.ID)
	if err != nil {
		return err
	}
	return ValidateEvidence(task, taskType, photos, checklist).Err()
}

func (e *Engine) notifyManager(task *Models.Task, resubmission bool) {
	if e.Notifier == nil {
		return
	}

	workerName := ""
	if worker, err := e.Tasks.Worker(task.AssignedWorkerID); err == nil {
		workerName = worker.Name
	}

	var photoPaths []string
	if photos, err := e.Tasks.Photos(task.ID); err == nil {
		for _, p := range photos {
			photoPaths = append(photoPaths, p.FilePath)
		}
	}

	done, total := 0, 0
	if checklist, err := e.Tasks.Checklist(task.ID); err == nil {
		total = len(checklist)
		for _, item := range checklist {
			if item.IsCompleted {
				done++
			}
		}
	}

	e.Notifier.NotifyManager(ManagerNotification{
		TaskID:         task.ID,
		TaskTitle:      task.Title,
		WorkerName:     workerName,
		PhotoPaths:     photoPaths,
		ChecklistDone:  done,
		ChecklistTotal: total,
		Resubmission:   resubmission,
	})
}

// LiveElapsed is the cheap display path: effective elapsed seconds at now,
// safe to call every second.
func (e *Engine) LiveElapsed(taskID uint) (int64, error) {
	task, err := e.Tasks.GetTask(taskID)
	if err != nil {
		return 0, err
	}
	return EffectiveElapsed(task, e.now()), nil
}

// FinalElapsed is the authoritative accounting value for a finished task,
// computed at CompletedAt.
func FinalElapsed(task *Models.Task) int64 {
	if task.CompletedAt == nil {
		return 0
	}
	return EffectiveElapsed(task, *task.CompletedAt)
}

// IsConflict reports whether err is one of the two optimistic-concurrency
// rejections.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrStaleApprovalTarget)
}
