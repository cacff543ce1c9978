package TaskEngine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Taskforce/Models"
)

// fakeTaskStore implements TaskStore in memory with real compare-and-set
// semantics, so conflict behavior can be exercised without a database.
type fakeTaskStore struct {
	task      *Models.Task
	taskType  *Models.TaskType
	photos    []Models.PhotoRecord
	checklist []Models.ChecklistItem
	worker    Models.User
	decisions []Models.ApprovalDecision

	// commitHook runs once at the start of the next CommitTransition,
	// before the status check. Used to simulate a concurrent actor
	// sneaking in between load and commit.
	commitHook func(f *fakeTaskStore)
}

var errNotFound = errors.New("record not found")

func testCtx() context.Context {
	return context.Background()
}

func (f *fakeTaskStore) GetTask(id uint) (*Models.Task, error) {
	if f.task == nil || f.task.ID != id {
		return nil, errNotFound
	}
	task := *f.task
	return &task, nil
}

func (f *fakeTaskStore) TaskTypeOf(task *Models.Task) (*Models.TaskType, error) {
	return f.taskType, nil
}

func (f *fakeTaskStore) Photos(taskID uint) ([]Models.PhotoRecord, error) {
	return f.photos, nil
}

func (f *fakeTaskStore) Checklist(taskID uint) ([]Models.ChecklistItem, error) {
	return f.checklist, nil
}

func (f *fakeTaskStore) Worker(id uint) (*Models.User, error) {
	worker := f.worker
	return &worker, nil
}

func (f *fakeTaskStore) CommitTransition(taskID uint, expected Models.TaskStatus, updates map[string]interface{}) (bool, error) {
	if f.commitHook != nil {
		hook := f.commitHook
		f.commitHook = nil
		hook(f)
	}
	if f.task == nil || f.task.ID != taskID || f.task.Status != expected {
		return false, nil
	}
	for col, v := range updates {
		switch col {
		case "status":
			f.task.Status = v.(Models.TaskStatus)
		case "started_at":
			t := v.(time.Time)
			f.task.StartedAt = &t
		case "paused_at":
			if v == nil {
				f.task.PausedAt = nil
			} else {
				t := v.(time.Time)
				f.task.PausedAt = &t
			}
		case "total_pause_duration_seconds":
			f.task.TotalPauseDurationSeconds = v.(int64)
		case "submitted_at":
			t := v.(time.Time)
			f.task.SubmittedAt = &t
		case "completed_at":
			t := v.(time.Time)
			f.task.CompletedAt = &t
		case "approved_at":
			t := v.(time.Time)
			f.task.ApprovedAt = &t
		case "returned_at":
			t := v.(time.Time)
			f.task.ReturnedAt = &t
		case "approved_by_id":
			id := v.(uint)
			f.task.ApprovedByID = &id
		case "revision_comment":
			f.task.RevisionComment = v.(string)
		case "start_location":
			f.task.StartLocation = v.(string)
		case "end_location":
			f.task.EndLocation = v.(string)
		default:
			return false, fmt.Errorf("unexpected update column %q", col)
		}
	}
	return true, nil
}

func (f *fakeTaskStore) RecordDecision(decision *Models.ApprovalDecision) error {
	f.decisions = append(f.decisions, *decision)
	return nil
}

type fakeRateStore struct {
	rates    []Models.TariffRate
	holidays map[string]bool
}

func (f *fakeRateStore) RatesFor(workerID uint) ([]Models.TariffRate, error) {
	return f.rates, nil
}

func (f *fakeRateStore) HolidaySet() (map[string]bool, error) {
	if f.holidays == nil {
		return map[string]bool{}, nil
	}
	return f.holidays, nil
}

type fakeLocator struct {
	location string
	err      error
}

func (f *fakeLocator) Current(ctx context.Context) (string, error) {
	return f.location, f.err
}

type recordingNotifier struct {
	manager []ManagerNotification
	worker  []WorkerNotification
}

func (r *recordingNotifier) NotifyManager(n ManagerNotification) {
	r.manager = append(r.manager, n)
}

func (r *recordingNotifier) NotifyWorker(n WorkerNotification) {
	r.worker = append(r.worker, n)
}

// newTestEngine wires an engine over the fakes with a fixed clock; tests
// advance time by reassigning e.now.
func newTestEngine(store *fakeTaskStore, rates *fakeRateStore, at time.Time) (*Engine, *recordingNotifier) {
	notifier := &recordingNotifier{}
	if rates == nil {
		rates = &fakeRateStore{}
	}
	e := NewEngine(store, rates, notifier, &fakeLocator{location: "55.751244, 37.618423"})
	e.now = func() time.Time { return at }
	return e, notifier
}

func newStoreWithTask(status Models.TaskStatus) *fakeTaskStore {
	store := &fakeTaskStore{
		task: &Models.Task{
			Title:            "Replace junction box",
			AssignedWorkerID: 7,
			Status:           status,
		},
		worker: Models.User{Name: "Pavel"},
	}
	store.task.ID = 1
	return store
}
