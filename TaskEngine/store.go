package TaskEngine

import (
	"context"

	"Taskforce/Models"
)

// TaskStore is the persistence boundary of the lifecycle. CommitTransition
// is the only write path for task status and time fields: a conditional
// update that commits only if the persisted status still equals expected
// (UPDATE ... WHERE status = :expected). It reports false on conflict
// instead of overwriting, which is how worker/approver races are resolved.
type TaskStore interface {
	GetTask(id uint) (*Models.Task, error)
	TaskTypeOf(task *Models.Task) (*Models.TaskType, error)
	Photos(taskID uint) ([]Models.PhotoRecord, error)
	Checklist(taskID uint) ([]Models.ChecklistItem, error)
	Worker(id uint) (*Models.User, error)
	CommitTransition(taskID uint, expected Models.TaskStatus, updates map[string]interface{}) (bool, error)
	RecordDecision(decision *Models.ApprovalDecision) error
}

// RateStore supplies tariff data for earnings computation.
type RateStore interface {
	RatesFor(workerID uint) ([]Models.TariffRate, error)
	// HolidaySet returns flagged dates keyed by "2006-01-02".
	HolidaySet() (map[string]bool, error)
}

// Locator is the geolocation capability: bounded by the context deadline,
// returns a formatted "lat, lon" string.
type Locator interface {
	Current(ctx context.Context) (string, error)
}

// ManagerNotification is emitted when a task reaches awaiting_approval.
type ManagerNotification struct {
	TaskID         uint
	TaskTitle      string
	WorkerName     string
	PhotoPaths     []string
	ChecklistDone  int
	ChecklistTotal int
	Resubmission   bool
}

// WorkerNotification is emitted after an approval decision committed.
type WorkerNotification struct {
	TaskID    uint
	WorkerID  uint
	TaskTitle string
	Outcome   string
	Comment   string
}

// Notifier receives notification intents. Implementations must not block a
// transition; delivery failures are theirs to log and retry.
type Notifier interface {
	NotifyManager(n ManagerNotification)
	NotifyWorker(n WorkerNotification)
}
