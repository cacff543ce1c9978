package Models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus is a closed set. Every change of status goes through the
// TaskEngine transition table; nothing writes these values directly.
type TaskStatus string

const (
	StatusPending          TaskStatus = "pending"
	StatusInProgress       TaskStatus = "in_progress"
	StatusPaused           TaskStatus = "paused"
	StatusAwaitingPhotos   TaskStatus = "awaiting_photos"
	StatusAwaitingApproval TaskStatus = "awaiting_approval"
	StatusCompleted        TaskStatus = "completed"
	StatusReturned         TaskStatus = "returned"
)

// TaskType carries per-category defaults for the evidence gate. Values are
// nullable so a task-level override can be distinguished from "use default".
type TaskType struct {
	gorm.Model
	Name                 string `json:"name" gorm:"uniqueIndex"`
	Description          string `json:"description"`
	PhotoMinimum         *int   `json:"photo_minimum"`
	RequiresBeforePhotos *bool  `json:"requires_before_photos"`
}

type Task struct {
	gorm.Model
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AssignedWorkerID uint       `json:"assigned_worker_id" gorm:"index"`
	TaskTypeID       *uint      `json:"task_type_id"`
	Status           TaskStatus `json:"status" gorm:"type:varchar(32);default:'pending';index"`

	// Time accounting. StartedAt is set exactly once and never cleared by
	// pause/resume. PausedAt is non-null iff Status == paused.
	StartedAt                 *time.Time `json:"started_at"`
	PausedAt                  *time.Time `json:"paused_at"`
	TotalPauseDurationSeconds int64      `json:"total_pause_duration_seconds" gorm:"default:0"`
	SubmittedAt               *time.Time `json:"submitted_at"`
	CompletedAt               *time.Time `json:"completed_at"`
	ApprovedAt                *time.Time `json:"approved_at"`
	ReturnedAt                *time.Time `json:"returned_at"`

	ApprovedByID    *uint  `json:"approved_by_id"`
	RevisionComment string `json:"revision_comment"`

	// Gate overrides. Nil means fall through to the task type default.
	PhotoMinimumOverride   *int  `json:"photo_minimum_override"`
	RequiresBeforeOverride *bool `json:"requires_before_override"`

	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`

	ChecklistItems []ChecklistItem `json:"checklist_items" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Photos         []PhotoRecord   `json:"photos" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (Task) TableName() string {
	return "tasks"
}

type ChecklistItem struct {
	gorm.Model
	TaskID      uint       `json:"task_id" gorm:"index;not null"`
	Text        string     `json:"text" gorm:"not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}

type PhotoRecord struct {
	gorm.Model
	TaskID     uint      `json:"task_id" gorm:"index;not null"`
	Kind       string    `json:"kind" gorm:"type:varchar(10);not null"` // "before" or "after"
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ApprovalDecision is the audit row written for every decision that actually
// committed. Conflicting (stale) decisions leave no row.
type ApprovalDecision struct {
	gorm.Model
	TaskID    uint      `json:"task_id" gorm:"index;not null"`
	Outcome   string    `json:"outcome" gorm:"type:varchar(20);not null"` // approved, returned, photos_requested
	Comment   string    `json:"comment" gorm:"type:text"`
	DeciderID uint      `json:"decider_id"`
	DecidedAt time.Time `json:"decided_at"`
}
