package Models

import (
	"time"

	"gorm.io/gorm"
)

// WorkSession is owned and mutated only by its worker. At most one open
// session (end_time IS NULL) may exist per worker; see
// SetupWorkSessionIndexes.
type WorkSession struct {
	gorm.Model
	WorkerID      uint       `json:"worker_id" gorm:"index;not null"`
	StartTime     time.Time  `json:"start_time" gorm:"not null"`
	EndTime       *time.Time `json:"end_time"`
	StartLocation string     `json:"start_location"`
	EndLocation   string     `json:"end_location"`

	// Derived at close, written exactly once.
	TotalHours         float64 `json:"total_hours"`
	Earnings           float64 `json:"earnings"`
	EarningsIncomplete bool    `json:"earnings_incomplete"`
}

func (WorkSession) TableName() string {
	return "work_sessions"
}

// SetupWorkSessionIndexes enforces the one-open-session invariant at the
// persistence boundary instead of trusting application logic.
func SetupWorkSessionIndexes(db *gorm.DB) error {
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_open_session_per_worker ON work_sessions (worker_id) WHERE end_time IS NULL AND deleted_at IS NULL").Error
}
