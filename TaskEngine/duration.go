package TaskEngine

import (
	"time"

	"Taskforce/Models"
)

// Pure time arithmetic over {StartedAt, PausedAt, TotalPauseDurationSeconds,
// Status}. Nothing here mutates the task or touches storage; the same
// functions back both the per-second display tick and the authoritative
// accounting at resume/complete.

// EffectiveElapsed returns working seconds at reference instant at:
// (at - startedAt) - totalPauseDuration - the open pause segment if the task
// is currently paused. Never negative.
func EffectiveElapsed(task *Models.Task, at time.Time) int64 {
	if task.StartedAt == nil {
		return 0
	}
	elapsed := int64(at.Sub(*task.StartedAt).Seconds())
	elapsed -= task.TotalPauseDurationSeconds
	if task.Status == Models.StatusPaused && task.PausedAt != nil {
		elapsed -= int64(at.Sub(*task.PausedAt).Seconds())
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// AccumulatePause returns the pause total as it would be after closing the
// currently open pause segment at now. The task is not modified; callers
// persist the value through a conditional write.
func AccumulatePause(task *Models.Task, now time.Time) int64 {
	total := task.TotalPauseDurationSeconds
	if task.Status == Models.StatusPaused && task.PausedAt != nil {
		segment := int64(now.Sub(*task.PausedAt).Seconds())
		if segment > 0 {
			total += segment
		}
	}
	return total
}
