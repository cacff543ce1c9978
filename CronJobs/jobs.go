package CronJobs

import (
	"fmt"
	"log"
	"time"

	"Taskforce/Constants"
	"Taskforce/Models"
	"Taskforce/Notifications"
	"Taskforce/TaskEngine"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the background maintenance jobs: approval reminders and the
// nightly sweep of work sessions left open past midnight.
type Scheduler struct {
	cronScheduler *cron.Cron
	engine        *TaskEngine.Engine
	dispatcher    *Notifications.Dispatcher
	reminderAge   time.Duration
}

func NewScheduler(engine *TaskEngine.Engine, dispatcher *Notifications.Dispatcher) *Scheduler {
	return &Scheduler{
		cronScheduler: cron.New(cron.WithSeconds()),
		engine:        engine,
		dispatcher:    dispatcher,
		reminderAge:   Constants.ApprovalReminderAge(),
	}
}

func (s *Scheduler) Start() error {
	// Every 30 minutes: re-ping managers about stale approvals.
	if _, err := s.cronScheduler.AddFunc("0 */30 * * * *", func() {
		s.remindPendingApprovals()
	}); err != nil {
		return fmt.Errorf("error scheduling approval reminder: %w", err)
	}

	// Daily at 00:05: close sessions forgotten open overnight.
	if _, err := s.cronScheduler.AddFunc("0 5 0 * * *", func() {
		s.sweepOpenSessions()
	}); err != nil {
		return fmt.Errorf("error scheduling session sweep: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Background job scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Background job scheduler stopped")
	}
}

// remindPendingApprovals re-notifies managers of tasks that have been sitting
// in awaiting_approval longer than the configured age.
func (s *Scheduler) remindPendingApprovals() {
	cutoff := time.Now().Add(-s.reminderAge)

	var tasks []Models.Task
	if err := Models.DB.Where("status = ? AND submitted_at < ?", Models.StatusAwaitingApproval, cutoff).
		Find(&tasks).Error; err != nil {
		log.Printf("Approval reminder query failed: %v", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	log.Printf("Reminding managers about %d stale approval(s)", len(tasks))
	for _, task := range tasks {
		workerName := ""
		var worker Models.User
		if err := Models.DB.First(&worker, task.AssignedWorkerID).Error; err == nil {
			workerName = worker.Name
		}
		s.dispatcher.NotifyManager(TaskEngine.ManagerNotification{
			TaskID:     task.ID,
			TaskTitle:  fmt.Sprintf("[reminder] %s", task.Title),
			WorkerName: workerName,
		})
	}
}

// sweepOpenSessions closes any session still open from a previous day at the
// midnight boundary, deriving its earnings the same way a normal close does.
func (s *Scheduler) sweepOpenSessions() {
	midnight := time.Now().Truncate(24 * time.Hour)

	var sessions []Models.WorkSession
	if err := Models.DB.Where("end_time IS NULL AND start_time < ?", midnight).Find(&sessions).Error; err != nil {
		log.Printf("Session sweep query failed: %v", err)
		return
	}

	for _, session := range sessions {
		closeAt := time.Date(
			session.StartTime.Year(), session.StartTime.Month(), session.StartTime.Day()+1,
			0, 0, 0, 0, session.StartTime.Location())

		earnings, err := s.engine.CalculateEarnings(session.WorkerID, session.StartTime, closeAt)
		if err != nil {
			log.Printf("Session sweep: earnings for session %d failed: %v", session.ID, err)
			continue
		}

		session.EndTime = &closeAt
		session.TotalHours = closeAt.Sub(session.StartTime).Hours()
		session.Earnings = earnings.Total
		session.EarningsIncomplete = earnings.Incomplete
		if err := Models.DB.Save(&session).Error; err != nil {
			log.Printf("Session sweep: failed to close session %d: %v", session.ID, err)
			continue
		}
		log.Printf("Auto-closed session %d for worker %d at midnight", session.ID, session.WorkerID)
	}
}
