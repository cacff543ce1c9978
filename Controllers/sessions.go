package Controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"Taskforce/Models"
	"Taskforce/TaskEngine"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SessionHandler manages work sessions. A session is owned by its worker
// only; earnings are derived exactly once, at close.
type SessionHandler struct {
	DB      *gorm.DB
	Engine  *TaskEngine.Engine
	Locator TaskEngine.Locator
}

func NewSessionHandler(db *gorm.DB, engine *TaskEngine.Engine, locator TaskEngine.Locator) *SessionHandler {
	return &SessionHandler{
		DB:      db,
		Engine:  engine,
		Locator: locator,
	}
}

func (h *SessionHandler) worker(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals("user").(Models.User)
	return user, ok
}

// location tries the locator within its bounded timeout; with force the
// session proceeds without coordinates.
func (h *SessionHandler) location(c *fiber.Ctx) (string, error) {
	if h.Locator == nil {
		return "", nil
	}
	loc, err := h.Locator.Current(c.Context())
	if err != nil {
		if c.QueryBool("force") {
			log.Printf("Session proceeding without location: %v", err)
			return "", nil
		}
		return "", err
	}
	return loc, nil
}

// StartSession opens a work session. The partial unique index on
// work_sessions guarantees at most one open session per worker even if two
// devices race past the application-level check.
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	worker, ok := h.worker(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}

	var open Models.WorkSession
	if err := h.DB.Where("worker_id = ? AND end_time IS NULL", worker.ID).First(&open).Error; err == nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"message": "A session is already open",
			"session": open,
		})
	}

	loc, err := h.location(c)
	if err != nil {
		return c.Status(http.StatusPreconditionRequired).JSON(fiber.Map{
			"message":          "Could not acquire location",
			"confirm_required": true,
		})
	}

	session := Models.WorkSession{
		WorkerID:      worker.ID,
		StartTime:     time.Now(),
		StartLocation: loc,
	}
	if err := h.DB.Create(&session).Error; err != nil {
		// Unique index violation: a concurrent start won the race.
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"message": "A session is already open",
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Session started",
		"session": session,
	})
}

// EndSession closes the open session and computes its earnings, splitting
// the worked interval across calendar-day boundaries for tariff lookup.
func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	worker, ok := h.worker(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}

	var session Models.WorkSession
	if err := h.DB.Where("worker_id = ? AND end_time IS NULL", worker.ID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"message": "No open session",
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch session",
		})
	}

	loc, err := h.location(c)
	if err != nil {
		return c.Status(http.StatusPreconditionRequired).JSON(fiber.Map{
			"message":          "Could not acquire location",
			"confirm_required": true,
		})
	}

	now := time.Now()
	earnings, err := h.Engine.CalculateEarnings(worker.ID, session.StartTime, now)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to calculate earnings",
			"error":   err.Error(),
		})
	}

	session.EndTime = &now
	session.EndLocation = loc
	session.TotalHours = now.Sub(session.StartTime).Hours()
	session.Earnings = earnings.Total
	session.EarningsIncomplete = earnings.Incomplete
	if err := h.DB.Save(&session).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to close session",
		})
	}

	if earnings.Incomplete {
		log.Printf("Session %d closed with missing tariff rates on %v; flagged for review",
			session.ID, earnings.MissingDates)
	}

	return c.JSON(fiber.Map{
		"message":  "Session closed",
		"session":  session,
		"earnings": earnings,
	})
}

// GetActiveSession returns the worker's open session, if any.
func (h *SessionHandler) GetActiveSession(c *fiber.Ctx) error {
	worker, ok := h.worker(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}

	var session Models.WorkSession
	if err := h.DB.Where("worker_id = ? AND end_time IS NULL", worker.ID).First(&session).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "No open session",
		})
	}
	return c.JSON(session)
}

// GetSessions lists a worker's closed sessions in a date range.
func (h *SessionHandler) GetSessions(c *fiber.Ctx) error {
	worker, ok := h.worker(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}

	query := h.DB.Where("worker_id = ?", worker.ID)
	if from := c.Query("from"); from != "" {
		query = query.Where("start_time >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("start_time <= ?", to)
	}

	var sessions []Models.WorkSession
	if err := query.Order("start_time DESC").Find(&sessions).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch sessions",
		})
	}
	return c.JSON(sessions)
}
