package Apis

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"time"

	"Taskforce/Models"
	"Taskforce/TaskEngine"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type EarningsHandler struct {
	DB     *gorm.DB
	Engine *TaskEngine.Engine
}

func NewEarningsHandler(db *gorm.DB, engine *TaskEngine.Engine) *EarningsHandler {
	return &EarningsHandler{DB: db, Engine: engine}
}

type EarningsRequest struct {
	WorkerID uint   `json:"worker_id"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// DailyEarningsStat aggregates one calendar day of closed sessions.
type DailyEarningsStat struct {
	Date         string  `json:"date"`
	SessionCount int     `json:"session_count"`
	TotalHours   float64 `json:"total_hours"`
	TotalAmount  float64 `json:"total_amount"`
}

type EarningsReport struct {
	WorkerID      uint                 `json:"worker_id"`
	WorkerName    string               `json:"worker_name"`
	TotalSessions int                  `json:"total_sessions"`
	TotalHours    float64              `json:"total_hours"`
	TotalEarnings float64              `json:"total_earnings"`
	HasIncomplete bool                 `json:"has_incomplete"`
	DailyStats    []DailyEarningsStat  `json:"daily_stats"`
	Sessions      []Models.WorkSession `json:"sessions"`
}

// resolveWorker defaults to the authenticated user; managers may query any
// worker by id.
func (h *EarningsHandler) resolveWorker(c *fiber.Ctx, requested uint) (*Models.User, error) {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return nil, fmt.Errorf("not logged in")
	}
	if requested == 0 || requested == user.ID {
		return &user, nil
	}
	if user.Permission < 3 {
		return nil, fmt.Errorf("insufficient permissions")
	}
	var worker Models.User
	if err := h.DB.First(&worker, requested).Error; err != nil {
		return nil, fmt.Errorf("worker not found")
	}
	return &worker, nil
}

// GetWorkerEarningsPreview is the live path: for the open session it shows
// what the close-out would pay right now. Cheap enough for the worker app
// to poll.
func (h *EarningsHandler) GetWorkerEarningsPreview(c *fiber.Ctx) error {
	var req EarningsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	worker, err := h.resolveWorker(c, req.WorkerID)
	if err != nil {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	var session Models.WorkSession
	if err := h.DB.Where("worker_id = ? AND end_time IS NULL", worker.ID).First(&session).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "No open session",
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

	return c.JSON(fiber.Map{
		"session_id":    session.ID,
		"start_time":    session.StartTime,
		"elapsed_hours": now.Sub(session.StartTime).Hours(),
		"earnings":      earnings,
	})
}

// GetWorkerEarnings builds the period report from closed sessions. Amounts
// were derived once at session close; this aggregates, it never recomputes.
func (h *EarningsHandler) GetWorkerEarnings(c *fiber.Ctx) error {
	var req EarningsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if req.FromDate == "" || req.ToDate == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Both from_date and to_date are required",
		})
	}

	worker, err := h.resolveWorker(c, req.WorkerID)
	if err != nil {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	report, err := h.buildReport(worker, req.FromDate, req.ToDate)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build earnings report",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Earnings report retrieved successfully",
		"report":  report,
	})
}

func (h *EarningsHandler) buildReport(worker *Models.User, fromDate, toDate string) (*EarningsReport, error) {
	var sessions []Models.WorkSession
	err := h.DB.Where("worker_id = ? AND end_time IS NOT NULL AND start_time >= ? AND start_time <= ?",
		worker.ID, fromDate, toDate+" 23:59:59").
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	report := &EarningsReport{
		WorkerID:   worker.ID,
		WorkerName: worker.Name,
		DailyStats: []DailyEarningsStat{},
		Sessions:   sessions,
	}

	dailyMap := make(map[string]DailyEarningsStat)
	for _, s := range sessions {
		report.TotalSessions++
		report.TotalHours += s.TotalHours
		report.TotalEarnings += s.Earnings
		if s.EarningsIncomplete {
			report.HasIncomplete = true
		}

		date := s.StartTime.Format("2006-01-02")
		stat := dailyMap[date]
		stat.Date = date
		stat.SessionCount++
		stat.TotalHours += s.TotalHours
		stat.TotalAmount += s.Earnings
		dailyMap[date] = stat
	}

	for _, stat := range dailyMap {
		report.DailyStats = append(report.DailyStats, stat)
	}
	sort.Slice(report.DailyStats, func(i, j int) bool {
		return report.DailyStats[i].Date < report.DailyStats[j].Date
	})

	// Display rounding only; stored amounts keep full precision.
	report.TotalHours = math.Round(report.TotalHours*100) / 100
	report.TotalEarnings = math.Round(report.TotalEarnings*100) / 100
	return report, nil
}

// ExportEarningsReport streams the period report as an Excel workbook.
func (h *EarningsHandler) ExportEarningsReport(c *fiber.Ctx) error {
	var req EarningsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if req.FromDate == "" || req.ToDate == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Both from_date and to_date are required",
		})
	}

	worker, err := h.resolveWorker(c, req.WorkerID)
	if err != nil {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	report, err := h.buildReport(worker, req.FromDate, req.ToDate)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build earnings report",
		})
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Println(err)
		}
	}()

	sheet := "Earnings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Start", "End", "Hours", "Earnings", "Incomplete"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	for _, s := range report.Sessions {
		endTime := ""
		if s.EndTime != nil {
			endTime = s.EndTime.Format("15:04")
		}
		values := []interface{}{
			s.StartTime.Format("2006-01-02"),
			s.StartTime.Format("15:04"),
			endTime,
			math.Round(s.TotalHours*100) / 100,
			math.Round(s.Earnings*100) / 100,
			s.EarningsIncomplete,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row+1), report.TotalHours)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row+1), report.TotalEarnings)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate report file",
		})
	}

	fileName := fmt.Sprintf("earnings_%d_%s_%s.xlsx", worker.ID, req.FromDate, req.ToDate)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Send(buf.Bytes())
}
