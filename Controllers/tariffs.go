package Controllers

import (
	"net/http"
	"time"

	"Taskforce/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TariffHandler manages tariff rates and the holiday calendar.
type TariffHandler struct {
	DB *gorm.DB
}

func NewTariffHandler(db *gorm.DB) *TariffHandler {
	return &TariffHandler{DB: db}
}

type CreateRateRequest struct {
	WorkerID      uint    `json:"worker_id" validate:"required"`
	DayClass      string  `json:"day_class" validate:"required,oneof=weekday weekend holiday"`
	RatePerMinute float64 `json:"rate_per_minute" validate:"required,gt=0"`
	ValidFrom     string  `json:"valid_from" validate:"required"`
	ValidTo       string  `json:"valid_to"`
}

func (h *TariffHandler) CreateRate(c *fiber.Ctx) error {
	var req CreateRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "valid_from must be YYYY-MM-DD",
		})
	}

	rate := Models.TariffRate{
		WorkerID:      req.WorkerID,
		DayClass:      req.DayClass,
		RatePerMinute: req.RatePerMinute,
		ValidFrom:     validFrom,
	}
	if req.ValidTo != "" {
		validTo, err := time.Parse("2006-01-02", req.ValidTo)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"message": "valid_to must be YYYY-MM-DD",
			})
		}
		if validTo.Before(validFrom) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"message": "valid_to must not precede valid_from",
			})
		}
		rate.ValidTo = &validTo
	}

	if err := h.DB.Create(&rate).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create rate",
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Rate created successfully",
		"rate":    rate,
	})
}

func (h *TariffHandler) GetWorkerRates(c *fiber.Ctx) error {
	var rates []Models.TariffRate
	if err := h.DB.Where("worker_id = ?", c.Params("workerId")).Order("valid_from DESC").Find(&rates).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch rates",
		})
	}
	return c.JSON(rates)
}

func (h *TariffHandler) DeleteRate(c *fiber.Ctx) error {
	result := h.DB.Delete(&Models.TariffRate{}, c.Params("id"))
	if result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete rate",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Rate not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Rate deleted successfully",
	})
}

type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name"`
}

func (h *TariffHandler) CreateHoliday(c *fiber.Ctx) error {
	var req CreateHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "date must be YYYY-MM-DD",
		})
	}

	holiday := Models.Holiday{Date: req.Date, Name: req.Name}
	if err := h.DB.Create(&holiday).Error; err != nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"message": "Holiday already exists or could not be created",
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Holiday created successfully",
		"holiday": holiday,
	})
}

func (h *TariffHandler) GetHolidays(c *fiber.Ctx) error {
	var holidays []Models.Holiday
	if err := h.DB.Order("date ASC").Find(&holidays).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch holidays",
		})
	}
	return c.JSON(holidays)
}

func (h *TariffHandler) DeleteHoliday(c *fiber.Ctx) error {
	result := h.DB.Where("date = ?", c.Params("date")).Delete(&Models.Holiday{})
	if result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete holiday",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Holiday not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Holiday deleted successfully",
	})
}
