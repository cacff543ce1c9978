package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DayClassWeekday = "weekday"
	DayClassWeekend = "weekend"
	DayClassHoliday = "holiday"
)

// TariffRate is a per-minute rate for one worker and one day class. Several
// rates may cover the same date; the one with the latest ValidFrom wins.
type TariffRate struct {
	gorm.Model
	WorkerID      uint       `json:"worker_id" gorm:"index;not null"`
	DayClass      string     `json:"day_class" gorm:"type:varchar(10);not null"`
	RatePerMinute float64    `json:"rate_per_minute" gorm:"not null"`
	ValidFrom     time.Time  `json:"valid_from" gorm:"not null"`
	ValidTo       *time.Time `json:"valid_to"`
}

func (TariffRate) TableName() string {
	return "tariff_rates"
}

// Holiday overrides weekday/weekend classification for one calendar date.
// Date is stored as "2006-01-02".
type Holiday struct {
	gorm.Model
	Date string `json:"date" gorm:"type:varchar(10);uniqueIndex;not null"`
	Name string `json:"name"`
}
