package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"Taskforce/Models"

	"github.com/gofiber/fiber/v2"
)

// LogData contains the per-request information that gets logged.
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserID    interface{}   `json:"user_id,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// RequestLogger logs every request to the console and, when the logs
// directory is writable, appends JSON lines to logs/requests.log.
func RequestLogger() fiber.Handler {
	var fileLog *log.Logger
	if err := os.MkdirAll("logs", 0755); err == nil {
		if f, err := os.OpenFile("logs/requests.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			fileLog = log.New(f, "", 0)
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
		}
		if err != nil {
			data.Error = err.Error()
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
		}

		log.Printf("%s %s -> %d (%s)", data.Method, data.Path, data.Status, data.Latency)
		if fileLog != nil {
			if line, jsonErr := json.Marshal(data); jsonErr == nil {
				fileLog.Println(string(line))
			}
		}
		return err
	}
}
