package Constants

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Loaded once at startup. Missing .env is fine in production where the
// environment is set by the service manager.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using process environment")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func ListenAddress() string {
	return getEnv("LISTEN_ADDRESS", ":3001")
}

// Empty means sqlite at SQLitePath.
func MySQLDSN() string {
	return os.Getenv("DB_DSN")
}

func SQLitePath() string {
	return getEnv("SQLITE_PATH", "database.db")
}

func JWTSecret() string {
	return getEnv("JWT_SECRET", "secret")
}

// Tracker service providing device positions, e.g. the GPS gateway the
// worker app reports through.
func TrackerServiceURL() string {
	return getEnv("TRACKER_SERVICE_URL", "http://localhost:5050")
}

func LocationTimeout() time.Duration {
	return time.Duration(getEnvInt("LOCATION_TIMEOUT_SECONDS", 5)) * time.Second
}

func TelegramBotToken() string {
	return os.Getenv("TELEGRAM_BOT_TOKEN")
}

// Chat the manager notifications are posted to.
func TelegramManagerChatID() int64 {
	if v := os.Getenv("TELEGRAM_MANAGER_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return id
		}
	}
	return 0
}

func SlackBotToken() string {
	return os.Getenv("SLACK_BOT_TOKEN")
}

func SlackManagerChannel() string {
	return getEnv("SLACK_MANAGER_CHANNEL", "#field-approvals")
}

func FirebaseCredentialsFile() string {
	return getEnv("FIREBASE_CREDENTIALS_FILE", "./serviceAccountKey.json")
}

func PhotoStorageDir() string {
	return getEnv("PHOTO_STORAGE_DIR", "TaskPhotos")
}

// Tasks waiting for a decision longer than this get a reminder ping.
func ApprovalReminderAge() time.Duration {
	return time.Duration(getEnvInt("APPROVAL_REMINDER_MINUTES", 120)) * time.Minute
}
