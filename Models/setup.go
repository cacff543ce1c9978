package Models

import (
	"log"

	"Taskforce/Constants"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	var err error
	if dsn := Constants.MySQLDSN(); dsn != "" {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(Constants.SQLitePath()), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// 1. Base models with no dependencies
	if err := DB.AutoMigrate(
		&User{},
		&TaskType{},
		&Holiday{},
		&FCMToken{},
	); err != nil {
		log.Println(err)
	}

	// 2. Models keyed on workers
	if err := DB.AutoMigrate(
		&TariffRate{},
		&WorkSession{},
	); err != nil {
		log.Println(err)
	}

	// 3. Task and its children
	if err := DB.AutoMigrate(
		&Task{},
		&ChecklistItem{},
		&PhotoRecord{},
		&ApprovalDecision{},
	); err != nil {
		log.Println(err)
	}

	if err := SetupWorkSessionIndexes(DB); err != nil {
		log.Printf("Error creating work session index: %v", err)
	}
}
