package Models

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &TaskType{}, &Task{}, &ChecklistItem{}, &PhotoRecord{}, &ApprovalDecision{}, &WorkSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := SetupWorkSessionIndexes(db); err != nil {
		t.Fatalf("session index: %v", err)
	}
	return db
}

func TestCommitTransition_CAS(t *testing.T) {
	db := openTestDB(t)
	store := NewTaskStore(db)

	task := Task{Title: "Install meter", AssignedWorkerID: 1, Status: StatusPending}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now()
	ok, err := store.CommitTransition(task.ID, StatusPending, map[string]interface{}{
		"status":     StatusInProgress,
		"started_at": now,
	})
	if err != nil || !ok {
		t.Fatalf("commit from pending: ok=%t err=%v", ok, err)
	}

	// The row moved; the same expectation must now miss.
	ok, err = store.CommitTransition(task.ID, StatusPending, map[string]interface{}{
		"status": StatusInProgress,
	})
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if ok {
		t.Fatal("commit with a stale expected status must affect zero rows")
	}

	got, err := store.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Status != StatusInProgress || got.StartedAt == nil {
		t.Errorf("task = status %s startedAt %v", got.Status, got.StartedAt)
	}
}

func TestOpenSessionIndex_OnePerWorker(t *testing.T) {
	db := openTestDB(t)

	first := WorkSession{WorkerID: 5, StartTime: time.Now()}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first open session: %v", err)
	}

	second := WorkSession{WorkerID: 5, StartTime: time.Now()}
	if err := db.Create(&second).Error; err == nil {
		t.Fatal("second open session for the same worker must violate the unique index")
	}

	// Other workers are unaffected.
	other := WorkSession{WorkerID: 6, StartTime: time.Now()}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("open session for another worker: %v", err)
	}

	// Closing the first session frees the slot.
	end := time.Now()
	if err := db.Model(&first).Update("end_time", end).Error; err != nil {
		t.Fatalf("close session: %v", err)
	}
	third := WorkSession{WorkerID: 5, StartTime: time.Now()}
	if err := db.Create(&third).Error; err != nil {
		t.Fatalf("new session after close: %v", err)
	}
}

func TestTaskStore_ChildRecords(t *testing.T) {
	db := openTestDB(t)
	store := NewTaskStore(db)

	task := Task{Title: "Swap fuse box", AssignedWorkerID: 2, Status: StatusInProgress}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	db.Create(&PhotoRecord{TaskID: task.ID, Kind: "before", FilePath: "a.jpg", UploadedAt: time.Now()})
	db.Create(&PhotoRecord{TaskID: task.ID, Kind: "after", FilePath: "b.jpg", UploadedAt: time.Now().Add(time.Minute)})
	db.Create(&ChecklistItem{TaskID: task.ID, Text: "Cut power", IsCompleted: true})

	photos, err := store.Photos(task.ID)
	if err != nil || len(photos) != 2 {
		t.Fatalf("photos = %d err=%v, want 2", len(photos), err)
	}
	if photos[0].Kind != "before" {
		t.Errorf("photos not ordered by upload time: %+v", photos)
	}

	items, err := store.Checklist(task.ID)
	if err != nil || len(items) != 1 {
		t.Fatalf("checklist = %d err=%v, want 1", len(items), err)
	}
}
