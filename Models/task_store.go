package Models

import (
	"gorm.io/gorm"
)

// GormTaskStore backs the lifecycle engine. All status/time writes flow
// through CommitTransition; there is deliberately no plain Save path for
// those columns.
type GormTaskStore struct {
	DB *gorm.DB
}

func NewTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{DB: db}
}

func (s *GormTaskStore) GetTask(id uint) (*Task, error) {
	var task Task
	if err := s.DB.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *GormTaskStore) TaskTypeOf(task *Task) (*TaskType, error) {
	if task.TaskTypeID == nil {
		return nil, nil
	}
	var taskType TaskType
	if err := s.DB.First(&taskType, *task.TaskTypeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &taskType, nil
}

func (s *GormTaskStore) Photos(taskID uint) ([]PhotoRecord, error) {
	var photos []PhotoRecord
	if err := s.DB.Where("task_id = ?", taskID).Order("uploaded_at ASC").Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (s *GormTaskStore) Checklist(taskID uint) ([]ChecklistItem, error) {
	var items []ChecklistItem
	if err := s.DB.Where("task_id = ?", taskID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormTaskStore) Worker(id uint) (*User, error) {
	var user User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CommitTransition is the optimistic-concurrency write: the update lands only
// if the row's status still equals expected, equivalent to
// UPDATE tasks SET ... WHERE id = ? AND status = ?. RowsAffected 0 means a
// concurrent actor moved the task first.
func (s *GormTaskStore) CommitTransition(taskID uint, expected TaskStatus, updates map[string]interface{}) (bool, error) {
	result := s.DB.Model(&Task{}).
		Where("id = ? AND status = ?", taskID, expected).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormTaskStore) RecordDecision(decision *ApprovalDecision) error {
	return s.DB.Create(decision).Error
}

// GormRateStore supplies tariff rates and the holiday calendar.
type GormRateStore struct {
	DB *gorm.DB
}

func NewRateStore(db *gorm.DB) *GormRateStore {
	return &GormRateStore{DB: db}
}

func (s *GormRateStore) RatesFor(workerID uint) ([]TariffRate, error) {
	var rates []TariffRate
	if err := s.DB.Where("worker_id = ?", workerID).Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *GormRateStore) HolidaySet() (map[string]bool, error) {
	var holidays []Holiday
	if err := s.DB.Find(&holidays).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h.Date] = true
	}
	return set, nil
}
