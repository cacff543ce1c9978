package TaskEngine

import (
	"errors"
	"testing"
	"time"

	"Taskforce/Models"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestValidateEvidence_Valid(t *testing.T) {
	task := &Models.Task{}
	photos := []Models.PhotoRecord{
		{Kind: "before"},
		{Kind: "after"},
	}

	result := ValidateEvidence(task, nil, photos, nil)
	if !result.IsValid {
		t.Errorf("ValidateEvidence() = %+v, want valid", result)
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
}

// Task requiring 2 photos and a before photo, with one "after" photo
// uploaded: rejected with both the missing count and the before flag.
func TestValidateEvidence_MissingBeforeAndCount(t *testing.T) {
	task := &Models.Task{
		PhotoMinimumOverride:   intPtr(2),
		RequiresBeforeOverride: boolPtr(true),
	}
	photos := []Models.PhotoRecord{{Kind: "after"}}

	result := ValidateEvidence(task, nil, photos, nil)
	if result.IsValid {
		t.Fatal("ValidateEvidence() should be invalid")
	}
	if !result.MissingBeforePhoto {
		t.Error("MissingBeforePhoto = false, want true")
	}
	if result.MissingPhotoCount != 1 {
		t.Errorf("MissingPhotoCount = %d, want 1", result.MissingPhotoCount)
	}

	var photoErr *PhotoRequirementError
	if !errors.As(result.Err(), &photoErr) {
		t.Fatalf("Err() = %v, want *PhotoRequirementError", result.Err())
	}
	if !photoErr.MissingBeforePhoto || photoErr.MissingPhotoCount != 1 {
		t.Errorf("error detail = %+v", photoErr)
	}
}

func TestValidateEvidence_DefaultMinimumIsTwo(t *testing.T) {
	task := &Models.Task{}
	photos := []Models.PhotoRecord{{Kind: "after"}}

	result := ValidateEvidence(task, nil, photos, nil)
	if result.IsValid {
		t.Error("one photo should not satisfy the default minimum of 2")
	}
	if result.MissingPhotoCount != 1 {
		t.Errorf("MissingPhotoCount = %d, want 1", result.MissingPhotoCount)
	}
}

func TestValidateEvidence_TaskTypeDefaults(t *testing.T) {
	task := &Models.Task{}
	taskType := &Models.TaskType{
		PhotoMinimum:         intPtr(3),
		RequiresBeforePhotos: boolPtr(true),
	}
	photos := []Models.PhotoRecord{
		{Kind: "before"},
		{Kind: "after"},
		{Kind: "after"},
	}

	if result := ValidateEvidence(task, taskType, photos, nil); !result.IsValid {
		t.Errorf("ValidateEvidence() = %+v, want valid", result)
	}

	// Task-level override beats the type default.
	task.PhotoMinimumOverride = intPtr(4)
	if result := ValidateEvidence(task, taskType, photos, nil); result.IsValid {
		t.Error("task override of 4 should reject 3 photos")
	}
}

func TestValidateEvidence_ChecklistMustBeComplete(t *testing.T) {
	now := time.Now()
	task := &Models.Task{PhotoMinimumOverride: intPtr(0)}
	checklist := []Models.ChecklistItem{
		{Text: "Disconnect power", IsCompleted: true, CompletedAt: &now},
		{Text: "Test insulation"},
		{Text: "Photograph meter"},
	}

	result := ValidateEvidence(task, nil, nil, checklist)
	if result.IsValid {
		t.Fatal("incomplete checklist should fail the gate")
	}
	if result.IncompleteChecklistCount != 2 {
		t.Errorf("IncompleteChecklistCount = %d, want 2", result.IncompleteChecklistCount)
	}
}

func TestValidateEvidence_EmptyChecklistPasses(t *testing.T) {
	task := &Models.Task{PhotoMinimumOverride: intPtr(0)}
	if result := ValidateEvidence(task, nil, nil, nil); !result.IsValid {
		t.Errorf("ValidateEvidence() = %+v, want valid", result)
	}
}
