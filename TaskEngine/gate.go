package TaskEngine

import (
	"Taskforce/Models"
)

const defaultPhotoMinimum = 2

// GateResult is the outcome of the evidence check run before a task may be
// submitted for approval.
type GateResult struct {
	IsValid                  bool `json:"is_valid"`
	MissingBeforePhoto       bool `json:"missing_before_photo"`
	MissingPhotoCount        int  `json:"missing_photo_count"`
	IncompleteChecklistCount int  `json:"incomplete_checklist_count"`
}

// effectivePhotoMinimum resolves task override, then task-type default,
// then the global default of 2.
func effectivePhotoMinimum(task *Models.Task, taskType *Models.TaskType) int {
	if task.PhotoMinimumOverride != nil {
		return *task.PhotoMinimumOverride
	}
	if taskType != nil && taskType.PhotoMinimum != nil {
		return *taskType.PhotoMinimum
	}
	return defaultPhotoMinimum
}

func effectiveRequiresBefore(task *Models.Task, taskType *Models.TaskType) bool {
	if task.RequiresBeforeOverride != nil {
		return *task.RequiresBeforeOverride
	}
	if taskType != nil && taskType.RequiresBeforePhotos != nil {
		return *taskType.RequiresBeforePhotos
	}
	return false
}

// ValidateEvidence checks photo count, the "before" photo requirement and
// checklist completion. It runs at worker-triggered submission and again,
// defensively, before an approval is accepted.
func ValidateEvidence(task *Models.Task, taskType *Models.TaskType, photos []Models.PhotoRecord, checklist []Models.ChecklistItem) GateResult {
	result := GateResult{}

	minimum := effectivePhotoMinimum(task, taskType)
	if len(photos) < minimum {
		result.MissingPhotoCount = minimum - len(photos)
	}

	if effectiveRequiresBefore(task, taskType) {
		hasBefore := false
		for _, p := range photos {
			if p.Kind == "before" {
				hasBefore = true
				break
			}
		}
		result.MissingBeforePhoto = !hasBefore
	}

	for _, item := range checklist {
		if !item.IsCompleted {
			result.IncompleteChecklistCount++
		}
	}

	result.IsValid = result.MissingPhotoCount == 0 &&
		!result.MissingBeforePhoto &&
		result.IncompleteChecklistCount == 0
	return result
}

// Err converts a failed gate result into the error surfaced to the worker.
// Returns nil for a valid result.
func (r GateResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &PhotoRequirementError{
		MissingBeforePhoto:       r.MissingBeforePhoto,
		MissingPhotoCount:        r.MissingPhotoCount,
		IncompleteChecklistCount: r.IncompleteChecklistCount,
	}
}
