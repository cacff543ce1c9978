package TaskEngine

import (
	"errors"
	"fmt"

	"Taskforce/Models"
)

var (
	// ErrInvalidTransition marks a requested status change outside the
	// transition graph, including CAS conflicts on worker-side writes.
	ErrInvalidTransition = errors.New("invalid task transition")

	// ErrStaleApprovalTarget means the task already left awaiting_approval
	// by the time a decision arrived; another decider acted first.
	ErrStaleApprovalTarget = errors.New("approval target already processed")

	// ErrLocationUnavailable is the only error with a built-in continue
	// path: the caller may retry the operation with force=true after the
	// operator confirms proceeding without a location.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrTariffNotFound means no rate covers a sub-interval. Earnings code
	// never fails on it; the affected contribution is zero and the result
	// is flagged incomplete.
	ErrTariffNotFound = errors.New("no applicable tariff rate")

	// ErrCommentRequired rejects a "returned" decision without a comment.
	ErrCommentRequired = errors.New("return decision requires a comment")
)

// TransitionError carries which (state, event) pair was rejected.
type TransitionError struct {
	From  Models.TaskStatus
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid task transition: %s from status %s", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PhotoRequirementError blocks a submission and carries what exactly is
// missing so the worker app can show it.
type PhotoRequirementError struct {
	MissingBeforePhoto       bool
	MissingPhotoCount        int
	IncompleteChecklistCount int
}

func (e *PhotoRequirementError) Error() string {
	return fmt.Sprintf("photo requirement not met: missing %d photo(s), missing before photo: %t, incomplete checklist items: %d",
		e.MissingPhotoCount, e.MissingBeforePhoto, e.IncompleteChecklistCount)
}
