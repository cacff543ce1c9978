package TaskEngine

import (
	"errors"
	"testing"
	"time"

	"Taskforce/Models"
)

func newApprovalStore() *fakeTaskStore {
	store := newStoreWithTask(Models.StatusAwaitingApproval)
	store.photos = twoPhotos()
	return store
}

func TestProcessApproval_Approve(t *testing.T) {
	store := newApprovalStore()
	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	e, notifier := newTestEngine(store, nil, at)

	task, err := e.ProcessApproval(Decision{TaskID: 1, Action: ActionApprove, DeciderID: 42})
	if err != nil {
		t.Fatalf("ProcessApproval: %v", err)
	}
	if task.Status != Models.StatusCompleted {
		t.Errorf("status = %s, want completed", task.Status)
	}
	if task.ApprovedAt == nil || !task.ApprovedAt.Equal(at) {
		t.Errorf("ApprovedAt = %v, want %v", task.ApprovedAt, at)
	}
	if task.ApprovedByID == nil || *task.ApprovedByID != 42 {
		t.Errorf("ApprovedByID = %v, want 42", task.ApprovedByID)
	}

	if len(store.decisions) != 1 {
		t.Fatalf("decisions = %d, want 1", len(store.decisions))
	}
	d := store.decisions[0]
	if d.TaskID != 1 || d.Outcome != "approved" || d.DeciderID != 42 {
		t.Errorf("decision = %+v", d)
	}

	if len(notifier.worker) != 1 {
		t.Fatalf("worker notifications = %d, want 1", len(notifier.worker))
	}
	n := notifier.worker[0]
	if n.WorkerID != 7 || n.Outcome != "approved" {
		t.Errorf("notification = %+v", n)
	}
}

func TestProcessApproval_Return(t *testing.T) {
	store := newApprovalStore()
	e, notifier := newTestEngine(store, nil, time.Now())

	task, err := e.ProcessApproval(Decision{
		TaskID:  1,
		Action:  ActionReturn,
		Comment: "Terminal block wired backwards, redo it",
	})
	if err != nil {
		t.Fatalf("ProcessApproval: %v", err)
	}
	if task.Status != Models.StatusReturned {
		t.Errorf("status = %s, want returned", task.Status)
	}
	if task.ReturnedAt == nil {
		t.Error("ReturnedAt not set")
	}
	if task.RevisionComment != "Terminal block wired backwards, redo it" {
		t.Errorf("RevisionComment = %q", task.RevisionComment)
	}
	if len(notifier.worker) != 1 || notifier.worker[0].Outcome != "returned" {
		t.Errorf("worker notifications = %+v", notifier.worker)
	}
}

func TestProcessApproval_ReturnRequiresComment(t *testing.T) {
	store := newApprovalStore()
	e, notifier := newTestEngine(store, nil, time.Now())

	_, err := e.ProcessApproval(Decision{TaskID: 1, Action: ActionReturn, Comment: "   "})
	if !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("err = %v, want ErrCommentRequired", err)
	}
	if store.task.Status != Models.StatusAwaitingApproval {
		t.Error("rejected decision must not change status")
	}
	if len(store.decisions) != 0 || len(notifier.worker) != 0 {
		t.Error("rejected decision must not record or notify")
	}
}

func TestProcessApproval_RequestPhotos(t *testing.T) {
	store := newApprovalStore()
	e, notifier := newTestEngine(store, nil, time.Now())

	task, err := e.ProcessApproval(Decision{
		TaskID:  1,
		Action:  ActionRequestPhotos,
		Comment: "Need a shot of the breaker panel",
	})
	if err != nil {
		t.Fatalf("ProcessApproval: %v", err)
	}
	if task.Status != Models.StatusAwaitingPhotos {
		t.Errorf("status = %s, want awaiting_photos", task.Status)
	}
	if len(store.decisions) != 1 || store.decisions[0].Outcome != "photos_requested" {
		t.Errorf("decisions = %+v", store.decisions)
	}
	if len(notifier.worker) != 1 || notifier.worker[0].Outcome != "photos_requested" {
		t.Errorf("worker notifications = %+v", notifier.worker)
	}
}

func TestProcessApproval_StaleWhenAlreadyDecided(t *testing.T) {
	store := newApprovalStore()
	e, _ := newTestEngine(store, nil, time.Now())

	if _, err := e.ProcessApproval(Decision{TaskID: 1, Action: ActionApprove, DeciderID: 42}); err != nil {
		t.Fatalf("first decision: %v", err)
	}

	_, err := e.ProcessApproval(Decision{TaskID: 1, Action: ActionApprove, DeciderID: 43})
	if !errors.Is(err, ErrStaleApprovalTarget) {
		t.Fatalf("err = %v, want ErrStaleApprovalTarget", err)
	}
	if *store.task.ApprovedByID != 42 {
		t.Error("second decider must not overwrite the first")
	}
	if len(store.decisions) != 1 {
		t.Errorf("decisions = %d, second decision must not be recorded", len(store.decisions))
	}
}

// Two deciders race: the second one loads the task while it still awaits
// approval, but the first one commits in between. The conditional write
// detects it; nothing from the loser lands.
func TestProcessApproval_DeciderRaceLosesCleanly(t *testing.T) {
	store := newApprovalStore()
	e, notifier := newTestEngine(store, nil, time.Now())

	winnerAt := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	store.commitHook = func(f *fakeTaskStore) {
		f.task.Status = Models.StatusReturned
		f.task.ReturnedAt = &winnerAt
		f.task.RevisionComment = "Redo the grounding"
	}

	_, err := e.ProcessApproval(Decision{TaskID: 1, Action: ActionApprove, DeciderID: 43})
	if !errors.Is(err, ErrStaleApprovalTarget) {
		t.Fatalf("err = %v, want ErrStaleApprovalTarget", err)
	}
	if store.task.Status != Models.StatusReturned {
		t.Errorf("status = %s, winner's decision must stand", store.task.Status)
	}
	if store.task.ApprovedByID != nil {
		t.Error("loser must not leave an approval mark")
	}
	if len(store.decisions) != 0 || len(notifier.worker) != 0 {
		t.Error("loser must not record a decision or notify")
	}
}

func TestProcessApproval_ApproveRechecksGate(t *testing.T) {
	store := newApprovalStore()
	// Photos were deleted after submission; the defensive gate run must
	// block the approval.
	store.photos = nil
	e, _ := newTestEngine(store, nil, time.Now())

	_, err := e.ProcessApproval(Decision{TaskID: 1, Action: ActionApprove, DeciderID: 42})
	var gateErr *PhotoRequirementError
	if !errors.As(err, &gateErr) {
		t.Fatalf("err = %v, want *PhotoRequirementError", err)
	}
	if store.task.Status != Models.StatusAwaitingApproval {
		t.Error("blocked approval must not change status")
	}
}

func TestProcessApproval_UnknownAction(t *testing.T) {
	store := newApprovalStore()
	e, _ := newTestEngine(store, nil, time.Now())

	_, err := e.ProcessApproval(Decision{TaskID: 1, Action: "escalate"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}
