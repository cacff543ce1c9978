package Controllers

import (
	"errors"
	"net/http"
	"time"

	"Taskforce/Models"
	"Taskforce/TaskEngine"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

// TaskHandler contains handler methods for task routes
type TaskHandler struct {
	DB     *gorm.DB
	Engine *TaskEngine.Engine
}

func NewTaskHandler(db *gorm.DB, engine *TaskEngine.Engine) *TaskHandler {
	return &TaskHandler{
		DB:     db,
		Engine: engine,
	}
}

// lifecycleError maps engine errors onto HTTP responses. Conflicts are 409,
// gate failures 422 with the missing-evidence detail, location failures 428
// so the client can confirm and retry with force=true.
func lifecycleError(c *fiber.Ctx, err error) error {
	var photoErr *TaskEngine.PhotoRequirementError
	switch {
	case errors.As(err, &photoErr):
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":                    "Photo requirements not met",
			"missing_before_photo":       photoErr.MissingBeforePhoto,
			"missing_photo_count":        photoErr.MissingPhotoCount,
			"incomplete_checklist_count": photoErr.IncompleteChecklistCount,
		})
	case errors.Is(err, TaskEngine.ErrLocationUnavailable):
		return c.Status(http.StatusPreconditionRequired).JSON(fiber.Map{
			"message":          "Could not acquire location",
			"confirm_required": true,
		})
	case errors.Is(err, TaskEngine.ErrStaleApprovalTarget):
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"message": "Task already processed by another decider",
		})
	case errors.Is(err, TaskEngine.ErrCommentRequired):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "A comment is required to return a task",
		})
	case errors.Is(err, TaskEngine.ErrInvalidTransition):
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"message": "Invalid task transition",
			"error":   err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Task not found",
		})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal error",
		"error":   err.Error(),
	})
}

type CreateTaskRequest struct {
	Title                  string   `json:"title" validate:"required"`
	Description            string   `json:"description"`
	AssignedWorkerID       uint     `json:"assigned_worker_id" validate:"required"`
	TaskTypeID             *uint    `json:"task_type_id"`
	PhotoMinimumOverride   *int     `json:"photo_minimum_override"`
	RequiresBeforeOverride *bool    `json:"requires_before_override"`
	ChecklistItems         []string `json:"checklist_items"`
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	task := Models.Task{
		Title:                  req.Title,
		Description:            req.Description,
		AssignedWorkerID:       req.AssignedWorkerID,
		TaskTypeID:             req.TaskTypeID,
		Status:                 Models.StatusPending,
		PhotoMinimumOverride:   req.PhotoMinimumOverride,
		RequiresBeforeOverride: req.RequiresBeforeOverride,
	}
	for _, text := range req.ChecklistItems {
		task.ChecklistItems = append(task.ChecklistItems, Models.ChecklistItem{Text: text})
	}

	if err := h.DB.Create(&task).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create task",
			"error":   err.Error(),
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *TaskHandler) GetAllTasks(c *fiber.Ctx) error {
	query := h.DB.Model(&Models.Task{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("assigned_worker_id = ?", workerID)
	}

	var tasks []Models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch tasks",
			"error":   err.Error(),
		})
	}
	return c.JSON(tasks)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	var task Models.Task
	if err := h.DB.Preload("ChecklistItems").Preload("Photos").First(&task, c.Params("id")).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Task not found",
		})
	}
	return c.JSON(task)
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	var task Models.Task
	if err := h.DB.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Task not found",
		})
	}
	if err := h.DB.Delete(&task).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete task",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}

func (h *TaskHandler) taskID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid task id")
	}
	return uint(id), nil
}

// force=true confirms proceeding without a location after a 428 response.
func (h *TaskHandler) StartTask(c *fiber.Ctx) error {
	id, err := h.taskID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	task, err := h.Engine.Start(c.Context(), id, c.QueryBool("force"))
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Task started",
		"task":    task,
	})
}

func (h *TaskHandler) PauseTask(c *fiber.Ctx) error {
	id, err := h.taskID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	task, err := h.Engine.Pause(id)
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Task paused",
		"task":    task,
	})
}

func (h *TaskHandler) ResumeTask(c *fiber.Ctx) error {
	id, err := h.taskID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	task, err := h.Engine.Resume(id)
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Task resumed",
		"task":    task,
	})
}

func (h *TaskHandler) SubmitTask(c *fiber.Ctx) error {
	id, err := h.taskID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	task, err := h.Engine.Submit(c.Context(), id, c.QueryBool("force"))
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Task submitted for approval",
		"task":    task,
	})
}

// GetElapsed is the cheap display path, polled every second by the worker app.
func (h *TaskHandler) GetElapsed(c *fiber.Ctx) error {
	id, err := h.taskID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	seconds, err := h.Engine.LiveElapsed(id)
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(fiber.Map{
		"task_id":         id,
		"elapsed_seconds": seconds,
	})
}

type ToggleChecklistRequest struct {
	IsCompleted bool `json:"is_completed"`
}

func (h *TaskHandler) ToggleChecklistItem(c *fiber.Ctx) error {
	var req ToggleChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	var item Models.ChecklistItem
	if err := h.DB.Where("task_id = ? AND id = ?", c.Params("id"), c.Params("itemId")).First(&item).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Checklist item not found",
		})
	}

	item.IsCompleted = req.IsCompleted
	if req.IsCompleted {
		now := time.Now()
		item.CompletedAt = &now
	} else {
		item.CompletedAt = nil
	}
	if err := h.DB.Save(&item).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update checklist item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Checklist item updated",
		"item":    item,
	})
}
