package Controllers

import (
	"net/http"

	"Taskforce/Models"
	"Taskforce/TaskEngine"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ApprovalHandler exposes the approval workflow over HTTP. The same
// normalized decision payload also arrives through the Telegram callback;
// both paths end in Engine.ProcessApproval.
type ApprovalHandler struct {
	DB     *gorm.DB
	Engine *TaskEngine.Engine
}

func NewApprovalHandler(db *gorm.DB, engine *TaskEngine.Engine) *ApprovalHandler {
	return &ApprovalHandler{
		DB:     db,
		Engine: engine,
	}
}

type ApprovalRequest struct {
	TaskID  uint   `json:"task_id" validate:"required"`
	Action  string `json:"action" validate:"required,oneof=approve return request_photos"`
	Comment string `json:"comment"`
}

// ProcessApproval handles POST /api/approvals. The decider is the
// authenticated user.
func (h *ApprovalHandler) ProcessApproval(c *fiber.Ctx) error {
	var req ApprovalRequest
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

	decider, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}

	task, err := h.Engine.ProcessApproval(TaskEngine.Decision{
		TaskID:    req.TaskID,
		Action:    req.Action,
		DeciderID: decider.ID,
		Comment:   req.Comment,
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Decision recorded",
		"task":    task,
	})
}

// GetDecisionHistory lists the committed decisions for a task.
func (h *ApprovalHandler) GetDecisionHistory(c *fiber.Ctx) error {
	var decisions []Models.ApprovalDecision
	if err := h.DB.Where("task_id = ?", c.Params("id")).Order("decided_at ASC").Find(&decisions).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch decisions",
		})
	}
	return c.JSON(decisions)
}

// GetPendingApprovals lists tasks currently waiting on a decision.
func (h *ApprovalHandler) GetPendingApprovals(c *fiber.Ctx) error {
	var tasks []Models.Task
	if err := h.DB.Where("status = ?", Models.StatusAwaitingApproval).Order("submitted_at ASC").Find(&tasks).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch pending approvals",
		})
	}
	return c.JSON(tasks)
}
