package Notifications

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"Taskforce/Models"
	"Taskforce/TaskEngine"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot posts manager alerts into the approval chat and feeds decider
// callbacks back into the approval workflow. All Telegram payload parsing
// ends here; the engine only ever sees the normalized Decision.
type TelegramBot struct {
	api           *tgbotapi.BotAPI
	managerChatID int64
	engine        *TaskEngine.Engine
}

func NewTelegramBot(token string, managerChatID int64, engine *TaskEngine.Engine) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	log.Printf("Telegram bot authorized as @%s", api.Self.UserName)
	return &TelegramBot{
		api:           api,
		managerChatID: managerChatID,
		engine:        engine,
	}, nil
}

// SendManagerAlert posts the submission summary with inline decision buttons.
func (b *TelegramBot) SendManagerAlert(n TaskEngine.ManagerNotification) error {
	msg := tgbotapi.NewMessage(b.managerChatID, managerText(n))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("approve:%d", n.TaskID)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Return", fmt.Sprintf("return:%d", n.TaskID)),
			tgbotapi.NewInlineKeyboardButtonData("📷 More photos", fmt.Sprintf("photos:%d", n.TaskID)),
		),
	)
	_, err := b.api.Send(msg)
	return err
}

// Listen consumes bot updates until the process exits. Run in a goroutine.
func (b *TelegramBot) Listen() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range b.api.GetUpdatesChan(u) {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message != nil && update.Message.IsCommand() {
			b.handleCommand(update.Message)
		}
	}
}

// handleCallback processes the inline button presses. A return needs a
// comment, so the button only prompts for the /return command.
func (b *TelegramBot) handleCallback(cb *tgbotapi.CallbackQuery) {
	action, taskID, err := parseCallbackData(cb.Data)
	if err != nil {
		b.answerCallback(cb.ID, "Unrecognized action")
		return
	}

	decider, err := b.deciderByTelegramID(cb.From.ID)
	if err != nil {
		b.answerCallback(cb.ID, "Your Telegram account is not linked to a manager profile")
		return
	}

	switch action {
	case "approve":
		b.decide(cb.ID, TaskEngine.Decision{
			TaskID:    taskID,
			Action:    TaskEngine.ActionApprove,
			DeciderID: decider.ID,
		})
	case "photos":
		b.decide(cb.ID, TaskEngine.Decision{
			TaskID:    taskID,
			Action:    TaskEngine.ActionRequestPhotos,
			DeciderID: decider.ID,
		})
	case "return":
		b.answerCallback(cb.ID, fmt.Sprintf("Reply with /return %d <reason> to return this task", taskID))
	default:
		b.answerCallback(cb.ID, "Unrecognized action")
	}
}

// handleCommand processes "/return <taskID> <comment>".
func (b *TelegramBot) handleCommand(msg *tgbotapi.Message) {
	if msg.Command() != "return" {
		return
	}

	decider, err := b.deciderByTelegramID(msg.From.ID)
	if err != nil {
		b.reply(msg.Chat.ID, "Your Telegram account is not linked to a manager profile")
		return
	}

	args := strings.SplitN(strings.TrimSpace(msg.CommandArguments()), " ", 2)
	if len(args) < 2 {
		b.reply(msg.Chat.ID, "Usage: /return <task id> <reason>")
		return
	}
	taskID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		b.reply(msg.Chat.ID, "Usage: /return <task id> <reason>")
		return
	}

	_, err = b.engine.ProcessApproval(TaskEngine.Decision{
		TaskID:    uint(taskID),
		Action:    TaskEngine.ActionReturn,
		DeciderID: decider.ID,
		Comment:   args[1],
	})
	b.reply(msg.Chat.ID, decisionResultText(err))
}

func (b *TelegramBot) decide(callbackID string, d TaskEngine.Decision) {
	_, err := b.engine.ProcessApproval(d)
	b.answerCallback(callbackID, decisionResultText(err))
}

func decisionResultText(err error) string {
	switch {
	case err == nil:
		return "Decision recorded"
	case errors.Is(err, TaskEngine.ErrStaleApprovalTarget):
		return "Already processed by another decider"
	case errors.Is(err, TaskEngine.ErrCommentRequired):
		return "A reason is required to return a task"
	default:
		var photoErr *TaskEngine.PhotoRequirementError
		if errors.As(err, &photoErr) {
			return "Cannot approve: evidence requirements are no longer met"
		}
		log.Printf("Approval via Telegram failed: %v", err)
		return "Failed to record decision"
	}
}

func (b *TelegramBot) deciderByTelegramID(telegramID int64) (*Models.User, error) {
	var user Models.User
	if err := Models.DB.Where("telegram_id = ? AND permission >= 3", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func parseCallbackData(data string) (action string, taskID uint, err error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed callback data: %q", data)
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("malformed task id in callback data: %q", data)
	}
	return parts[0], uint(id), nil
}

func (b *TelegramBot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("Failed to answer Telegram callback: %v", err)
	}
}

func (b *TelegramBot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send Telegram reply: %v", err)
	}
}
