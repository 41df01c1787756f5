// Package bot delivers due-review reminders through Telegram.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/vocabmaster/internal/scheduler"
)

// MenuButton represents a button under a message
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// ReminderButtons returns the buttons attached to a reminder
func ReminderButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔁 Review all", CallbackData: "review_all"},
			{Text: "⚡ Quick 10", CallbackData: "review_quick"},
		},
	}
}

// sender is the part of the Telegram API the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends reminders to a single chat
type Notifier struct {
	api    sender
	chatID int64
	logger *zap.Logger
}

var _ scheduler.Notifier = (*Notifier)(nil)

// NewNotifier connects to the Telegram bot API
func NewNotifier(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return newNotifier(api, chatID, logger), nil
}

func newNotifier(api sender, chatID int64, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{api: api, chatID: chatID, logger: logger}
}

// ReminderText formats the reminder for count due words
func ReminderText(count int) string {
	wordForm := "words"
	if count == 1 {
		wordForm = "word"
	}
	return fmt.Sprintf("You have %d %s to review today!", count, wordForm)
}

// SendReminder implements scheduler.Notifier
func (n *Notifier) SendReminder(_ context.Context, count int) error {
	msg := tgbotapi.NewMessage(n.chatID, ReminderText(count))
	msg.ReplyMarkup = createKeyboard(ReminderButtons())

	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("Failed to send reminder", zap.Int64("chat", n.chatID), zap.Error(err))
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	n.logger.Info("Reminder sent", zap.Int64("chat", n.chatID), zap.Int("due", count))
	return nil
}
