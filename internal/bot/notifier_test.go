package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestReminderText(t *testing.T) {
	assert.Equal(t, "You have 1 word to review today!", ReminderText(1))
	assert.Equal(t, "You have 7 words to review today!", ReminderText(7))
}

func TestSendReminder(t *testing.T) {
	api := &fakeSender{}
	n := newNotifier(api, 42, nil)

	require.NoError(t, n.SendReminder(context.Background(), 3))
	require.Len(t, api.sent, 1)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, ReminderText(3), msg.Text)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Len(t, markup.InlineKeyboard[0], 2)
}

func TestSendReminderError(t *testing.T) {
	n := newNotifier(&fakeSender{err: errors.New("forbidden")}, 42, nil)
	err := n.SendReminder(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestNewNotifierValidation(t *testing.T) {
	_, err := NewNotifier("", 1, nil)
	require.Error(t, err)
	_, err = NewNotifier("token", 0, nil)
	require.Error(t, err)
}
