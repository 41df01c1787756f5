package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedCounter int

func (c fixedCounter) DueCount(civil.Date) int { return int(c) }

type recordingNotifier struct {
	counts []int
	err    error
}

func (n *recordingNotifier) SendReminder(_ context.Context, count int) error {
	n.counts = append(n.counts, count)
	return n.err
}

func newTestReminders(due int, notifier Notifier, hour int) *Reminders {
	r := NewReminders(fixedCounter(due), notifier, Window{StartHour: 8, EndHour: 22}, zap.NewNop())
	r.now = func() time.Time { return time.Date(2026, 1, 5, hour, 15, 0, 0, time.Local) }
	return r
}

func TestReminderInsideWindow(t *testing.T) {
	notifier := &recordingNotifier{}
	r := newTestReminders(4, notifier, 9)

	sent, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, sent)
	assert.Equal(t, []int{4}, notifier.counts)
}

func TestReminderOutsideWindow(t *testing.T) {
	notifier := &recordingNotifier{}
	r := newTestReminders(4, notifier, 3)

	sent, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.counts)
}

func TestReminderNothingDue(t *testing.T) {
	notifier := &recordingNotifier{}
	r := newTestReminders(0, notifier, 12)

	sent, err := r.RunManualCheck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.counts)
}

func TestReminderNotifierError(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("telegram down")}
	r := newTestReminders(2, notifier, 12)

	_, err := r.RunManualCheck(context.Background())
	assert.ErrorContains(t, err, "telegram down")
}

func TestWindowContains(t *testing.T) {
	w := Window{StartHour: 8, EndHour: 22}
	assert.True(t, w.Contains(8))
	assert.True(t, w.Contains(22))
	assert.False(t, w.Contains(7))
	assert.False(t, w.Contains(23))
}
