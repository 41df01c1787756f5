package scheduler

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Default notification window, in hours of the day
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers a reminder to the learner
type Notifier interface {
	SendReminder(ctx context.Context, count int) error
}

// DueCounter reports how many items are due on a day
type DueCounter interface {
	DueCount(today civil.Date) int
}

// Window is the range of hours in which reminders may be sent
type Window struct {
	StartHour int
	EndHour   int
}

// Contains reports whether the hour falls inside the window, both ends included
func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// Reminders periodically tells the learner about due reviews
type Reminders struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	source    DueCounter
	window    Window
	now       func() time.Time
	logger    *zap.Logger
}

// NewReminders creates a reminder job. It does nothing until Start is called.
func NewReminders(source DueCounter, notifier Notifier, window Window, logger *zap.Logger) *Reminders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminders{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		source:    source,
		window:    window,
		now:       time.Now,
		logger:    logger,
	}
}

// Start schedules the hourly check without blocking
func (r *Reminders) Start() error {
	if _, err := r.scheduler.Every(1).Hour().Do(r.checkAndSend); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	r.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduled job
func (r *Reminders) Stop() {
	r.scheduler.Stop()
}

func (r *Reminders) checkAndSend() {
	if _, err := r.Check(context.Background()); err != nil {
		r.logger.Warn("Reminder check failed", zap.Error(err))
	}
}

// Check sends a reminder if the current hour is inside the window and
// something is due. It returns the number of due items it reported.
func (r *Reminders) Check(ctx context.Context) (int, error) {
	now := r.now()
	if !r.window.Contains(now.Hour()) {
		r.logger.Debug("Outside notification hours, skipping reminder",
			zap.Int("hour", now.Hour()),
			zap.Int("start", r.window.StartHour),
			zap.Int("end", r.window.EndHour))
		return 0, nil
	}
	return r.RunManualCheck(ctx)
}

// RunManualCheck sends a reminder for everything due today, ignoring the window
func (r *Reminders) RunManualCheck(ctx context.Context) (int, error) {
	count := r.source.DueCount(civil.DateOf(r.now()))
	if count == 0 {
		return 0, nil
	}
	if err := r.notifier.SendReminder(ctx, count); err != nil {
		return 0, fmt.Errorf("failed to send reminder: %w", err)
	}
	r.logger.Info("Sent review reminder", zap.Int("due", count))
	return count, nil
}
