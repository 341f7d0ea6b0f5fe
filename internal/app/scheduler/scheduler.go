// Package scheduler turns task due instants into reminder firings and runs
// the periodic overdue sweep plus the daily digest. All timers are in-memory
// and process-lifetime; nothing survives a restart.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/subash43e/taskapp/internal/app/notify"
	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/internal/core/ports"
)

// Reminder offsets in minutes before the due instant.
var reminderOffsets = []struct {
	Label   string
	Minutes int
}{
	{"1 day before", 24 * 60},
	{"1 hour before", 60},
	{"15 minutes before", 15},
	{"at due time", 0},
}

const (
	defaultSweepInterval     = time.Hour
	defaultInitialSweepDelay = 5 * time.Second
)

// TaskFeed supplies the currently known task set for the overdue sweep and
// the daily digest. The caller owns its population; the scheduler only reads.
type TaskFeed func(ctx context.Context) ([]domain.Task, error)

type Scheduler struct {
	mailer   ports.Mailer
	notifier ports.Notifier
	feed     TaskFeed
	logger   *zap.Logger

	now func() time.Time
	loc *time.Location

	sweepInterval     time.Duration
	initialSweepDelay time.Duration

	mu        sync.Mutex
	timers    map[string]*time.Timer
	userEmail string

	sweepTicker  *time.Ticker
	sweepInitial *time.Timer
	sweepDone    chan struct{}
	digestTimer  *time.Timer
	digestHour   int
	stopped      bool
}

type Option func(*Scheduler)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation sets the location used to combine due dates and times.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// WithSweepTiming overrides the overdue sweep cadence, for tests.
func WithSweepTiming(initial, interval time.Duration) Option {
	return func(s *Scheduler) {
		s.initialSweepDelay = initial
		s.sweepInterval = interval
	}
}

func New(mailer ports.Mailer, notifier ports.Notifier, feed TaskFeed, userEmail string, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.L()
	}
	s := &Scheduler{
		mailer:            mailer,
		notifier:          notifier,
		feed:              feed,
		logger:            logger,
		now:               time.Now,
		loc:               time.Local,
		timers:            make(map[string]*time.Timer),
		userEmail:         userEmail,
		sweepInterval:     defaultSweepInterval,
		initialSweepDelay: defaultInitialSweepDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUserEmail changes the reminder recipient for subsequently fired timers.
func (s *Scheduler) SetUserEmail(email string) {
	s.mu.Lock()
	s.userEmail = email
	s.mu.Unlock()
}

func (s *Scheduler) recipient() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userEmail
}

// ScheduleTaskReminder arms one timer per offset whose fire time is still in
// the future. Tasks without both a due date and a due time are skipped.
// Re-scheduling an already-scheduled task replaces its pending timers.
func (s *Scheduler) ScheduleTaskReminder(task domain.Task) {
	if task.DueDate == "" || task.DueTime == "" {
		s.logger.Info("cannot schedule reminder: missing date or time",
			zap.String("task_id", task.ID), zap.String("task_name", task.TaskName))
		return
	}

	dueInstant, ok := task.DueInstant(s.loc)
	if !ok {
		s.logger.Warn("cannot schedule reminder: unparseable due date/time",
			zap.String("task_id", task.ID),
			zap.String("due_date", task.DueDate), zap.String("due_time", task.DueTime))
		return
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	for _, offset := range reminderOffsets {
		fireAt := dueInstant.Add(-time.Duration(offset.Minutes) * time.Minute)
		if !fireAt.After(now) {
			// Past fire times are skipped, never fired immediately.
			continue
		}

		key := timerKey(task.ID, offset.Minutes)
		if existing, ok := s.timers[key]; ok {
			existing.Stop()
		}

		label := offset.Label
		s.timers[key] = time.AfterFunc(fireAt.Sub(now), func() {
			s.clearTimer(key)
			s.fireReminder(task, label)
		})

		s.logger.Info("scheduled reminder",
			zap.String("task_id", task.ID),
			zap.String("task_name", task.TaskName),
			zap.String("label", label),
			zap.Time("fire_at", fireAt))
	}
}

// CancelTaskReminders stops and removes every pending timer for the task.
// Cancelling a task with no scheduled reminders is a no-op.
func (s *Scheduler) CancelTaskReminders(taskID string) {
	prefix := taskID + ":"
	s.mu.Lock()
	cancelled := 0
	for key, timer := range s.timers {
		if strings.HasPrefix(key, prefix) {
			timer.Stop()
			delete(s.timers, key)
			cancelled++
		}
	}
	s.mu.Unlock()

	s.logger.Info("cancelled reminders", zap.String("task_id", taskID), zap.Int("count", cancelled))
}

// PendingCount reports armed reminder timers, for tests and diagnostics.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// PendingKeys lists armed timer keys in no particular order.
func (s *Scheduler) PendingKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.timers))
	for key := range s.timers {
		keys = append(keys, key)
	}
	return keys
}

// RequestNotificationPermission asks the local notification surface for
// permission. Environments without a surface report false without error.
func (s *Scheduler) RequestNotificationPermission() bool {
	if s.notifier == nil || !s.notifier.Supported() {
		s.logger.Info("local notifications not supported")
		return false
	}
	if s.notifier.PermissionGranted() {
		return true
	}
	return s.notifier.RequestPermission()
}

// StartOverdueSweep runs an hourly overdue check plus one delayed initial
// check shortly after startup.
func (s *Scheduler) StartOverdueSweep() {
	s.mu.Lock()
	if s.stopped || s.sweepTicker != nil {
		s.mu.Unlock()
		return
	}
	s.sweepTicker = time.NewTicker(s.sweepInterval)
	s.sweepInitial = time.AfterFunc(s.initialSweepDelay, s.checkOverdueTasks)
	s.sweepDone = make(chan struct{})
	ticker := s.sweepTicker
	done := s.sweepDone
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				s.checkOverdueTasks()
			case <-done:
				return
			}
		}
	}()
}

// ScheduleDailyDigest arms the digest for the next occurrence of hourOfDay:00
// (today if still upcoming, else tomorrow). Each firing re-arms for the next
// wall-clock occurrence, so the hour stays fixed across DST changes.
func (s *Scheduler) ScheduleDailyDigest(hourOfDay int) {
	now := s.now().In(s.loc)
	next := nextDigestTime(now, hourOfDay, s.loc)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.digestHour = hourOfDay
	if s.digestTimer != nil {
		s.digestTimer.Stop()
	}
	s.digestTimer = time.AfterFunc(next.Sub(now), s.digestFired)
	s.mu.Unlock()

	s.logger.Info("scheduled daily digest", zap.Time("next", next))
}

func (s *Scheduler) digestFired() {
	s.sendDailyDigest()

	now := s.now().In(s.loc)
	s.mu.Lock()
	if !s.stopped {
		next := nextDigestTime(now, s.digestHour, s.loc)
		s.digestTimer = time.AfterFunc(next.Sub(now), s.digestFired)
	}
	s.mu.Unlock()
}

// Stop cancels the sweep, the digest and every pending reminder timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true

	if s.sweepTicker != nil {
		s.sweepTicker.Stop()
		close(s.sweepDone)
	}
	if s.sweepInitial != nil {
		s.sweepInitial.Stop()
	}
	if s.digestTimer != nil {
		s.digestTimer.Stop()
	}
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

func (s *Scheduler) clearTimer(key string) {
	s.mu.Lock()
	delete(s.timers, key)
	s.mu.Unlock()
}

// fireReminder runs on the timer goroutine. Failures are logged and never
// propagate; delivery is at most once.
func (s *Scheduler) fireReminder(task domain.Task, label string) {
	if s.notifier != nil && s.notifier.Supported() && s.notifier.PermissionGranted() {
		s.notifier.Show(
			"Task Reminder: "+task.TaskName,
			fmt.Sprintf("%s - Due: %s at %s", label, task.DueDate, task.DueTime),
			"task-"+task.ID,
		)
	}

	subject, body := notify.ReminderMessage(task)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if ok, err := s.mailer.Send(ctx, s.recipient(), subject, body); err != nil || !ok {
		s.logger.Warn("reminder email not delivered",
			zap.String("task_id", task.ID), zap.Bool("accepted", ok), zap.Error(err))
		return
	}

	s.logger.Info("sent reminder",
		zap.String("task_id", task.ID), zap.String("task_name", task.TaskName), zap.String("label", label))
}

func (s *Scheduler) checkOverdueTasks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tasks, err := s.feed(ctx)
	if err != nil {
		s.logger.Warn("overdue sweep: loading tasks failed", zap.Error(err))
		return
	}

	now := s.now()
	overdue := make([]domain.Task, 0)
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		dueInstant, ok := task.DueInstant(s.loc)
		if ok && dueInstant.Before(now) {
			overdue = append(overdue, task)
		}
	}
	if len(overdue) == 0 {
		return
	}

	// One batched notification, not one per task.
	if s.notifier != nil && s.notifier.Supported() && s.notifier.PermissionGranted() {
		plural := ""
		if len(overdue) > 1 {
			plural = "s"
		}
		s.notifier.Show(
			fmt.Sprintf("%d Overdue Tasks", len(overdue)),
			fmt.Sprintf("You have %d overdue task%s", len(overdue), plural),
			"overdue-tasks",
		)
	}

	subject, body := notify.OverdueMessage(overdue)
	if ok, err := s.mailer.Send(ctx, s.recipient(), subject, body); err != nil || !ok {
		s.logger.Warn("overdue email not delivered", zap.Int("tasks", len(overdue)), zap.Error(err))
	}
}

func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tasks, err := s.feed(ctx)
	if err != nil {
		s.logger.Warn("daily digest: loading tasks failed", zap.Error(err))
		return
	}

	now := s.now().In(s.loc)
	today := now.Format(domain.DueDateLayout)
	horizon := now.AddDate(0, 0, 7).Format(domain.DueDateLayout)

	digest := make([]domain.Task, 0)
	for _, task := range tasks {
		if task.Completed || task.DueDate == "" {
			continue
		}
		if task.DueDate == today || (task.DueDate > today && task.DueDate <= horizon) {
			digest = append(digest, task)
		}
	}
	if len(digest) == 0 {
		return
	}

	subject, body := notify.DigestMessage(digest)
	if ok, err := s.mailer.Send(ctx, s.recipient(), subject, body); err != nil || !ok {
		s.logger.Warn("digest email not delivered", zap.Int("tasks", len(digest)), zap.Error(err))
		return
	}
	s.logger.Info("sent daily digest", zap.Int("tasks", len(digest)))
}

func timerKey(taskID string, offsetMinutes int) string {
	return fmt.Sprintf("%s:%d", taskID, offsetMinutes)
}

// nextDigestTime is the next occurrence of hourOfDay:00: today when still
// upcoming, tomorrow otherwise. Built from calendar components rather than a
// fixed 24h step so the hour holds across DST transitions.
func nextDigestTime(now time.Time, hourOfDay int, loc *time.Location) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourOfDay, 0, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hourOfDay, 0, 0, 0, loc)
	}
	return next
}
