// internal/app/system/workers/deadlinereminder.go
package workers

import (
	"context"
	"time"

	coursestore "github.com/cogitoedu/coursehub/internal/app/store/courses"
	eventstore "github.com/cogitoedu/coursehub/internal/app/store/events"
	notificationstore "github.com/cogitoedu/coursehub/internal/app/store/notifications"
	"github.com/cogitoedu/coursehub/internal/app/system/mailer"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DeadlineReminder is a background worker that notifies students about
// assignments and exams starting within the lookahead window. It runs on
// a cron schedule and fans out both in-app notifications and email.
type DeadlineReminder struct {
	events    *eventstore.Store
	courses   *coursestore.Store
	notifs    *notificationstore.Store
	mail      mailer.Mailer
	log       *zap.Logger
	siteName  string
	schedule  string
	lookahead time.Duration
	cron      *cron.Cron
}

// NewDeadlineReminder creates the reminder worker.
//
// Parameters:
//   - schedule: a cron expression, e.g. "0 7 * * *" for 07:00 daily
//   - lookahead: how far ahead of the deadline reminders go out (e.g. 24h)
func NewDeadlineReminder(
	events *eventstore.Store,
	courses *coursestore.Store,
	notifs *notificationstore.Store,
	mail mailer.Mailer,
	logger *zap.Logger,
	siteName, schedule string,
	lookahead time.Duration,
) *DeadlineReminder {
	return &DeadlineReminder{
		events:    events,
		courses:   courses,
		notifs:    notifs,
		mail:      mail,
		log:       logger,
		siteName:  siteName,
		schedule:  schedule,
		lookahead: lookahead,
	}
}

// Start schedules the worker. Returns an error if the cron expression
// does not parse.
func (w *DeadlineReminder) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, w.runOnce); err != nil {
		return err
	}
	c.Start()
	w.cron = c
	w.log.Info("deadline reminder worker started",
		zap.String("schedule", w.schedule),
		zap.Duration("lookahead", w.lookahead))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (w *DeadlineReminder) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("deadline reminder worker stopped")
}

func (w *DeadlineReminder) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := w.RemindDue(ctx, time.Now().UTC()); err != nil {
		w.log.Error("deadline reminder pass failed", zap.Error(err))
	}
}

// RemindDue notifies the assignees of every assignment or exam starting
// within the lookahead window from now. Events already reminded are
// skipped. Exposed for tests and for a manual admin trigger.
func (w *DeadlineReminder) RemindDue(ctx context.Context, now time.Time) error {
	due, err := w.events.ListDueForReminder(ctx, now, now.Add(w.lookahead))
	if err != nil {
		return err
	}

	var sent int
	var reminded []primitive.ObjectID
	for _, ev := range due {
		if ev.Kind != models.EventAssignment && ev.Kind != models.EventExam {
			continue
		}

		n, err := w.notifs.FanOut(ctx, models.Notification{
			Title:   "Due soon: " + ev.Title,
			Body:    ev.Description,
			Level:   models.NotifyWarning,
			EventID: &ev.ID,
		}, ev.AssignedTo)
		if err != nil {
			w.log.Error("reminder fan-out failed",
				zap.String("event_id", ev.ID.Hex()),
				zap.Error(err))
			continue
		}
		sent += n
		reminded = append(reminded, ev.ID)

		courseTitle := ev.Title
		if ev.CourseID != nil {
			if course, err := w.courses.GetByID(ctx, *ev.CourseID); err == nil {
				courseTitle = course.Title
			}
		}
		email := mailer.BuildDeadlineReminder(mailer.DeadlineReminderData{
			SiteName:    w.siteName,
			CourseTitle: courseTitle,
			SectionName: ev.Title,
			Deadline:    ev.StartsAt,
		})
		for _, to := range ev.AssignedTo {
			email.To = to
			if err := w.mail.Send(ctx, email); err != nil {
				w.log.Warn("reminder email failed",
					zap.String("to", to),
					zap.Error(err))
			}
		}
	}

	if err := w.events.MarkReminded(ctx, reminded, now); err != nil {
		return err
	}
	if sent > 0 {
		w.log.Info("deadline reminders sent",
			zap.Int("events", len(reminded)),
			zap.Int("notifications", sent))
	}
	return nil
}
