// Package scheduler runs the polling loop that discovers due reminders
// and hands them to a Notifier. The engine itself never calls the
// notifier; this loop is the host-side driver.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/domain"
	"github.com/zamanak-app/zamanak/internal/service"
)

// Notifier delivers a due reminder. resolvedTitle is the title of the
// source event or task the reminder is bound to.
type Notifier interface {
	Notify(r *domain.Reminder, resolvedTitle string) error
}

// Dispatcher polls the repository for due reminders on a fixed
// interval and dispatches them. Reminders are not latency-critical;
// the default interval is on the order of seconds to a minute.
type Dispatcher struct {
	cron     *cron.Cron
	repo     service.Repository
	sched    *service.Scheduler
	notifier Notifier
	log      *zap.Logger
	interval time.Duration
	timezone *time.Location
	now      func() time.Time
}

func New(repo service.Repository, sched *service.Scheduler, log *zap.Logger, tz *time.Location, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Dispatcher{
		cron:     cron.New(cron.WithLocation(tz)),
		repo:     repo,
		sched:    sched,
		log:      log,
		interval: interval,
		timezone: tz,
		now:      time.Now,
	}
}

// SetNotifier installs the delivery mechanism. Until one is set, due
// reminders stay pending.
func (d *Dispatcher) SetNotifier(n Notifier) {
	d.notifier = n
}

// Start registers the polling job and blocks until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", d.interval)
	if _, err := d.cron.AddFunc(spec, d.checkDue); err != nil {
		return fmt.Errorf("add reminder check: %w", err)
	}

	d.cron.Start()
	d.log.Info("dispatcher started",
		zap.String("timezone", d.timezone.String()),
		zap.Duration("interval", d.interval))

	<-ctx.Done()
	return nil
}

// Stop halts the cron loop and waits for a running check to finish.
func (d *Dispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.log.Info("dispatcher stopped")
}

func (d *Dispatcher) checkDue() {
	if d.notifier == nil {
		return
	}

	now := d.now().In(d.timezone)
	due, err := d.repo.DueReminders(now)
	if err != nil {
		d.log.Error("loading due reminders", zap.Error(err))
		return
	}

	for _, r := range due {
		title, found, err := d.resolveTitle(r)
		if err != nil {
			// Transient read failure; the reminder stays pending and
			// is retried next poll. Only a confirmed missing source
			// may retire it.
			d.log.Error("resolving reminder source", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		if !found {
			// Source row is gone; retire the orphan so it stops
			// coming back every poll.
			if err := d.sched.CancelForSource(r.OwnerID, r.SourceType, r.SourceID); err != nil {
				d.log.Error("retiring orphan reminder", zap.String("id", r.ID), zap.Error(err))
			}
			continue
		}

		if err := d.notifier.Notify(r, title); err != nil {
			d.log.Error("delivering reminder",
				zap.String("id", r.ID), zap.String("title", title), zap.Error(err))
			continue // stays pending, retried next poll
		}

		if err := d.sched.MarkNotified(r.ID); err != nil {
			d.log.Error("marking reminder notified", zap.String("id", r.ID), zap.Error(err))
		}
	}
}

// resolveTitle looks up the reminder's source item and returns its
// title. found is false only when the lookup succeeded and the source
// no longer exists; read failures are returned as errors so the caller
// does not mistake them for a deleted source.
func (d *Dispatcher) resolveTitle(r *domain.Reminder) (title string, found bool, err error) {
	switch r.SourceType {
	case domain.SourceEvent:
		ev, err := d.repo.GetEvent(r.OwnerID, r.SourceID)
		if err != nil {
			return "", false, err
		}
		if ev == nil {
			return "", false, nil
		}
		return ev.Title, true, nil
	case domain.SourceTask:
		t, err := d.repo.GetTask(r.OwnerID, r.SourceID)
		if err != nil {
			return "", false, err
		}
		if t == nil {
			return "", false, nil
		}
		return t.Title, true, nil
	default:
		return "", false, nil
	}
}
