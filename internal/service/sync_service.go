package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/clients/caldav"
	"github.com/zamanak-app/zamanak/internal/domain"
)

// EventFetcher is the slice of the CalDAV client the sync service
// needs.
type EventFetcher interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]caldav.RemoteEvent, error)
}

// SyncService imports events from a remote CalDAV calendar into the
// local schedule. One-way: remote events become plain local events
// (without reminders), and existing local events are never pushed back.
type SyncService struct {
	fetcher  EventFetcher
	repo     Repository
	log      *zap.Logger
	timezone *time.Location
}

func NewSyncService(fetcher EventFetcher, repo Repository, log *zap.Logger, tz *time.Location) *SyncService {
	return &SyncService{fetcher: fetcher, repo: repo, log: log, timezone: tz}
}

// ImportEvents fetches remote events in [from, to) and stores the ones
// not already present (same title on the same date). Returns the
// number of events created.
func (s *SyncService) ImportEvents(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	remote, err := s.fetcher.FetchEvents(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("fetch remote events: %w", err)
	}

	created := 0
	for _, re := range remote {
		ev := s.toEvent(ownerID, re)

		existing, err := s.repo.EventsForDate(ownerID, ev.Date)
		if err != nil {
			return created, fmt.Errorf("check existing events: %w", err)
		}
		if containsTitle(existing, ev.Title) {
			continue
		}

		if err := ev.Validate(); err != nil {
			s.log.Warn("skipping unimportable remote event",
				zap.String("uid", re.UID), zap.Error(err))
			continue
		}
		if err := s.repo.CreateEvent(ev); err != nil {
			return created, fmt.Errorf("create imported event: %w", err)
		}
		created++
	}

	s.log.Info("calendar import finished",
		zap.Int("fetched", len(remote)), zap.Int("created", created))
	return created, nil
}

func (s *SyncService) toEvent(ownerID string, re caldav.RemoteEvent) *domain.Event {
	start := re.Start.In(s.timezone)
	ev := &domain.Event{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       re.Summary,
		Date:        midnightOf(start),
		Location:    re.Location,
		Description: re.Description,
		AllDay:      re.AllDay,
	}
	if !re.AllDay {
		sc := domain.Clock{Hour: start.Hour(), Minute: start.Minute()}
		ev.Start = &sc
		end := re.End.In(s.timezone)
		if re.End.IsZero() || !end.After(start) {
			end = start.Add(time.Hour)
		}
		ec := domain.Clock{Hour: end.Hour(), Minute: end.Minute()}
		if !sc.Before(ec) {
			// Crosses midnight; clamp to the end of the start day.
			ec = domain.Clock{Hour: 23, Minute: 59}
		}
		ev.End = &ec
	}
	return ev
}

func containsTitle(events []*domain.Event, title string) bool {
	for _, e := range events {
		if e.Title == title {
			return true
		}
	}
	return false
}

func midnightOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
