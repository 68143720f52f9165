package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/repository/dao"
)

var (
	ErrEventNotFound   = dao.ErrEventNotFound
	ErrRaceNotFound    = dao.ErrRaceNotFound
	ErrEventorNotFound = dao.ErrEventorNotFound
)

type EventDAO interface {
	UpsertEvent(ctx context.Context, event dao.Event) (dao.Event, error)
	UpsertRace(ctx context.Context, race dao.Race) (dao.Race, error)
	UpsertEventor(ctx context.Context, eventor dao.Eventor) (dao.Eventor, error)
	FindEventByID(ctx context.Context, id uuid.UUID) (dao.Event, error)
	FindRaceByID(ctx context.Context, id uuid.UUID) (dao.Race, error)
	FindRacesByEventID(ctx context.Context, eventID uuid.UUID) ([]dao.Race, error)
	FindEventorByID(ctx context.Context, id string) (dao.Eventor, error)
	ListEventors(ctx context.Context) ([]dao.Eventor, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

// SaveEvent upserts the event and its classes.
func (r *EventRepository) SaveEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	classes := make([]dao.Class, 0, len(event.Classes))
	for _, c := range event.Classes {
		classes = append(classes, dao.Class{
			ID:         c.ID,
			EventID:    event.ID,
			EventorRef: c.EventorRef,
			Name:       c.Name,
			ShortName:  c.ShortName,
		})
	}

	saved, err := r.dao.UpsertEvent(ctx, dao.Event{
		ID:         event.ID,
		EventorID:  event.EventorID,
		EventorRef: event.EventorRef,
		Name:       event.Name,
		StartDate:  event.StartDate,
		FinishDate: event.FinishDate,
		Classes:    classes,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.UpsertEvent -> %w", err)
	}

	return r.eventDaoToDomain(saved), nil
}

func (r *EventRepository) SaveRace(ctx context.Context, race domain.Race) (domain.Race, error) {
	saved, err := r.dao.UpsertRace(ctx, dao.Race{
		ID:         race.ID,
		EventID:    race.EventID,
		EventorRef: race.EventorRef,
		Name:       race.Name,
		Date:       race.Date,
	})
	if err != nil {
		return domain.Race{}, fmt.Errorf("r.dao.UpsertRace -> %w", err)
	}

	return r.raceDaoToDomain(saved), nil
}

func (r *EventRepository) SaveEventor(ctx context.Context, eventor domain.Eventor) (domain.Eventor, error) {
	saved, err := r.dao.UpsertEventor(ctx, dao.Eventor{
		ID:         eventor.ID,
		Name:       eventor.Name,
		Federation: eventor.Federation,
		BaseURL:    eventor.BaseURL,
		APIKey:     eventor.APIKey,
	})
	if err != nil {
		return domain.Eventor{}, fmt.Errorf("r.dao.UpsertEventor -> %w", err)
	}

	return r.eventorDaoToDomain(saved), nil
}

func (r *EventRepository) FindEventByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	found, err := r.dao.FindEventByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindEventByID -> %w", err)
	}

	return r.eventDaoToDomain(found), nil
}

func (r *EventRepository) FindRaceByID(ctx context.Context, id uuid.UUID) (domain.Race, error) {
	found, err := r.dao.FindRaceByID(ctx, id)
	if err != nil {
		return domain.Race{}, fmt.Errorf("r.dao.FindRaceByID -> %w", err)
	}

	return r.raceDaoToDomain(found), nil
}

func (r *EventRepository) FindRacesByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.Race, error) {
	found, err := r.dao.FindRacesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRacesByEventID -> %w", err)
	}

	races := make([]domain.Race, 0, len(found))
	for _, race := range found {
		races = append(races, r.raceDaoToDomain(race))
	}

	return races, nil
}

func (r *EventRepository) FindEventorByID(ctx context.Context, id string) (domain.Eventor, error) {
	found, err := r.dao.FindEventorByID(ctx, id)
	if err != nil {
		return domain.Eventor{}, fmt.Errorf("r.dao.FindEventorByID -> %w", err)
	}

	return r.eventorDaoToDomain(found), nil
}

func (r *EventRepository) ListEventors(ctx context.Context) ([]domain.Eventor, error) {
	found, err := r.dao.ListEventors(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEventors -> %w", err)
	}

	eventors := make([]domain.Eventor, 0, len(found))
	for _, e := range found {
		eventors = append(eventors, r.eventorDaoToDomain(e))
	}

	return eventors, nil
}

func (r *EventRepository) eventDaoToDomain(e dao.Event) domain.Event {
	classes := make([]domain.EventClass, 0, len(e.Classes))
	for _, c := range e.Classes {
		classes = append(classes, domain.EventClass{
			ID:         c.ID,
			EventorRef: c.EventorRef,
			Name:       c.Name,
			ShortName:  c.ShortName,
		})
	}

	return domain.Event{
		ID:         e.ID,
		EventorID:  e.EventorID,
		EventorRef: e.EventorRef,
		Name:       e.Name,
		StartDate:  e.StartDate,
		FinishDate: e.FinishDate,
		Classes:    classes,
	}
}

func (r *EventRepository) raceDaoToDomain(race dao.Race) domain.Race {
	return domain.Race{
		ID:         race.ID,
		EventorRef: race.EventorRef,
		Name:       race.Name,
		Date:       race.Date,
		EventID:    race.EventID,
	}
}

func (r *EventRepository) eventorDaoToDomain(e dao.Eventor) domain.Eventor {
	return domain.Eventor{
		ID:         e.ID,
		Name:       e.Name,
		Federation: e.Federation,
		BaseURL:    e.BaseURL,
		APIKey:     e.APIKey,
	}
}
