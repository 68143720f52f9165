package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stunor/origo-organiser/internal/domain"
)

type CompetitorReader interface {
	FindPersonEntryByID(ctx context.Context, id uuid.UUID) (domain.PersonEntry, error)
	FindPersonEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]domain.PersonEntry, error)
	FindTeamEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]domain.TeamEntry, error)
	DeleteEntriesByRaceID(ctx context.Context, raceID uuid.UUID) (int64, error)
}

type RaceCompetitors struct {
	Persons []domain.PersonEntry `json:"persons"`
	Teams   []domain.TeamEntry   `json:"teams"`
}

type CompetitorService struct {
	eventRepo      EventRepository
	competitorRepo CompetitorReader
}

func NewCompetitorService(eventRepo EventRepository, competitorRepo CompetitorReader) *CompetitorService {
	return &CompetitorService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
	}
}

func (s *CompetitorService) GetCompetitors(ctx context.Context, raceID uuid.UUID) (RaceCompetitors, error) {
	if _, err := s.eventRepo.FindRaceByID(ctx, raceID); err != nil {
		return RaceCompetitors{}, fmt.Errorf("s.eventRepo.FindRaceByID -> %w", err)
	}

	persons, err := s.competitorRepo.FindPersonEntriesByRaceID(ctx, raceID)
	if err != nil {
		return RaceCompetitors{}, fmt.Errorf("s.competitorRepo.FindPersonEntriesByRaceID -> %w", err)
	}

	teams, err := s.competitorRepo.FindTeamEntriesByRaceID(ctx, raceID)
	if err != nil {
		return RaceCompetitors{}, fmt.Errorf("s.competitorRepo.FindTeamEntriesByRaceID -> %w", err)
	}

	return RaceCompetitors{Persons: persons, Teams: teams}, nil
}

func (s *CompetitorService) GetPersonEntry(ctx context.Context, id uuid.UUID) (domain.PersonEntry, error) {
	entry, err := s.competitorRepo.FindPersonEntryByID(ctx, id)
	if err != nil {
		return domain.PersonEntry{}, fmt.Errorf("s.competitorRepo.FindPersonEntryByID -> %w", err)
	}

	return entry, nil
}

// DeleteCompetitors removes every person and team entry of the race and returns how many were removed.
func (s *CompetitorService) DeleteCompetitors(ctx context.Context, raceID uuid.UUID) (int64, error) {
	if _, err := s.eventRepo.FindRaceByID(ctx, raceID); err != nil {
		return 0, fmt.Errorf("s.eventRepo.FindRaceByID -> %w", err)
	}

	deleted, err := s.competitorRepo.DeleteEntriesByRaceID(ctx, raceID)
	if err != nil {
		return 0, fmt.Errorf("s.competitorRepo.DeleteEntriesByRaceID -> %w", err)
	}

	zap.L().Info("competitors deleted", zap.String("race_id", raceID.String()), zap.Int64("count", deleted))

	return deleted, nil
}
