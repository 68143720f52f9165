package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
)

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) FindEventByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventRepository) FindRaceByID(ctx context.Context, id uuid.UUID) (domain.Race, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Race), args.Error(1)
}

func (m *mockEventRepository) FindRacesByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.Race, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Race), args.Error(1)
}

func (m *mockEventRepository) FindEventorByID(ctx context.Context, id string) (domain.Eventor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Eventor), args.Error(1)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) GetEventEntryList(ctx context.Context, eventor domain.Eventor, eventRef string) (*iof.EntryList, error) {
	args := m.Called(ctx, eventor, eventRef)
	list, _ := args.Get(0).(*iof.EntryList)
	return list, args.Error(1)
}

// fakeTransactor runs fn directly and records lock keys.
type fakeTransactor struct {
	locks []string
	depth int
	max   int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.depth++
	if f.depth > f.max {
		f.max = f.depth
	}
	defer func() { f.depth-- }()

	return fn(ctx)
}

func (f *fakeTransactor) LockImport(_ context.Context, key string) error {
	f.locks = append(f.locks, key)
	return nil
}

type fakeCourseRepository struct {
	maps     map[uuid.UUID]domain.RaceMap
	controls map[uuid.UUID]domain.Control
	courses  map[uuid.UUID]domain.Course
	saveErr  error
}

func newFakeCourseRepository() *fakeCourseRepository {
	return &fakeCourseRepository{
		maps:     make(map[uuid.UUID]domain.RaceMap),
		controls: make(map[uuid.UUID]domain.Control),
		courses:  make(map[uuid.UUID]domain.Course),
	}
}

func (f *fakeCourseRepository) SaveMap(_ context.Context, m domain.RaceMap) (domain.RaceMap, error) {
	f.maps[m.ID] = m
	return m, nil
}

func (f *fakeCourseRepository) SaveControls(_ context.Context, controls []domain.Control) error {
	for _, c := range controls {
		f.controls[c.ID] = c
	}
	return nil
}

func (f *fakeCourseRepository) SaveCourse(_ context.Context, course domain.Course) (domain.Course, error) {
	if f.saveErr != nil {
		return domain.Course{}, f.saveErr
	}
	f.courses[course.ID] = course
	return course, nil
}

func (f *fakeCourseRepository) FindMapsByRaceID(_ context.Context, raceID uuid.UUID) ([]domain.RaceMap, error) {
	var maps []domain.RaceMap
	for _, m := range f.maps {
		if m.RaceID == raceID {
			maps = append(maps, m)
		}
	}
	return maps, nil
}

func (f *fakeCourseRepository) FindCoursesByMapID(_ context.Context, mapID uuid.UUID) ([]domain.Course, error) {
	var courses []domain.Course
	for _, c := range f.courses {
		if c.MapID == mapID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

var errBoom = errors.New("boom")

// fakeCompetitorRepository stores entries by id and fails for the configured eventor refs.
type fakeCompetitorRepository struct {
	mu      sync.Mutex
	persons map[uuid.UUID]domain.PersonEntry
	teams   map[uuid.UUID]domain.TeamEntry
	failFor map[string]bool
	writes  int
}

func newFakeCompetitorRepository() *fakeCompetitorRepository {
	return &fakeCompetitorRepository{
		persons: make(map[uuid.UUID]domain.PersonEntry),
		teams:   make(map[uuid.UUID]domain.TeamEntry),
		failFor: make(map[string]bool),
	}
}

func (f *fakeCompetitorRepository) SavePersonEntry(_ context.Context, entry domain.PersonEntry) (domain.PersonEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failFor[entry.EventorRef] {
		return domain.PersonEntry{}, errBoom
	}
	f.persons[entry.ID] = entry
	return entry, nil
}

func (f *fakeCompetitorRepository) SaveTeamEntry(_ context.Context, entry domain.TeamEntry) (domain.TeamEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failFor[entry.EventorRef] {
		return domain.TeamEntry{}, errBoom
	}
	f.teams[entry.ID] = entry
	return entry, nil
}

func (f *fakeCompetitorRepository) FindPersonEntryByID(_ context.Context, id uuid.UUID) (domain.PersonEntry, error) {
	e, ok := f.persons[id]
	if !ok {
		return domain.PersonEntry{}, ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeCompetitorRepository) FindPersonEntriesByRaceID(_ context.Context, raceID uuid.UUID) ([]domain.PersonEntry, error) {
	var entries []domain.PersonEntry
	for _, e := range f.persons {
		if e.RaceID == raceID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (f *fakeCompetitorRepository) FindTeamEntriesByRaceID(_ context.Context, raceID uuid.UUID) ([]domain.TeamEntry, error) {
	var entries []domain.TeamEntry
	for _, e := range f.teams {
		if e.RaceID == raceID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (f *fakeCompetitorRepository) DeleteEntriesByRaceID(_ context.Context, raceID uuid.UUID) (int64, error) {
	var n int64
	for id, e := range f.persons {
		if e.RaceID == raceID {
			delete(f.persons, id)
			n++
		}
	}
	for id, e := range f.teams {
		if e.RaceID == raceID {
			delete(f.teams, id)
			n++
		}
	}
	return n, nil
}
