package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
)

type EntryKind string

const (
	EntryKindPerson EntryKind = "person"
	EntryKindTeam   EntryKind = "team"
)

// EntryFailure describes one external entry that could not be saved.
type EntryFailure struct {
	Kind       EntryKind
	EventorRef string
	Name       string
	Err        error
}

type ImportResult struct {
	Saved    int
	Failures []EntryFailure
}

type EntryListFetcher interface {
	GetEventEntryList(ctx context.Context, eventor domain.Eventor, eventRef string) (*iof.EntryList, error)
}

type CompetitorRepository interface {
	SavePersonEntry(ctx context.Context, entry domain.PersonEntry) (domain.PersonEntry, error)
	SaveTeamEntry(ctx context.Context, entry domain.TeamEntry) (domain.TeamEntry, error)
}

type EntryService struct {
	eventRepo      EventRepository
	competitorRepo CompetitorRepository
	fetcher        EntryListFetcher
	tx             Transactor
}

func NewEntryService(eventRepo EventRepository, competitorRepo CompetitorRepository, fetcher EntryListFetcher, tx Transactor) *EntryService {
	return &EntryService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		fetcher:        fetcher,
		tx:             tx,
	}
}

// DownloadEntryList fetches the event's entry list from its eventor and saves one competitor per
// matched class and race. A failing external entry is rolled back on its own and reported in the result.
func (s *EntryService) DownloadEntryList(ctx context.Context, eventID uuid.UUID) (ImportResult, error) {
	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("s.eventRepo.FindEventByID -> %w", err)
	}

	eventor, err := s.eventRepo.FindEventorByID(ctx, event.EventorID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("s.eventRepo.FindEventorByID -> %w", err)
	}

	races, err := s.eventRepo.FindRacesByEventID(ctx, eventID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("s.eventRepo.FindRacesByEventID -> %w", err)
	}
	if len(races) == 0 {
		zap.L().Warn("event has no races, nothing to import", zap.String("event_id", eventID.String()))
		return ImportResult{}, nil
	}

	list, err := s.fetcher.GetEventEntryList(ctx, eventor, event.EventorRef)
	if err != nil {
		return ImportResult{}, fmt.Errorf("s.fetcher.GetEventEntryList -> %w", err)
	}
	if list == nil {
		zap.L().Warn("eventor returned no entry list", zap.String("event_id", eventID.String()))
		return ImportResult{}, nil
	}

	zap.L().Info("entry list fetched",
		zap.String("event", event.Name),
		zap.Int("person_entries", len(list.PersonEntries)),
		zap.Int("team_entries", len(list.TeamEntries)))

	m := entryMapper{races: races, classes: event.Classes}
	var result ImportResult

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tx.LockImport(ctx, "entry-import:"+eventID.String()); err != nil {
			return fmt.Errorf("s.tx.LockImport -> %w", err)
		}

		for _, ext := range list.PersonEntries {
			entries := m.personEntries(ext)
			s.saveEntry(ctx, &result, EntryKindPerson, ext.ID.String(), personName(ext.Person), len(entries), func(ctx context.Context) error {
				for _, e := range entries {
					if _, err := s.competitorRepo.SavePersonEntry(ctx, e); err != nil {
						return fmt.Errorf("s.competitorRepo.SavePersonEntry race %s -> %w", e.RaceID, err)
					}
				}
				return nil
			})
		}

		for _, ext := range list.TeamEntries {
			entries := m.teamEntries(ext)
			s.saveEntry(ctx, &result, EntryKindTeam, ext.ID.String(), ext.Name, len(entries), func(ctx context.Context) error {
				for _, e := range entries {
					if _, err := s.competitorRepo.SaveTeamEntry(ctx, e); err != nil {
						return fmt.Errorf("s.competitorRepo.SaveTeamEntry race %s -> %w", e.RaceID, err)
					}
				}
				return nil
			})
		}

		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	zap.L().Info("entry list imported",
		zap.String("event_id", eventID.String()),
		zap.Int("saved", result.Saved),
		zap.Int("failed", len(result.Failures)),
		zap.Int("races", len(races)))

	return result, nil
}

// saveEntry runs save in its own savepoint and records the outcome.
func (s *EntryService) saveEntry(ctx context.Context, result *ImportResult, kind EntryKind, ref, name string, rows int, save func(ctx context.Context) error) {
	if rows == 0 {
		return
	}

	if err := s.tx.WithinTransaction(ctx, save); err != nil {
		zap.L().Error("failed to save entry",
			zap.String("kind", string(kind)),
			zap.String("eventor_ref", ref),
			zap.String("name", name),
			zap.Error(err))
		result.Failures = append(result.Failures, EntryFailure{Kind: kind, EventorRef: ref, Name: name, Err: err})
		return
	}

	result.Saved += rows
}

func personName(p *iof.Person) string {
	if p == nil || p.Name == nil {
		return ""
	}

	return strings.TrimSpace(p.Name.Given + " " + p.Name.Family)
}

// entryMapper expands external entries into one internal entry per matched class and race.
type entryMapper struct {
	races   []domain.Race
	classes []domain.EventClass
}

func (m entryMapper) matchClass(c iof.Class) (domain.EventClass, bool) {
	if ref := c.ID.String(); ref != "" {
		for _, ec := range m.classes {
			if ec.EventorRef == ref {
				return ec, true
			}
		}
	}
	for _, ec := range m.classes {
		if ec.Name == c.Name {
			return ec, true
		}
	}

	return domain.EventClass{}, false
}

// raceNumbers counts from 1; no numbers means the first race.
func (m entryMapper) resolveRaces(ref string, numbers []int) []domain.Race {
	if len(numbers) == 0 {
		numbers = []int{1}
	}

	races := make([]domain.Race, 0, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > len(m.races) {
			zap.L().Warn("race number out of range, skipped",
				zap.String("eventor_ref", ref),
				zap.Int("race_number", n),
				zap.Int("races", len(m.races)))
			continue
		}
		races = append(races, m.races[n-1])
	}

	return races
}

func (m entryMapper) matchClasses(ref string, classes []iof.Class) []domain.EventClass {
	matched := make([]domain.EventClass, 0, len(classes))
	for _, c := range classes {
		ec, ok := m.matchClass(c)
		if !ok {
			zap.L().Warn("entry class not found in event",
				zap.String("eventor_ref", ref),
				zap.String("class", c.Name))
			continue
		}
		matched = append(matched, ec)
	}

	return matched
}

func (m entryMapper) personEntries(ext iof.PersonEntry) []domain.PersonEntry {
	ref := ext.ID.String()
	classes := m.matchClasses(ref, ext.Classes)
	races := m.resolveRaces(ref, ext.RaceNumbers)

	var (
		name        domain.PersonName
		personRef   string
		birthYear   *int
		nationality *string
		gender      = domain.GenderOther
	)
	if p := ext.Person; p != nil {
		if p.Name != nil {
			name = domain.PersonName{Given: p.Name.Given, Family: p.Name.Family}
		}
		personRef = p.FirstID()
		birthYear = parseBirthYear(p.BirthDate)
		nationality = countryCode(p.Nationality)
		gender = domain.GenderFromSex(p.Sex)
	}

	var org *domain.Organisation
	if ext.Organisation != nil {
		o := organisation(*ext.Organisation)
		org = &o
	}

	var unit *domain.PunchingUnit
	if len(ext.ControlCards) > 0 {
		unit = punchingUnit(ext.ControlCards[0])
	}

	entries := make([]domain.PersonEntry, 0, len(classes)*len(races))
	for _, class := range classes {
		for _, race := range races {
			entries = append(entries, domain.PersonEntry{
				ID:               entryID(ref, personRef, race.ID, class.ID),
				RaceID:           race.ID,
				ClassID:          class.ID,
				EventorRef:       ref,
				PersonEventorRef: personRef,
				Name:             name,
				BirthYear:        birthYear,
				Nationality:      nationality,
				Gender:           gender,
				Status:           domain.CompetitorStatusNotActivated,
				PunchingUnit:     unit,
				Organisation:     org,
				EntryFeeIDs:      iof.FeeIDs(ext.AssignedFees),
			})
		}
	}

	return entries
}

func (m entryMapper) teamEntries(ext iof.TeamEntry) []domain.TeamEntry {
	ref := ext.ID.String()
	classes := m.matchClasses(ref, ext.Classes)
	races := m.resolveRaces(ref, ext.Races)

	name := strings.TrimSpace(ext.Name)
	if name == "" {
		name = "Unknown Team"
	}

	orgs := make([]domain.Organisation, 0, len(ext.Organisations))
	for _, o := range ext.Organisations {
		orgs = append(orgs, organisation(o))
	}

	members := make([]domain.TeamMember, 0, len(ext.Persons))
	for _, tp := range ext.Persons {
		p := tp.Person
		if p == nil {
			continue
		}

		member := domain.TeamMember{
			PersonEventorRef: p.FirstID(),
			Leg:              1,
			BirthYear:        parseBirthYear(p.BirthDate),
			Nationality:      countryCode(p.Nationality),
			Gender:           domain.GenderFromSex(p.Sex),
			EntryFeeIDs:      iof.FeeIDs(tp.AssignedFees),
		}
		if tp.Leg != nil {
			member.Leg = *tp.Leg
		}
		if p.Name != nil {
			member.Name = domain.PersonName{Given: p.Name.Given, Family: p.Name.Family}
		}
		if len(tp.ControlCards) > 0 {
			member.PunchingUnit = punchingUnit(tp.ControlCards[0])
		}
		members = append(members, member)
	}

	entries := make([]domain.TeamEntry, 0, len(classes)*len(races))
	for _, class := range classes {
		for _, race := range races {
			entries = append(entries, domain.TeamEntry{
				ID:            entryID(ref, "", race.ID, class.ID),
				RaceID:        race.ID,
				ClassID:       class.ID,
				EventorRef:    ref,
				Name:          name,
				Organisations: orgs,
				Members:       members,
				EntryFeeIDs:   iof.FeeIDs(ext.AssignedFees),
				Status:        domain.CompetitorStatusNotActivated,
			})
		}
	}

	return entries
}

// parseBirthYear reads the year of an IOF date; anything unparseable gives nil.
func parseBirthYear(birthDate string) *int {
	birthDate = strings.TrimSpace(birthDate)
	if len(birthDate) < 4 {
		return nil
	}

	year, err := strconv.Atoi(birthDate[:4])
	if err != nil {
		return nil
	}

	return &year
}

func countryCode(c *iof.Country) *string {
	if c == nil || strings.TrimSpace(c.Code) == "" {
		return nil
	}

	code := strings.TrimSpace(c.Code)
	return &code
}

func organisation(o iof.Organisation) domain.Organisation {
	org := domain.Organisation{
		OrganisationID: o.ID.String(),
		Name:           o.Name,
		Type:           domain.ParseOrganisationType(o.Type),
	}
	if o.Country != nil {
		org.Country = o.Country.Code
	}

	return org
}

func punchingUnit(card iof.ControlCard) *domain.PunchingUnit {
	id := strings.TrimSpace(card.Value)
	if id == "" {
		return nil
	}

	return &domain.PunchingUnit{
		ID:   id,
		Type: domain.ParsePunchingUnitType(card.PunchingSystem),
	}
}
