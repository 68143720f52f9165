package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/repository/dao"
)

var ErrEntryNotFound = dao.ErrEntryNotFound

type EntryDAO interface {
	UpsertPersonEntry(ctx context.Context, entry dao.PersonEntry) (dao.PersonEntry, error)
	UpsertTeamEntry(ctx context.Context, entry dao.TeamEntry) (dao.TeamEntry, error)
	FindPersonEntryByID(ctx context.Context, id uuid.UUID) (dao.PersonEntry, error)
	FindPersonEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]dao.PersonEntry, error)
	FindTeamEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]dao.TeamEntry, error)
	DeleteEntriesByRaceID(ctx context.Context, raceID uuid.UUID) (int64, error)
}

type CompetitorRepository struct {
	dao EntryDAO
}

func NewCompetitorRepository(dao EntryDAO) *CompetitorRepository {
	return &CompetitorRepository{
		dao: dao,
	}
}

func (r *CompetitorRepository) SavePersonEntry(ctx context.Context, entry domain.PersonEntry) (domain.PersonEntry, error) {
	saved, err := r.dao.UpsertPersonEntry(ctx, r.personDomainToDao(entry))
	if err != nil {
		return domain.PersonEntry{}, fmt.Errorf("r.dao.UpsertPersonEntry -> %w", err)
	}

	return r.personDaoToDomain(saved), nil
}

func (r *CompetitorRepository) SaveTeamEntry(ctx context.Context, entry domain.TeamEntry) (domain.TeamEntry, error) {
	saved, err := r.dao.UpsertTeamEntry(ctx, r.teamDomainToDao(entry))
	if err != nil {
		return domain.TeamEntry{}, fmt.Errorf("r.dao.UpsertTeamEntry -> %w", err)
	}

	return r.teamDaoToDomain(saved), nil
}

func (r *CompetitorRepository) FindPersonEntryByID(ctx context.Context, id uuid.UUID) (domain.PersonEntry, error) {
	found, err := r.dao.FindPersonEntryByID(ctx, id)
	if err != nil {
		return domain.PersonEntry{}, fmt.Errorf("r.dao.FindPersonEntryByID -> %w", err)
	}

	return r.personDaoToDomain(found), nil
}

func (r *CompetitorRepository) FindPersonEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]domain.PersonEntry, error) {
	found, err := r.dao.FindPersonEntriesByRaceID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPersonEntriesByRaceID -> %w", err)
	}

	entries := make([]domain.PersonEntry, 0, len(found))
	for _, e := range found {
		entries = append(entries, r.personDaoToDomain(e))
	}

	return entries, nil
}

func (r *CompetitorRepository) FindTeamEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]domain.TeamEntry, error) {
	found, err := r.dao.FindTeamEntriesByRaceID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTeamEntriesByRaceID -> %w", err)
	}

	entries := make([]domain.TeamEntry, 0, len(found))
	for _, e := range found {
		entries = append(entries, r.teamDaoToDomain(e))
	}

	return entries, nil
}

func (r *CompetitorRepository) DeleteEntriesByRaceID(ctx context.Context, raceID uuid.UUID) (int64, error) {
	deleted, err := r.dao.DeleteEntriesByRaceID(ctx, raceID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteEntriesByRaceID -> %w", err)
	}

	return deleted, nil
}

func resultToDao(res *domain.Result) dao.Result {
	if res == nil {
		return dao.Result{}
	}

	status := string(res.Status)
	return dao.Result{
		Time:       res.Time,
		TimeBehind: res.TimeBehind,
		Position:   res.Position,
		Status:     &status,
	}
}

func resultToDomain(res dao.Result) *domain.Result {
	if res.Status == nil {
		return nil
	}

	return &domain.Result{
		Time:       res.Time,
		TimeBehind: res.TimeBehind,
		Position:   res.Position,
		Status:     domain.ParseResultStatus(*res.Status),
	}
}

func organisationToDao(o domain.Organisation) dao.EntryOrganisation {
	row := dao.EntryOrganisation{
		OrganisationID: o.OrganisationID,
		Name:           o.Name,
		Type:           string(o.Type),
	}
	if o.Country != "" {
		country := o.Country
		row.Country = &country
	}

	return row
}

func organisationToDomain(o dao.EntryOrganisation) domain.Organisation {
	org := domain.Organisation{
		OrganisationID: o.OrganisationID,
		Name:           o.Name,
		Type:           domain.ParseOrganisationType(o.Type),
	}
	if o.Country != nil {
		org.Country = *o.Country
	}

	return org
}

func punchingUnitToDao(u *domain.PunchingUnit) *dao.PunchingUnitEntry {
	if u == nil {
		return nil
	}

	return &dao.PunchingUnitEntry{
		PunchingUnitID: u.ID,
		Type:           string(u.Type),
	}
}

func punchingUnitToDomain(u *dao.PunchingUnitEntry) *domain.PunchingUnit {
	if u == nil {
		return nil
	}

	return &domain.PunchingUnit{
		ID:   u.PunchingUnitID,
		Type: domain.ParsePunchingUnitType(u.Type),
	}
}

func feesToDao(ids []string) []dao.EntryFee {
	fees := make([]dao.EntryFee, 0, len(ids))
	for _, id := range ids {
		fees = append(fees, dao.EntryFee{FeeID: id})
	}

	return fees
}

func feesToDomain(fees []dao.EntryFee) []string {
	ids := make([]string, 0, len(fees))
	for _, f := range fees {
		ids = append(ids, f.FeeID)
	}

	return ids
}

func (r *CompetitorRepository) personDomainToDao(e domain.PersonEntry) dao.PersonEntry {
	row := dao.PersonEntry{
		ID:               e.ID,
		RaceID:           e.RaceID,
		ClassID:          e.ClassID,
		EventorRef:       e.EventorRef,
		PersonEventorRef: e.PersonEventorRef,
		GivenName:        e.Name.Given,
		FamilyName:       e.Name.Family,
		BirthYear:        e.BirthYear,
		Nationality:      e.Nationality,
		Gender:           string(e.Gender),
		Bib:              e.Bib,
		Status:           string(e.Status),
		StartTime:        e.StartTime,
		FinishTime:       e.FinishTime,
		Result:           resultToDao(e.Result),
		PunchingUnit:     punchingUnitToDao(e.PunchingUnit),
		Fees:             feesToDao(e.EntryFeeIDs),
	}
	if e.Organisation != nil {
		org := organisationToDao(*e.Organisation)
		row.Organisation = &org
	}

	return row
}

func (r *CompetitorRepository) personDaoToDomain(e dao.PersonEntry) domain.PersonEntry {
	entry := domain.PersonEntry{
		ID:               e.ID,
		RaceID:           e.RaceID,
		ClassID:          e.ClassID,
		EventorRef:       e.EventorRef,
		PersonEventorRef: e.PersonEventorRef,
		Name:             domain.PersonName{Given: e.GivenName, Family: e.FamilyName},
		BirthYear:        e.BirthYear,
		Nationality:      e.Nationality,
		Gender:           domain.ParseGender(e.Gender),
		Bib:              e.Bib,
		Status:           domain.ParseCompetitorStatus(e.Status),
		StartTime:        e.StartTime,
		FinishTime:       e.FinishTime,
		Result:           resultToDomain(e.Result),
		PunchingUnit:     punchingUnitToDomain(e.PunchingUnit),
		EntryFeeIDs:      feesToDomain(e.Fees),
	}
	if e.Organisation != nil {
		org := organisationToDomain(*e.Organisation)
		entry.Organisation = &org
	}

	return entry
}

func (r *CompetitorRepository) teamDomainToDao(e domain.TeamEntry) dao.TeamEntry {
	row := dao.TeamEntry{
		ID:            e.ID,
		RaceID:        e.RaceID,
		ClassID:       e.ClassID,
		EventorRef:    e.EventorRef,
		Name:          e.Name,
		Bib:           e.Bib,
		Status:        string(e.Status),
		StartTime:     e.StartTime,
		FinishTime:    e.FinishTime,
		Result:        resultToDao(e.Result),
		Organisations: make([]dao.EntryOrganisation, 0, len(e.Organisations)),
		Fees:          feesToDao(e.EntryFeeIDs),
		Members:       make([]dao.TeamMember, 0, len(e.Members)),
	}
	for _, o := range e.Organisations {
		row.Organisations = append(row.Organisations, organisationToDao(o))
	}

	for _, m := range e.Members {
		member := dao.TeamMember{
			ID:               m.ID,
			PersonEventorRef: m.PersonEventorRef,
			Leg:              m.Leg,
			GivenName:        m.Name.Given,
			FamilyName:       m.Name.Family,
			BirthYear:        m.BirthYear,
			Nationality:      m.Nationality,
			Gender:           string(m.Gender),
			StartTime:        m.StartTime,
			FinishTime:       m.FinishTime,
			LegResult:        resultToDao(m.LegResult),
			OverallResult:    resultToDao(m.OverallResult),
			PunchingUnit:     punchingUnitToDao(m.PunchingUnit),
		}
		for _, id := range m.EntryFeeIDs {
			member.Fees = append(member.Fees, dao.TeamMemberFee{FeeID: id})
		}
		row.Members = append(row.Members, member)
	}

	return row
}

func (r *CompetitorRepository) teamDaoToDomain(e dao.TeamEntry) domain.TeamEntry {
	entry := domain.TeamEntry{
		ID:            e.ID,
		RaceID:        e.RaceID,
		ClassID:       e.ClassID,
		EventorRef:    e.EventorRef,
		Name:          e.Name,
		Organisations: make([]domain.Organisation, 0, len(e.Organisations)),
		Members:       make([]domain.TeamMember, 0, len(e.Members)),
		EntryFeeIDs:   feesToDomain(e.Fees),
		Bib:           e.Bib,
		Status:        domain.ParseCompetitorStatus(e.Status),
		StartTime:     e.StartTime,
		FinishTime:    e.FinishTime,
		Result:        resultToDomain(e.Result),
	}
	for _, o := range e.Organisations {
		entry.Organisations = append(entry.Organisations, organisationToDomain(o))
	}

	for _, m := range e.Members {
		member := domain.TeamMember{
			ID:               m.ID,
			PersonEventorRef: m.PersonEventorRef,
			Leg:              m.Leg,
			Name:             domain.PersonName{Given: m.GivenName, Family: m.FamilyName},
			BirthYear:        m.BirthYear,
			Nationality:      m.Nationality,
			Gender:           domain.ParseGender(m.Gender),
			StartTime:        m.StartTime,
			FinishTime:       m.FinishTime,
			LegResult:        resultToDomain(m.LegResult),
			OverallResult:    resultToDomain(m.OverallResult),
			PunchingUnit:     punchingUnitToDomain(m.PunchingUnit),
			EntryFeeIDs:      make([]string, 0, len(m.Fees)),
		}
		for _, f := range m.Fees {
			member.EntryFeeIDs = append(member.EntryFeeIDs, f.FeeID)
		}
		entry.Members = append(entry.Members, member)
	}

	return entry
}
