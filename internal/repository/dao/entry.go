package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stunor/origo-organiser/internal/domain"
)

var ErrEntryNotFound = domain.ErrEntryNotFound

// Result is stored inline; a nil Status means there is no result.
type Result struct {
	Time       *int
	TimeBehind *int
	Position   *int
	Status     *string
}

type PersonEntry struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RaceID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Race             *Race     `gorm:"foreignKey:RaceID;constraint:OnDelete:CASCADE"`
	ClassID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Class            *Class    `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
	EventorRef       string    `gorm:"not null"`
	PersonEventorRef string
	GivenName        string
	FamilyName       string
	BirthYear        *int
	Nationality      *string
	Gender           string `gorm:"not null"`
	Bib              *string
	Status           string `gorm:"not null"`
	StartTime        *time.Time
	FinishTime       *time.Time
	Result           Result `gorm:"embedded;embeddedPrefix:result_"`

	Organisation *EntryOrganisation `gorm:"-"`
	PunchingUnit *PunchingUnitEntry `gorm:"-"`
	Fees         []EntryFee         `gorm:"-"`
}

func (PersonEntry) TableName() string {
	return "person_entry"
}

type TeamEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RaceID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Race       *Race     `gorm:"foreignKey:RaceID;constraint:OnDelete:CASCADE"`
	ClassID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Class      *Class    `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
	EventorRef string    `gorm:"not null"`
	Name       string    `gorm:"not null"`
	Bib        *string
	Status     string `gorm:"not null"`
	StartTime  *time.Time
	FinishTime *time.Time
	Result     Result       `gorm:"embedded;embeddedPrefix:result_"`
	Members    []TeamMember `gorm:"foreignKey:TeamEntryID;constraint:OnDelete:CASCADE"`

	Organisations []EntryOrganisation `gorm:"-"`
	Fees          []EntryFee          `gorm:"-"`
}

func (TeamEntry) TableName() string {
	return "team_entry"
}

type TeamMember struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeamEntryID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PersonEventorRef string
	Leg              int `gorm:"not null"`
	GivenName        string
	FamilyName       string
	BirthYear        *int
	Nationality      *string
	Gender           string `gorm:"not null"`
	StartTime        *time.Time
	FinishTime       *time.Time
	LegResult        Result          `gorm:"embedded;embeddedPrefix:leg_result_"`
	OverallResult    Result          `gorm:"embedded;embeddedPrefix:overall_result_"`
	Fees             []TeamMemberFee `gorm:"foreignKey:TeamMemberID;constraint:OnDelete:CASCADE"`

	PunchingUnit *PunchingUnitEntry `gorm:"-"`
}

func (TeamMember) TableName() string {
	return "team_member"
}

// EntryOrganisation belongs to either a person entry or a team entry.
type EntryOrganisation struct {
	EntryID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganisationID string    `gorm:"primaryKey"`
	Name           string    `gorm:"not null"`
	Type           string    `gorm:"not null"`
	Country        *string
}

func (EntryOrganisation) TableName() string {
	return "entry_organisation"
}

// PunchingUnitEntry belongs to either a person entry or a team member.
type PunchingUnitEntry struct {
	EntryID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PunchingUnitID string    `gorm:"primaryKey"`
	Type           string    `gorm:"not null"`
}

func (PunchingUnitEntry) TableName() string {
	return "punching_unit_entry"
}

type EntryFee struct {
	EntryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeeID   string    `gorm:"primaryKey"`
}

func (EntryFee) TableName() string {
	return "entry_fee"
}

type TeamMemberFee struct {
	TeamMemberID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeeID        string    `gorm:"primaryKey"`
}

func (TeamMemberFee) TableName() string {
	return "team_member_fee"
}

type EntryDAO struct {
	db *gorm.DB
}

func NewEntryDAO(db *gorm.DB) *EntryDAO {
	return &EntryDAO{
		db: db,
	}
}

// replaceChildren deletes every row of T owned by owner and inserts rows in their place.
func replaceChildren[T any](tx *gorm.DB, column string, owner any, rows []T) error {
	var zero T
	if err := tx.Where(column+" = ?", owner).Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func findChildren[T any](db *gorm.DB, column string, owners []uuid.UUID) ([]T, error) {
	var rows []T
	if len(owners) == 0 {
		return rows, nil
	}

	if err := db.Where(column+" IN ?", owners).Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (d *EntryDAO) UpsertPersonEntry(ctx context.Context, entry PersonEntry) (PersonEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	err := conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
			return err
		}

		var orgs []EntryOrganisation
		if entry.Organisation != nil {
			entry.Organisation.EntryID = entry.ID
			orgs = append(orgs, *entry.Organisation)
		}
		if err := replaceChildren(tx, "entry_id", entry.ID, orgs); err != nil {
			return err
		}

		var units []PunchingUnitEntry
		if entry.PunchingUnit != nil {
			entry.PunchingUnit.EntryID = entry.ID
			units = append(units, *entry.PunchingUnit)
		}
		if err := replaceChildren(tx, "entry_id", entry.ID, units); err != nil {
			return err
		}

		for i := range entry.Fees {
			entry.Fees[i].EntryID = entry.ID
		}

		return replaceChildren(tx, "entry_id", entry.ID, entry.Fees)
	})
	if err != nil {
		return PersonEntry{}, classify(err)
	}

	return entry, nil
}

func (d *EntryDAO) UpsertTeamEntry(ctx context.Context, entry TeamEntry) (TeamEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	err := conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
			return err
		}

		for i := range entry.Organisations {
			entry.Organisations[i].EntryID = entry.ID
		}
		if err := replaceChildren(tx, "entry_id", entry.ID, entry.Organisations); err != nil {
			return err
		}

		for i := range entry.Fees {
			entry.Fees[i].EntryID = entry.ID
		}
		if err := replaceChildren(tx, "entry_id", entry.ID, entry.Fees); err != nil {
			return err
		}

		return replaceMembers(tx, entry.ID, entry.Members)
	})
	if err != nil {
		return TeamEntry{}, classify(err)
	}

	return entry, nil
}

func replaceMembers(tx *gorm.DB, teamEntryID uuid.UUID, members []TeamMember) error {
	oldIDs := tx.Model(&TeamMember{}).Select("id").Where("team_entry_id = ?", teamEntryID)
	if err := tx.Where("entry_id IN (?)", oldIDs).Delete(&PunchingUnitEntry{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_member_id IN (?)", oldIDs).Delete(&TeamMemberFee{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_entry_id = ?", teamEntryID).Delete(&TeamMember{}).Error; err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	var (
		units []PunchingUnitEntry
		fees  []TeamMemberFee
	)
	for i := range members {
		if members[i].ID == uuid.Nil {
			members[i].ID = uuid.New()
		}
		members[i].TeamEntryID = teamEntryID

		if members[i].PunchingUnit != nil {
			members[i].PunchingUnit.EntryID = members[i].ID
			units = append(units, *members[i].PunchingUnit)
		}
		for _, f := range members[i].Fees {
			fees = append(fees, TeamMemberFee{TeamMemberID: members[i].ID, FeeID: f.FeeID})
		}
	}

	if err := tx.Omit(clause.Associations).Create(&members).Error; err != nil {
		return err
	}
	if len(units) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&units).Error; err != nil {
			return err
		}
	}
	if len(fees) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fees).Error; err != nil {
			return err
		}
	}

	return nil
}

func (d *EntryDAO) FindPersonEntryByID(ctx context.Context, id uuid.UUID) (PersonEntry, error) {
	db := conn(ctx, d.db)

	var entry PersonEntry
	result := db.First(&entry, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PersonEntry{}, ErrEntryNotFound
		}

		return PersonEntry{}, result.Error
	}

	entries := []PersonEntry{entry}
	if err := attachPersonChildren(db, entries); err != nil {
		return PersonEntry{}, err
	}

	return entries[0], nil
}

func (d *EntryDAO) FindPersonEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]PersonEntry, error) {
	db := conn(ctx, d.db)

	var entries []PersonEntry
	result := db.Where("race_id = ?", raceID).Order("family_name").Order("given_name").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	if err := attachPersonChildren(db, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func attachPersonChildren(db *gorm.DB, entries []PersonEntry) error {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	orgs, err := findChildren[EntryOrganisation](db, "entry_id", ids)
	if err != nil {
		return err
	}
	units, err := findChildren[PunchingUnitEntry](db, "entry_id", ids)
	if err != nil {
		return err
	}
	fees, err := findChildren[EntryFee](db, "entry_id", ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*PersonEntry, len(entries))
	for i := range entries {
		byID[entries[i].ID] = &entries[i]
	}
	for i := range orgs {
		byID[orgs[i].EntryID].Organisation = &orgs[i]
	}
	for i := range units {
		byID[units[i].EntryID].PunchingUnit = &units[i]
	}
	for _, f := range fees {
		e := byID[f.EntryID]
		e.Fees = append(e.Fees, f)
	}

	return nil
}

func (d *EntryDAO) FindTeamEntriesByRaceID(ctx context.Context, raceID uuid.UUID) ([]TeamEntry, error) {
	db := conn(ctx, d.db)

	var entries []TeamEntry
	result := db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("leg") }).
		Preload("Members.Fees").
		Where("race_id = ?", raceID).
		Order("name").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	teamIDs := make([]uuid.UUID, 0, len(entries))
	var memberIDs []uuid.UUID
	byID := make(map[uuid.UUID]*TeamEntry, len(entries))
	members := make(map[uuid.UUID]*TeamMember)
	for i := range entries {
		teamIDs = append(teamIDs, entries[i].ID)
		byID[entries[i].ID] = &entries[i]
		for j := range entries[i].Members {
			memberIDs = append(memberIDs, entries[i].Members[j].ID)
			members[entries[i].Members[j].ID] = &entries[i].Members[j]
		}
	}

	orgs, err := findChildren[EntryOrganisation](db, "entry_id", teamIDs)
	if err != nil {
		return nil, err
	}
	fees, err := findChildren[EntryFee](db, "entry_id", teamIDs)
	if err != nil {
		return nil, err
	}
	units, err := findChildren[PunchingUnitEntry](db, "entry_id", memberIDs)
	if err != nil {
		return nil, err
	}

	for _, o := range orgs {
		e := byID[o.EntryID]
		e.Organisations = append(e.Organisations, o)
	}
	for _, f := range fees {
		e := byID[f.EntryID]
		e.Fees = append(e.Fees, f)
	}
	for i := range units {
		members[units[i].EntryID].PunchingUnit = &units[i]
	}

	return entries, nil
}

// DeleteEntriesByRaceID removes every person and team entry of the race with their child rows.
// It returns the number of entries removed.
func (d *EntryDAO) DeleteEntriesByRaceID(ctx context.Context, raceID uuid.UUID) (int64, error) {
	var deleted int64

	err := conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		personIDs := tx.Model(&PersonEntry{}).Select("id").Where("race_id = ?", raceID)
		teamIDs := tx.Model(&TeamEntry{}).Select("id").Where("race_id = ?", raceID)
		memberIDs := tx.Model(&TeamMember{}).Select("id").Where("team_entry_id IN (?)", teamIDs)

		for _, owners := range []*gorm.DB{personIDs, teamIDs, memberIDs} {
			if err := tx.Where("entry_id IN (?)", owners).Delete(&PunchingUnitEntry{}).Error; err != nil {
				return err
			}
		}
		for _, owners := range []*gorm.DB{personIDs, teamIDs} {
			if err := tx.Where("entry_id IN (?)", owners).Delete(&EntryOrganisation{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entry_id IN (?)", owners).Delete(&EntryFee{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("team_member_id IN (?)", memberIDs).Delete(&TeamMemberFee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_entry_id IN (?)", teamIDs).Delete(&TeamMember{}).Error; err != nil {
			return err
		}

		teams := tx.Where("race_id = ?", raceID).Delete(&TeamEntry{})
		if teams.Error != nil {
			return teams.Error
		}
		persons := tx.Where("race_id = ?", raceID).Delete(&PersonEntry{})
		if persons.Error != nil {
			return persons.Error
		}
		deleted = teams.RowsAffected + persons.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
