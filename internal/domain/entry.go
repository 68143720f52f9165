package domain

import (
	"time"

	"github.com/google/uuid"
)

type PunchingUnitType string

const (
	PunchingUnitTypeSI    PunchingUnitType = "SI"
	PunchingUnitTypeEmit  PunchingUnitType = "Emit"
	PunchingUnitTypeOther PunchingUnitType = "Other"
)

// ParsePunchingUnitType maps both stored values and the IOF punchingSystem attribute.
func ParsePunchingUnitType(s string) PunchingUnitType {
	switch PunchingUnitType(s) {
	case PunchingUnitTypeSI, PunchingUnitTypeEmit:
		return PunchingUnitType(s)
	default:
		return PunchingUnitTypeOther
	}
}

type PunchingUnit struct {
	ID   string           `json:"id"`
	Type PunchingUnitType `json:"type"`
}

type Result struct {
	Time       *int         `json:"time,omitempty"`
	TimeBehind *int         `json:"time_behind,omitempty"`
	Position   *int         `json:"position,omitempty"`
	Status     ResultStatus `json:"status"`
}

// Entry is the read-only view shared by person and team entries.
type Entry interface {
	EntryID() uuid.UUID
	Race() uuid.UUID
	Class() uuid.UUID
	BibNumber() *string
	EntryStatus() CompetitorStatus
	Start() *time.Time
	Finish() *time.Time
	EntryResult() *Result
}

type PersonEntry struct {
	ID               uuid.UUID        `json:"id"`
	RaceID           uuid.UUID        `json:"race_id"`
	ClassID          uuid.UUID        `json:"class_id"`
	EventorRef       string           `json:"eventor_ref"`
	PersonEventorRef string           `json:"person_eventor_ref,omitempty"`
	Name             PersonName       `json:"name"`
	BirthYear        *int             `json:"birth_year,omitempty"`
	Nationality      *string          `json:"nationality,omitempty"`
	Gender           Gender           `json:"gender"`
	Bib              *string          `json:"bib,omitempty"`
	Status           CompetitorStatus `json:"status"`
	StartTime        *time.Time       `json:"start_time,omitempty"`
	FinishTime       *time.Time       `json:"finish_time,omitempty"`
	Result           *Result          `json:"result,omitempty"`
	PunchingUnit     *PunchingUnit    `json:"punching_unit,omitempty"`
	Organisation     *Organisation    `json:"organisation,omitempty"`
	EntryFeeIDs      []string         `json:"entry_fee_ids"`
}

func (e PersonEntry) EntryID() uuid.UUID            { return e.ID }
func (e PersonEntry) Race() uuid.UUID               { return e.RaceID }
func (e PersonEntry) Class() uuid.UUID              { return e.ClassID }
func (e PersonEntry) BibNumber() *string            { return e.Bib }
func (e PersonEntry) EntryStatus() CompetitorStatus { return e.Status }
func (e PersonEntry) Start() *time.Time             { return e.StartTime }
func (e PersonEntry) Finish() *time.Time            { return e.FinishTime }
func (e PersonEntry) EntryResult() *Result          { return e.Result }

type TeamEntry struct {
	ID            uuid.UUID        `json:"id"`
	RaceID        uuid.UUID        `json:"race_id"`
	ClassID       uuid.UUID        `json:"class_id"`
	EventorRef    string           `json:"eventor_ref"`
	Name          string           `json:"name"`
	Organisations []Organisation   `json:"organisations"`
	Members       []TeamMember     `json:"members"`
	EntryFeeIDs   []string         `json:"entry_fee_ids"`
	Bib           *string          `json:"bib,omitempty"`
	Status        CompetitorStatus `json:"status"`
	StartTime     *time.Time       `json:"start_time,omitempty"`
	FinishTime    *time.Time       `json:"finish_time,omitempty"`
	Result        *Result          `json:"result,omitempty"`
}

func (e TeamEntry) EntryID() uuid.UUID            { return e.ID }
func (e TeamEntry) Race() uuid.UUID               { return e.RaceID }
func (e TeamEntry) Class() uuid.UUID              { return e.ClassID }
func (e TeamEntry) BibNumber() *string            { return e.Bib }
func (e TeamEntry) EntryStatus() CompetitorStatus { return e.Status }
func (e TeamEntry) Start() *time.Time             { return e.StartTime }
func (e TeamEntry) Finish() *time.Time            { return e.FinishTime }
func (e TeamEntry) EntryResult() *Result          { return e.Result }

type TeamMember struct {
	ID               uuid.UUID     `json:"id"`
	PersonEventorRef string        `json:"person_eventor_ref,omitempty"`
	Leg              int           `json:"leg"`
	Name             PersonName    `json:"name"`
	BirthYear        *int          `json:"birth_year,omitempty"`
	Nationality      *string       `json:"nationality,omitempty"`
	Gender           Gender        `json:"gender"`
	StartTime        *time.Time    `json:"start_time,omitempty"`
	FinishTime       *time.Time    `json:"finish_time,omitempty"`
	LegResult        *Result       `json:"leg_result,omitempty"`
	OverallResult    *Result       `json:"overall_result,omitempty"`
	PunchingUnit     *PunchingUnit `json:"punching_unit,omitempty"`
	EntryFeeIDs      []string      `json:"entry_fee_ids"`
}
