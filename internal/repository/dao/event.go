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

var (
	ErrEventNotFound   = domain.ErrEventNotFound
	ErrRaceNotFound    = domain.ErrRaceNotFound
	ErrEventorNotFound = domain.ErrEventorNotFound
)

type Eventor struct {
	ID         string `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Federation string `gorm:"not null"`
	BaseURL    string `gorm:"not null"`
	APIKey     string `gorm:"not null"`
}

func (Eventor) TableName() string {
	return "eventor"
}

type Event struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventorID  string    `gorm:"not null;index"`
	EventorRef string    `gorm:"not null"`
	Name       string    `gorm:"not null"`
	StartDate  *time.Time
	FinishDate *time.Time
	Classes    []Class `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Races      []Race  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string {
	return "event"
}

type Class struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_class_event_ref"`
	EventorRef string    `gorm:"not null;uniqueIndex:idx_class_event_ref"`
	Name       string    `gorm:"not null"`
	ShortName  string
}

func (Class) TableName() string {
	return "class"
}

type Race struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EventorRef string    `gorm:"not null"`
	Name       string    `gorm:"not null"`
	Date       *time.Time
}

func (Race) TableName() string {
	return "race"
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// UpsertEvent writes the event and upserts its classes. Races are left untouched.
func (d *EventDAO) UpsertEvent(ctx context.Context, event Event) (Event, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	err := conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&event).Error; err != nil {
			return err
		}

		for i := range event.Classes {
			if event.Classes[i].ID == uuid.Nil {
				event.Classes[i].ID = uuid.New()
			}
			event.Classes[i].EventID = event.ID
		}
		if len(event.Classes) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&event.Classes).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Event{}, classify(err)
	}

	return event, nil
}

func (d *EventDAO) UpsertRace(ctx context.Context, race Race) (Race, error) {
	if race.ID == uuid.Nil {
		race.ID = uuid.New()
	}

	result := conn(ctx, d.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&race)
	if result.Error != nil {
		return Race{}, classify(result.Error)
	}

	return race, nil
}

func (d *EventDAO) UpsertEventor(ctx context.Context, eventor Eventor) (Eventor, error) {
	result := conn(ctx, d.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&eventor)
	if result.Error != nil {
		return Eventor{}, classify(result.Error)
	}

	return eventor, nil
}

func (d *EventDAO) FindEventByID(ctx context.Context, id uuid.UUID) (Event, error) {
	var event Event

	result := conn(ctx, d.db).
		Preload("Classes", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindRaceByID(ctx context.Context, id uuid.UUID) (Race, error) {
	var race Race

	result := conn(ctx, d.db).First(&race, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Race{}, ErrRaceNotFound
		}

		return Race{}, result.Error
	}

	return race, nil
}

// FindRacesByEventID orders races the way race numbers count them: by date, then name.
func (d *EventDAO) FindRacesByEventID(ctx context.Context, eventID uuid.UUID) ([]Race, error) {
	var races []Race

	result := conn(ctx, d.db).
		Where("event_id = ?", eventID).
		Order("date ASC NULLS LAST").
		Order("name").
		Find(&races)
	if result.Error != nil {
		return nil, result.Error
	}

	return races, nil
}

func (d *EventDAO) FindEventorByID(ctx context.Context, id string) (Eventor, error) {
	var eventor Eventor

	result := conn(ctx, d.db).First(&eventor, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Eventor{}, ErrEventorNotFound
		}

		return Eventor{}, result.Error
	}

	return eventor, nil
}

func (d *EventDAO) ListEventors(ctx context.Context) ([]Eventor, error) {
	var eventors []Eventor

	result := conn(ctx, d.db).Order("id").Find(&eventors)
	if result.Error != nil {
		return nil, result.Error
	}

	return eventors, nil
}
