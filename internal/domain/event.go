package domain

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID         uuid.UUID    `json:"id"`
	EventorID  string       `json:"eventor_id"`
	EventorRef string       `json:"eventor_ref"`
	Name       string       `json:"name"`
	StartDate  *time.Time   `json:"start_date,omitempty"`
	FinishDate *time.Time   `json:"finish_date,omitempty"`
	Classes    []EventClass `json:"classes"`
}

type EventClass struct {
	ID         uuid.UUID `json:"id"`
	EventorRef string    `json:"eventor_ref"`
	Name       string    `json:"name"`
	ShortName  string    `json:"short_name"`
}

type Race struct {
	ID         uuid.UUID  `json:"id"`
	EventorRef string     `json:"eventor_ref"`
	Name       string     `json:"name"`
	Date       *time.Time `json:"date,omitempty"`
	EventID    uuid.UUID  `json:"event_id"`
}

// Eventor is the federation endpoint an event is imported from.
type Eventor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Federation string `json:"federation"`
	BaseURL    string `json:"base_url"`
	APIKey     string `json:"-"`
}
