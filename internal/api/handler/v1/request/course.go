package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	// 1-100 characters, no leading or trailing whitespace.
	mapNameRegexPattern = `^(?!\s)[^\r\n]{1,100}(?<!\s)\z`
)

var (
	mapNameExp        = regexp2.MustCompile(mapNameRegexPattern, regexp2.None)
	errInvalidMapName = errors.New("the Map-Name header must be 1-100 characters without surrounding whitespace or line breaks")
)

// CourseImportRequest holds the non-body inputs of a course import.
type CourseImportRequest struct {
	RaceID  string `json:"race_id"`
	MapName string `json:"map_name"`
}

func (req *CourseImportRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.RaceID, validation.Required, is.UUID),
		validation.Field(&req.MapName, validation.Required),
	)
	if err != nil {
		return err
	}

	ok, err := mapNameExp.MatchString(req.MapName)
	if err != nil || !ok {
		return errInvalidMapName
	}

	return nil
}

type RaceRequest struct {
	RaceID string `json:"race_id"`
}

func (req *RaceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RaceID, validation.Required, is.UUID),
	)
}

type EventRequest struct {
	EventID string `json:"event_id"`
}

func (req *EventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, is.UUID),
	)
}

type CompetitorRequest struct {
	CompetitorID string `json:"competitor_id"`
}

func (req *CompetitorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CompetitorID, validation.Required, is.UUID),
	)
}
