package domain

import "github.com/google/uuid"

type ControlType string

const (
	ControlTypeStart            ControlType = "Start"
	ControlTypeFinish           ControlType = "Finish"
	ControlTypeControl          ControlType = "Control"
	ControlTypeCrossingPoint    ControlType = "CrossingPoint"
	ControlTypeEndOfMarkedRoute ControlType = "EndOfMarkedRoute"
)

// ParseControlType falls back to ControlTypeControl for unknown values.
func ParseControlType(s string) ControlType {
	switch ControlType(s) {
	case ControlTypeStart, ControlTypeFinish, ControlTypeCrossingPoint, ControlTypeEndOfMarkedRoute:
		return ControlType(s)
	default:
		return ControlTypeControl
	}
}

type MapPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type GeoPosition struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MapArea struct {
	TopLeftX     float64 `json:"top_left_x"`
	TopLeftY     float64 `json:"top_left_y"`
	BottomRightX float64 `json:"bottom_right_x"`
	BottomRightY float64 `json:"bottom_right_y"`
}

type RaceMap struct {
	ID     uuid.UUID `json:"id"`
	RaceID uuid.UUID `json:"race_id"`
	Name   string    `json:"name"`
	Scale  *int      `json:"scale,omitempty"`
	Area   *MapArea  `json:"area,omitempty"`
}

type Control struct {
	ID          uuid.UUID    `json:"id"`
	Type        *ControlType `json:"type,omitempty"`
	Code        string       `json:"code"`
	MapPosition *MapPosition `json:"map_position,omitempty"`
	GeoPosition *GeoPosition `json:"geo_position,omitempty"`
	MapID       uuid.UUID    `json:"map_id"`
}

// Course groups the variants of one course family.
type Course struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	MapID    uuid.UUID       `json:"map_id"`
	Variants []CourseVariant `json:"variants"`
	ClassIDs []uuid.UUID     `json:"class_ids"`
}

// MapCourses is one imported map with the courses printed on it.
type MapCourses struct {
	Map     RaceMap  `json:"map"`
	Courses []Course `json:"courses"`
}

type CourseVariant struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name,omitempty"`
	Length      *float64  `json:"length,omitempty"`
	Climb       *float64  `json:"climb,omitempty"`
	CourseID    uuid.UUID `json:"course_id"`
	PrintedMaps *int      `json:"printed_maps,omitempty"`
	Legs        []Leg     `json:"legs"`
}

type Leg struct {
	ID              uuid.UUID `json:"id"`
	SequenceNumber  int       `json:"sequence_number"`
	CourseVariantID uuid.UUID `json:"course_variant_id"`
	Length          *float64  `json:"length,omitempty"`
	// ControlCodes is only known at import time; storage keeps the links, not the order.
	ControlCodes []string `json:"control_codes,omitempty"`
}
