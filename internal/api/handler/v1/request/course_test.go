package request

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCourseImportRequest_Validate(t *testing.T) {
	raceID := uuid.NewString()

	tests := []struct {
		name    string
		req     CourseImportRequest
		wantErr bool
	}{
		{name: "valid", req: CourseImportRequest{RaceID: raceID, MapName: "Sprint A4"}},
		{name: "single character", req: CourseImportRequest{RaceID: raceID, MapName: "A"}},
		{name: "unicode", req: CourseImportRequest{RaceID: raceID, MapName: "Østmarka nord"}},
		{name: "max length", req: CourseImportRequest{RaceID: raceID, MapName: strings.Repeat("a", 100)}},
		{name: "too long", req: CourseImportRequest{RaceID: raceID, MapName: strings.Repeat("a", 101)}, wantErr: true},
		{name: "empty", req: CourseImportRequest{RaceID: raceID}, wantErr: true},
		{name: "blank", req: CourseImportRequest{RaceID: raceID, MapName: "   "}, wantErr: true},
		{name: "leading space", req: CourseImportRequest{RaceID: raceID, MapName: " Sprint"}, wantErr: true},
		{name: "trailing space", req: CourseImportRequest{RaceID: raceID, MapName: "Sprint "}, wantErr: true},
		{name: "line break", req: CourseImportRequest{RaceID: raceID, MapName: "Sprint\nA"}, wantErr: true},
		{name: "bad race id", req: CourseImportRequest{RaceID: "42", MapName: "Sprint"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRaceAndEventRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RaceRequest{RaceID: uuid.NewString()}).Validate())
	assert.Error(t, (&RaceRequest{RaceID: "race"}).Validate())
	assert.NoError(t, (&EventRequest{EventID: uuid.NewString()}).Validate())
	assert.Error(t, (&EventRequest{}).Validate())
}
