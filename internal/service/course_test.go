package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
)

const springCupCourses = `<?xml version="1.0" encoding="UTF-8"?>
<CourseData>
  <Event>
    <Name>E1</Name>
    <Class><Name>H21</Name></Class>
    <Class><Name>X99</Name></Class>
  </Event>
  <RaceCourseData>
    <Map>
      <Scale>10000</Scale>
      <MapPositionTopLeft x="0" y="200"/>
      <MapPositionBottomRight x="300" y="0"/>
    </Map>
    <Control type="Start"><Id>S1</Id><Position lng="10.7" lat="59.9"/></Control>
    <Control><Id>31</Id><MapPosition x="10" y="20"/></Control>
    <Control><Id>32</Id></Control>
    <Control><Id>F1</Id></Control>
    <Course numberOfMaps="40">
      <Name>Long A</Name>
      <CourseFamily>Long</CourseFamily>
      <Length>8200</Length>
      <Climb>300</Climb>
      <CourseControl type="Start"><Control>S1</Control></CourseControl>
      <CourseControl type="Control"><Control>31</Control><MapText>1</MapText><LegLength>400</LegLength></CourseControl>
      <CourseControl type="Control"><Control>99</Control></CourseControl>
      <CourseControl type="Finish"><Control>F1</Control></CourseControl>
    </Course>
    <Course>
      <Name>Long B</Name>
      <CourseFamily>Long</CourseFamily>
      <CourseControl type="Start"><Control>S1</Control></CourseControl>
      <CourseControl type="Control"><Control>32</Control></CourseControl>
      <CourseControl type="Finish"><Control>F1</Control></CourseControl>
    </Course>
    <Course>
      <Name>Short</Name>
    </Course>
    <ClassCourseAssignment><ClassName>H21</ClassName><CourseName>Long A</CourseName></ClassCourseAssignment>
    <ClassCourseAssignment><ClassName>d21</ClassName><CourseName>Long B</CourseName></ClassCourseAssignment>
    <ClassCourseAssignment><ClassName>X99</ClassName><CourseName>Long A</CourseName></ClassCourseAssignment>
    <ClassCourseAssignment><ClassName>D21</ClassName><CourseName>Short</CourseName></ClassCourseAssignment>
  </RaceCourseData>
</CourseData>`

type courseFixture struct {
	event  domain.Event
	race   domain.Race
	events *mockEventRepository
	repo   *fakeCourseRepository
	tx     *fakeTransactor
	svc    *CourseService
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	f := &courseFixture{
		event: domain.Event{
			ID:         uuid.New(),
			EventorID:  "NOR",
			EventorRef: "E1",
			Name:       "E1",
			Classes: []domain.EventClass{
				{ID: uuid.New(), EventorRef: "1", Name: "H21"},
				{ID: uuid.New(), EventorRef: "2", Name: "D21"},
			},
		},
		events: &mockEventRepository{},
		repo:   newFakeCourseRepository(),
		tx:     &fakeTransactor{},
	}
	f.race = domain.Race{ID: uuid.New(), EventorRef: "R1", Name: "R1", EventID: f.event.ID}

	f.events.On("FindRaceByID", mock.Anything, f.race.ID).Return(f.race, nil)
	f.events.On("FindEventByID", mock.Anything, f.event.ID).Return(f.event, nil)
	f.svc = NewCourseService(f.events, f.repo, f.tx)

	return f
}

func parseCourses(t *testing.T, doc string) *iof.CourseData {
	t.Helper()

	data, err := iof.ParseCourseData(strings.NewReader(doc))
	require.NoError(t, err)

	return data
}

func coursesByName(courses map[uuid.UUID]domain.Course) map[string]domain.Course {
	byName := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byName[c.Name] = c
	}

	return byName
}

func TestCourseService_SaveCourse(t *testing.T) {
	f := newCourseFixture(t)
	h21, d21 := f.event.Classes[0].ID, f.event.Classes[1].ID

	err := f.svc.SaveCourse(context.Background(), f.race.ID, "Sprint map", parseCourses(t, springCupCourses))
	require.NoError(t, err)

	assert.Equal(t, []string{"course-import:" + f.race.ID.String()}, f.tx.locks)

	require.Len(t, f.repo.maps, 1)
	for _, m := range f.repo.maps {
		assert.Equal(t, "Sprint map", m.Name)
		assert.Equal(t, f.race.ID, m.RaceID)
		require.NotNil(t, m.Scale)
		assert.Equal(t, 10000, *m.Scale)
		require.NotNil(t, m.Area)
		assert.Equal(t, 300.0, m.Area.BottomRightX)
	}

	require.Len(t, f.repo.controls, 4)
	types := make(map[string]domain.ControlType)
	for _, c := range f.repo.controls {
		types[c.Code] = *c.Type
	}
	assert.Equal(t, domain.ControlTypeStart, types["S1"])
	assert.Equal(t, domain.ControlTypeControl, types["31"])
	assert.Equal(t, domain.ControlTypeFinish, types["F1"])

	courses := coursesByName(f.repo.courses)
	require.Len(t, courses, 2)

	long := courses["Long"]
	require.Len(t, long.Variants, 2)
	assert.Equal(t, "Long A", *long.Variants[0].Name)
	assert.Equal(t, "Long B", *long.Variants[1].Name)
	assert.Equal(t, 40, *long.Variants[0].PrintedMaps)
	assert.Equal(t, 8200.0, *long.Variants[0].Length)
	assert.ElementsMatch(t, []uuid.UUID{h21, d21}, long.ClassIDs)

	legs := long.Variants[0].Legs
	require.Len(t, legs, 4)
	assert.Equal(t, 1, legs[0].SequenceNumber)
	assert.Equal(t, []string{"S1"}, legs[0].ControlCodes)
	assert.Equal(t, 1, legs[1].SequenceNumber)
	assert.Equal(t, 400.0, *legs[1].Length)
	assert.Equal(t, 3, legs[2].SequenceNumber)
	assert.Empty(t, legs[2].ControlCodes)
	assert.Equal(t, []string{"F1"}, legs[3].ControlCodes)

	short := courses["Short"]
	require.Len(t, short.Variants, 1)
	assert.Nil(t, short.Variants[0].Name)
	assert.Empty(t, short.Variants[0].Legs)
	assert.Equal(t, []uuid.UUID{d21}, short.ClassIDs)
}

func TestCourseService_SaveCourse_SameNamedCourses(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	doc := `<CourseData>
  <RaceCourseData>
    <Control><Id>31</Id></Control>
    <Control><Id>32</Id></Control>
    <Course><Name>Long</Name><CourseControl><Control>31</Control></CourseControl></Course>
    <Course><Name>Long</Name><CourseControl><Control>32</Control></CourseControl></Course>
  </RaceCourseData>
</CourseData>`

	require.NoError(t, f.svc.SaveCourse(ctx, f.race.ID, "Sprint map", parseCourses(t, doc)))

	courses := coursesByName(f.repo.courses)
	require.Len(t, courses, 1)
	variants := courses["Long"].Variants
	require.Len(t, variants, 2)
	assert.NotEqual(t, variants[0].ID, variants[1].ID)
	assert.NotEqual(t, variants[0].Legs[0].ID, variants[1].Legs[0].ID)
	assert.Equal(t, []string{"31"}, variants[0].Legs[0].ControlCodes)
	assert.Equal(t, []string{"32"}, variants[1].Legs[0].ControlCodes)

	first := []uuid.UUID{variants[0].ID, variants[1].ID}
	require.NoError(t, f.svc.SaveCourse(ctx, f.race.ID, "Sprint map", parseCourses(t, doc)))
	variants = coursesByName(f.repo.courses)["Long"].Variants
	assert.Equal(t, first, []uuid.UUID{variants[0].ID, variants[1].ID})
}

func TestCourseService_SaveCourse_LegWithSeveralControls(t *testing.T) {
	menElite := domain.EventClass{ID: uuid.New(), EventorRef: "C1", Name: "Men Elite"}
	event := domain.Event{ID: uuid.New(), EventorRef: "E1", Name: "E1", Classes: []domain.EventClass{menElite}}
	race := domain.Race{ID: uuid.New(), EventorRef: "R1", Name: "R1", EventID: event.ID}

	events := &mockEventRepository{}
	events.On("FindRaceByID", mock.Anything, race.ID).Return(race, nil)
	events.On("FindEventByID", mock.Anything, event.ID).Return(event, nil)
	repo := newFakeCourseRepository()
	svc := NewCourseService(events, repo, &fakeTransactor{})

	doc := `<CourseData>
  <Event><Name>E1</Name></Event>
  <RaceCourseData>
    <Control><Id>101</Id></Control>
    <Control><Id>102</Id></Control>
    <Control><Id>103</Id></Control>
    <Course>
      <Name>Long</Name>
      <CourseControl><Control>101</Control><Control>102</Control><Control>103</Control></CourseControl>
    </Course>
    <ClassCourseAssignment><ClassName>Men Elite</ClassName><CourseName>Long</CourseName></ClassCourseAssignment>
  </RaceCourseData>
</CourseData>`

	require.NoError(t, svc.SaveCourse(context.Background(), race.ID, "Forest", parseCourses(t, doc)))

	assert.Len(t, repo.controls, 3)
	courses := coursesByName(repo.courses)
	require.Len(t, courses, 1)
	long := courses["Long"]
	require.Len(t, long.Variants, 1)
	assert.Nil(t, long.Variants[0].Name)
	require.Len(t, long.Variants[0].Legs, 1)
	assert.Equal(t, []string{"101", "102", "103"}, long.Variants[0].Legs[0].ControlCodes)
	assert.Equal(t, []uuid.UUID{menElite.ID}, long.ClassIDs)
}

func TestCourseService_SaveCourse_Idempotent(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SaveCourse(ctx, f.race.ID, "Sprint map", parseCourses(t, springCupCourses)))
	first := coursesByName(f.repo.courses)

	require.NoError(t, f.svc.SaveCourse(ctx, f.race.ID, "Sprint map", parseCourses(t, springCupCourses)))

	assert.Len(t, f.repo.maps, 1)
	assert.Len(t, f.repo.controls, 4)
	assert.Equal(t, first, coursesByName(f.repo.courses))

	require.NoError(t, f.svc.SaveCourse(ctx, f.race.ID, "Other map", parseCourses(t, springCupCourses)))
	assert.Len(t, f.repo.maps, 2)
}

func TestCourseService_SaveCourse_Errors(t *testing.T) {
	t.Run("empty course data", func(t *testing.T) {
		f := newCourseFixture(t)

		err := f.svc.SaveCourse(context.Background(), f.race.ID, "map", &iof.CourseData{})
		require.ErrorIs(t, err, ErrValidation)
		f.events.AssertNotCalled(t, "FindRaceByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown race", func(t *testing.T) {
		f := newCourseFixture(t)
		missing := uuid.New()
		f.events.On("FindRaceByID", mock.Anything, missing).Return(domain.Race{}, ErrRaceNotFound)

		err := f.svc.SaveCourse(context.Background(), missing, "map", parseCourses(t, springCupCourses))
		require.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, f.tx.locks)
		assert.Empty(t, f.repo.maps)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newCourseFixture(t)
		f.repo.saveErr = errBoom

		err := f.svc.SaveCourse(context.Background(), f.race.ID, "map", parseCourses(t, springCupCourses))
		require.ErrorIs(t, err, errBoom)
	})
}

func TestCourseService_GetRaceCourses(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SaveCourse(ctx, f.race.ID, "Sprint map", parseCourses(t, springCupCourses)))

	result, err := f.svc.GetRaceCourses(ctx, f.race.ID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Sprint map", result[0].Map.Name)
	assert.Len(t, result[0].Courses, 2)
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, foldName("H21"), foldName(" h21 "))
	assert.Equal(t, foldName("ÅPEN"), foldName("åpen"))
	assert.NotEqual(t, foldName("H21"), foldName("H20"))
}
