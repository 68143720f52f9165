package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
)

type EventRepository interface {
	FindEventByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	FindRaceByID(ctx context.Context, id uuid.UUID) (domain.Race, error)
	FindRacesByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.Race, error)
	FindEventorByID(ctx context.Context, id string) (domain.Eventor, error)
}

type CourseRepository interface {
	SaveMap(ctx context.Context, m domain.RaceMap) (domain.RaceMap, error)
	SaveControls(ctx context.Context, controls []domain.Control) error
	SaveCourse(ctx context.Context, course domain.Course) (domain.Course, error)
	FindMapsByRaceID(ctx context.Context, raceID uuid.UUID) ([]domain.RaceMap, error)
	FindCoursesByMapID(ctx context.Context, mapID uuid.UUID) ([]domain.Course, error)
}

type CourseService struct {
	eventRepo  EventRepository
	courseRepo CourseRepository
	tx         Transactor
}

func NewCourseService(eventRepo EventRepository, courseRepo CourseRepository, tx Transactor) *CourseService {
	return &CourseService{
		eventRepo:  eventRepo,
		courseRepo: courseRepo,
		tx:         tx,
	}
}

// SaveCourse imports the map, controls and courses of the first RaceCourseData in data for the race.
// Everything is written in one transaction.
func (s *CourseService) SaveCourse(ctx context.Context, raceID uuid.UUID, mapName string, data *iof.CourseData) error {
	if data == nil || len(data.RaceCourseData) == 0 {
		return fmt.Errorf("%w: course data must contain at least one RaceCourseData element", ErrValidation)
	}

	race, err := s.eventRepo.FindRaceByID(ctx, raceID)
	if err != nil {
		return fmt.Errorf("s.eventRepo.FindRaceByID -> %w", err)
	}

	event, err := s.eventRepo.FindEventByID(ctx, race.EventID)
	if err != nil {
		return fmt.Errorf("s.eventRepo.FindEventByID -> %w", err)
	}

	if len(data.RaceCourseData) > 1 {
		zap.L().Warn("only the first RaceCourseData is imported",
			zap.String("race_id", raceID.String()),
			zap.Int("race_course_data", len(data.RaceCourseData)))
	}
	rcd := data.RaceCourseData[0]

	classes := newClassIndex(event.Classes, courseDataClassNames(data.Event, rcd))
	raceMap := buildRaceMap(race.ID, mapName, rcd.Maps)
	controls := buildControls(raceMap.ID, rcd)
	courses := buildCourses(raceMap.ID, rcd, controls, classes)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tx.LockImport(ctx, "course-import:"+raceID.String()); err != nil {
			return fmt.Errorf("s.tx.LockImport -> %w", err)
		}

		if _, err := s.courseRepo.SaveMap(ctx, raceMap); err != nil {
			return fmt.Errorf("s.courseRepo.SaveMap -> %w", err)
		}

		if err := s.courseRepo.SaveControls(ctx, controls); err != nil {
			return fmt.Errorf("s.courseRepo.SaveControls -> %w", err)
		}

		for _, course := range courses {
			if _, err := s.courseRepo.SaveCourse(ctx, course); err != nil {
				return fmt.Errorf("s.courseRepo.SaveCourse -> %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("course data imported",
		zap.String("race_id", raceID.String()),
		zap.String("map", mapName),
		zap.Int("controls", len(controls)),
		zap.Int("courses", len(courses)))

	return nil
}

// GetRaceCourses returns every map imported for the race with its courses.
func (s *CourseService) GetRaceCourses(ctx context.Context, raceID uuid.UUID) ([]domain.MapCourses, error) {
	if _, err := s.eventRepo.FindRaceByID(ctx, raceID); err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindRaceByID -> %w", err)
	}

	maps, err := s.courseRepo.FindMapsByRaceID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("s.courseRepo.FindMapsByRaceID -> %w", err)
	}

	result := make([]domain.MapCourses, 0, len(maps))
	for _, m := range maps {
		courses, err := s.courseRepo.FindCoursesByMapID(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("s.courseRepo.FindCoursesByMapID -> %w", err)
		}
		result = append(result, domain.MapCourses{Map: m, Courses: courses})
	}

	return result, nil
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// classIndex resolves external class names to event classes, ignoring case.
type classIndex map[string]uuid.UUID

func newClassIndex(eventClasses []domain.EventClass, names []string) classIndex {
	known := make(map[string]uuid.UUID, len(eventClasses))
	for _, c := range eventClasses {
		known[foldName(c.Name)] = c.ID
	}

	idx := make(classIndex, len(names))
	for _, name := range names {
		key := foldName(name)
		if _, done := idx[key]; done {
			continue
		}
		if id, ok := known[key]; ok {
			idx[key] = id
			continue
		}
		zap.L().Warn("class in course data not found in event", zap.String("class", name))
		idx[key] = uuid.Nil
	}

	return idx
}

func (idx classIndex) lookup(name string) (uuid.UUID, bool) {
	id, ok := idx[foldName(name)]
	return id, ok && id != uuid.Nil
}

func courseDataClassNames(event *iof.Event, rcd iof.RaceCourseData) []string {
	var names []string
	if event != nil {
		for _, c := range event.Classes {
			names = append(names, c.Name)
		}
	}
	for _, a := range rcd.ClassCourseAssignments {
		names = append(names, a.ClassName)
	}

	return names
}

func buildRaceMap(raceID uuid.UUID, name string, maps []iof.Map) domain.RaceMap {
	raceMap := domain.RaceMap{
		ID:     mapID(raceID, name),
		RaceID: raceID,
		Name:   name,
	}
	if len(maps) == 0 {
		return raceMap
	}

	m := maps[0]
	if m.Scale != nil {
		scale := int(*m.Scale)
		raceMap.Scale = &scale
	}
	if m.MapPositionTopLeft != nil && m.MapPositionBottomRight != nil {
		raceMap.Area = &domain.MapArea{
			TopLeftX:     m.MapPositionTopLeft.X,
			TopLeftY:     m.MapPositionTopLeft.Y,
			BottomRightX: m.MapPositionBottomRight.X,
			BottomRightY: m.MapPositionBottomRight.Y,
		}
	}

	return raceMap
}

func buildControls(mapID uuid.UUID, rcd iof.RaceCourseData) []domain.Control {
	// type of the first course leg referencing each code
	legTypes := make(map[string]string)
	for _, course := range rcd.Courses {
		for _, cc := range course.CourseControls {
			for _, code := range cc.Controls {
				code = strings.TrimSpace(code)
				if _, ok := legTypes[code]; !ok {
					legTypes[code] = cc.Type
				}
			}
		}
	}

	seen := make(map[string]bool, len(rcd.Controls))
	controls := make([]domain.Control, 0, len(rcd.Controls))
	for _, c := range rcd.Controls {
		code := c.ID.String()
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		controlType := domain.ControlTypeControl
		if c.Type != "" {
			controlType = domain.ParseControlType(c.Type)
		} else if t, ok := legTypes[code]; ok {
			controlType = domain.ParseControlType(t)
		}

		control := domain.Control{
			ID:    controlID(mapID, code),
			Type:  &controlType,
			Code:  code,
			MapID: mapID,
		}
		if c.MapPosition != nil {
			control.MapPosition = &domain.MapPosition{X: c.MapPosition.X, Y: c.MapPosition.Y}
		}
		if c.Position != nil {
			control.GeoPosition = &domain.GeoPosition{Lat: c.Position.Lat, Lng: c.Position.Lng}
		}
		controls = append(controls, control)
	}

	return controls
}

func buildCourses(mapID uuid.UUID, rcd iof.RaceCourseData, controls []domain.Control, classes classIndex) []domain.Course {
	known := make(map[string]bool, len(controls))
	for _, c := range controls {
		known[c.Code] = true
	}

	var order []string
	families := make(map[string]*domain.Course)
	for _, ext := range rcd.Courses {
		name := strings.TrimSpace(ext.Name)
		family := strings.TrimSpace(ext.CourseFamily)
		key := family
		if key == "" {
			key = name
		}

		course, ok := families[key]
		if !ok {
			course = &domain.Course{
				ID:    courseID(mapID, key),
				Name:  key,
				MapID: mapID,
			}
			families[key] = course
			order = append(order, key)
		}

		variant := domain.CourseVariant{
			ID:          variantID(course.ID, name, len(course.Variants)),
			Length:      ext.Length,
			Climb:       ext.Climb,
			CourseID:    course.ID,
			PrintedMaps: ext.NumberOfMaps,
		}
		if family != "" {
			variant.Name = &name
		}
		variant.Legs = buildLegs(variant.ID, ext.CourseControls, known)
		course.Variants = append(course.Variants, variant)

		for _, a := range rcd.ClassCourseAssignments {
			if strings.TrimSpace(a.CourseName) != name {
				continue
			}
			if id, ok := classes.lookup(a.ClassName); ok && !containsID(course.ClassIDs, id) {
				course.ClassIDs = append(course.ClassIDs, id)
			}
		}
	}

	courses := make([]domain.Course, 0, len(order))
	for _, key := range order {
		courses = append(courses, *families[key])
	}

	return courses
}

func buildLegs(variantID uuid.UUID, courseControls []iof.CourseControl, known map[string]bool) []domain.Leg {
	legs := make([]domain.Leg, 0, len(courseControls))
	for i, cc := range courseControls {
		seq, err := strconv.Atoi(strings.TrimSpace(cc.MapText))
		if err != nil {
			seq = i + 1
		}

		leg := domain.Leg{
			ID:              legID(variantID, i),
			SequenceNumber:  seq,
			CourseVariantID: variantID,
			Length:          cc.LegLength,
		}
		for _, code := range cc.Controls {
			code = strings.TrimSpace(code)
			if known[code] {
				leg.ControlCodes = append(leg.ControlCodes, code)
			}
		}
		legs = append(legs, leg)
	}

	return legs
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}

	return false
}
