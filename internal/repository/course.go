package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/repository/dao"
)

var (
	ErrDuplicate        = dao.ErrDuplicate
	ErrMissingReference = dao.ErrMissingReference
)

type CourseDAO interface {
	UpsertMap(ctx context.Context, m dao.Map) (dao.Map, error)
	UpsertControls(ctx context.Context, controls []dao.Control) error
	UpsertCourse(ctx context.Context, course dao.Course) (dao.Course, error)
	UpsertVariant(ctx context.Context, variant dao.CourseVariant) (dao.CourseVariant, error)
	ReplaceLegs(ctx context.Context, variantID uuid.UUID, legs []dao.Leg) error
	ReplaceClassCourses(ctx context.Context, courseID uuid.UUID, classIDs []uuid.UUID) error
	FindControlIDsByCodes(ctx context.Context, mapID uuid.UUID, codes []string) (map[string]uuid.UUID, error)
	FindMapsByRaceID(ctx context.Context, raceID uuid.UUID) ([]dao.Map, error)
	FindCoursesByMapID(ctx context.Context, mapID uuid.UUID) ([]dao.Course, error)
}

type CourseRepository struct {
	dao CourseDAO
}

func NewCourseRepository(dao CourseDAO) *CourseRepository {
	return &CourseRepository{
		dao: dao,
	}
}

func (r *CourseRepository) SaveMap(ctx context.Context, m domain.RaceMap) (domain.RaceMap, error) {
	row := dao.Map{
		ID:     m.ID,
		RaceID: m.RaceID,
		Name:   m.Name,
		Scale:  m.Scale,
	}
	if m.Area != nil {
		row.TopLeftX = &m.Area.TopLeftX
		row.TopLeftY = &m.Area.TopLeftY
		row.BottomRightX = &m.Area.BottomRightX
		row.BottomRightY = &m.Area.BottomRightY
	}

	saved, err := r.dao.UpsertMap(ctx, row)
	if err != nil {
		return domain.RaceMap{}, fmt.Errorf("r.dao.UpsertMap -> %w", err)
	}

	return r.mapDaoToDomain(saved), nil
}

func (r *CourseRepository) SaveControls(ctx context.Context, controls []domain.Control) error {
	rows := make([]dao.Control, 0, len(controls))
	for _, c := range controls {
		row := dao.Control{
			ID:    c.ID,
			MapID: c.MapID,
			Code:  c.Code,
		}
		if c.Type != nil {
			t := string(*c.Type)
			row.Type = &t
		}
		if c.MapPosition != nil {
			row.MapX = &c.MapPosition.X
			row.MapY = &c.MapPosition.Y
		}
		if c.GeoPosition != nil {
			row.Lat = &c.GeoPosition.Lat
			row.Lng = &c.GeoPosition.Lng
		}
		rows = append(rows, row)
	}

	if err := r.dao.UpsertControls(ctx, rows); err != nil {
		return fmt.Errorf("r.dao.UpsertControls -> %w", err)
	}

	return nil
}

// SaveCourse upserts the course with its variants and set-replaces legs and class links.
// Leg control codes must name controls already saved on the course's map.
func (r *CourseRepository) SaveCourse(ctx context.Context, course domain.Course) (domain.Course, error) {
	saved, err := r.dao.UpsertCourse(ctx, dao.Course{
		ID:    course.ID,
		MapID: course.MapID,
		Name:  course.Name,
	})
	if err != nil {
		return domain.Course{}, fmt.Errorf("r.dao.UpsertCourse -> %w", err)
	}
	course.ID = saved.ID

	var codes []string
	for _, v := range course.Variants {
		for _, l := range v.Legs {
			codes = append(codes, l.ControlCodes...)
		}
	}
	controlIDs, err := r.dao.FindControlIDsByCodes(ctx, course.MapID, codes)
	if err != nil {
		return domain.Course{}, fmt.Errorf("r.dao.FindControlIDsByCodes -> %w", err)
	}

	for i, v := range course.Variants {
		variant, err := r.dao.UpsertVariant(ctx, dao.CourseVariant{
			ID:          v.ID,
			CourseID:    course.ID,
			Name:        v.Name,
			Length:      v.Length,
			Climb:       v.Climb,
			PrintedMaps: v.PrintedMaps,
		})
		if err != nil {
			return domain.Course{}, fmt.Errorf("r.dao.UpsertVariant -> %w", err)
		}
		course.Variants[i].ID = variant.ID
		course.Variants[i].CourseID = course.ID

		legs := make([]dao.Leg, 0, len(v.Legs))
		for _, l := range v.Legs {
			leg := dao.Leg{
				ID:             l.ID,
				SequenceNumber: l.SequenceNumber,
				Length:         l.Length,
			}
			for _, code := range l.ControlCodes {
				if id, ok := controlIDs[code]; ok {
					leg.Links = append(leg.Links, dao.LegControl{ControlID: id})
				}
			}
			legs = append(legs, leg)
		}

		if err = r.dao.ReplaceLegs(ctx, variant.ID, legs); err != nil {
			return domain.Course{}, fmt.Errorf("r.dao.ReplaceLegs -> %w", err)
		}
	}

	if err = r.dao.ReplaceClassCourses(ctx, course.ID, course.ClassIDs); err != nil {
		return domain.Course{}, fmt.Errorf("r.dao.ReplaceClassCourses -> %w", err)
	}

	return course, nil
}

func (r *CourseRepository) FindMapsByRaceID(ctx context.Context, raceID uuid.UUID) ([]domain.RaceMap, error) {
	found, err := r.dao.FindMapsByRaceID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMapsByRaceID -> %w", err)
	}

	maps := make([]domain.RaceMap, 0, len(found))
	for _, m := range found {
		maps = append(maps, r.mapDaoToDomain(m))
	}

	return maps, nil
}

func (r *CourseRepository) FindCoursesByMapID(ctx context.Context, mapID uuid.UUID) ([]domain.Course, error) {
	found, err := r.dao.FindCoursesByMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCoursesByMapID -> %w", err)
	}

	courses := make([]domain.Course, 0, len(found))
	for _, c := range found {
		courses = append(courses, r.courseDaoToDomain(c))
	}

	return courses, nil
}

func (r *CourseRepository) mapDaoToDomain(m dao.Map) domain.RaceMap {
	raceMap := domain.RaceMap{
		ID:     m.ID,
		RaceID: m.RaceID,
		Name:   m.Name,
		Scale:  m.Scale,
	}
	if m.TopLeftX != nil && m.TopLeftY != nil && m.BottomRightX != nil && m.BottomRightY != nil {
		raceMap.Area = &domain.MapArea{
			TopLeftX:     *m.TopLeftX,
			TopLeftY:     *m.TopLeftY,
			BottomRightX: *m.BottomRightX,
			BottomRightY: *m.BottomRightY,
		}
	}

	return raceMap
}

func (r *CourseRepository) courseDaoToDomain(c dao.Course) domain.Course {
	course := domain.Course{
		ID:       c.ID,
		Name:     c.Name,
		MapID:    c.MapID,
		Variants: make([]domain.CourseVariant, 0, len(c.Variants)),
		ClassIDs: make([]uuid.UUID, 0, len(c.Classes)),
	}
	for _, cc := range c.Classes {
		course.ClassIDs = append(course.ClassIDs, cc.ClassID)
	}

	for _, v := range c.Variants {
		variant := domain.CourseVariant{
			ID:          v.ID,
			Name:        v.Name,
			Length:      v.Length,
			Climb:       v.Climb,
			CourseID:    v.CourseID,
			PrintedMaps: v.PrintedMaps,
			Legs:        make([]domain.Leg, 0, len(v.Legs)),
		}
		for _, l := range v.Legs {
			leg := domain.Leg{
				ID:              l.ID,
				SequenceNumber:  l.SequenceNumber,
				CourseVariantID: l.CourseVariantID,
				Length:          l.Length,
			}
			for _, link := range l.Links {
				if link.Control != nil {
					leg.ControlCodes = append(leg.ControlCodes, link.Control.Code)
				}
			}
			sort.Strings(leg.ControlCodes)
			variant.Legs = append(variant.Legs, leg)
		}
		course.Variants = append(course.Variants, variant)
	}

	return course
}
