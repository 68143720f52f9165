package dao

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Map struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RaceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Race         *Race     `gorm:"foreignKey:RaceID;constraint:OnDelete:CASCADE"`
	Name         string    `gorm:"not null"`
	Scale        *int
	TopLeftX     *float64
	TopLeftY     *float64
	BottomRightX *float64
	BottomRightY *float64
	Controls     []Control `gorm:"foreignKey:MapID;constraint:OnDelete:CASCADE"`
	Courses      []Course  `gorm:"foreignKey:MapID;constraint:OnDelete:CASCADE"`
}

func (Map) TableName() string {
	return "map"
}

type Control struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	MapID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_control_map_code"`
	Code  string    `gorm:"not null;uniqueIndex:idx_control_map_code"`
	Type  *string
	MapX  *float64
	MapY  *float64
	Lat   *float64
	Lng   *float64
}

func (Control) TableName() string {
	return "control"
}

type Course struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MapID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name     string          `gorm:"not null"`
	Variants []CourseVariant `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Classes  []ClassCourse   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "course"
}

type CourseVariant struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        *string
	Length      *float64
	Climb       *float64
	PrintedMaps *int
	Legs        []Leg `gorm:"foreignKey:CourseVariantID;constraint:OnDelete:CASCADE"`
}

func (CourseVariant) TableName() string {
	return "course_variant"
}

type Leg struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseVariantID uuid.UUID `gorm:"type:uuid;not null;index"`
	SequenceNumber  int       `gorm:"not null"`
	Length          *float64
	Links           []LegControl `gorm:"foreignKey:LegID;constraint:OnDelete:CASCADE"`
}

func (Leg) TableName() string {
	return "leg"
}

type LegControl struct {
	LegID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ControlID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Control   *Control  `gorm:"foreignKey:ControlID;constraint:OnDelete:CASCADE"`
}

func (LegControl) TableName() string {
	return "leg_control"
}

type ClassCourse struct {
	ClassID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Class    *Class    `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (ClassCourse) TableName() string {
	return "class_course"
}

type CourseDAO struct {
	db *gorm.DB
}

func NewCourseDAO(db *gorm.DB) *CourseDAO {
	return &CourseDAO{
		db: db,
	}
}

func (d *CourseDAO) UpsertMap(ctx context.Context, m Map) (Map, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	result := conn(ctx, d.db).Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m)
	if result.Error != nil {
		return Map{}, classify(result.Error)
	}

	return m, nil
}

func (d *CourseDAO) UpsertControls(ctx context.Context, controls []Control) error {
	if len(controls) == 0 {
		return nil
	}
	for i := range controls {
		if controls[i].ID == uuid.Nil {
			controls[i].ID = uuid.New()
		}
	}

	result := conn(ctx, d.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&controls)
	if result.Error != nil {
		return classify(result.Error)
	}

	return nil
}

// UpsertCourse writes the course row only. Variants and legs have their own calls.
func (d *CourseDAO) UpsertCourse(ctx context.Context, course Course) (Course, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}

	result := conn(ctx, d.db).Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&course)
	if result.Error != nil {
		return Course{}, classify(result.Error)
	}

	return course, nil
}

func (d *CourseDAO) UpsertVariant(ctx context.Context, variant CourseVariant) (CourseVariant, error) {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}

	result := conn(ctx, d.db).Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&variant)
	if result.Error != nil {
		return CourseVariant{}, classify(result.Error)
	}

	return variant, nil
}

// ReplaceLegs deletes every leg of the variant with its control links and inserts legs in their place.
func (d *CourseDAO) ReplaceLegs(ctx context.Context, variantID uuid.UUID, legs []Leg) error {
	err := conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		legIDs := tx.Model(&Leg{}).Select("id").Where("course_variant_id = ?", variantID)
		if err := tx.Where("leg_id IN (?)", legIDs).Delete(&LegControl{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_variant_id = ?", variantID).Delete(&Leg{}).Error; err != nil {
			return err
		}
		if len(legs) == 0 {
			return nil
		}

		var links []LegControl
		for i := range legs {
			if legs[i].ID == uuid.Nil {
				legs[i].ID = uuid.New()
			}
			legs[i].CourseVariantID = variantID
			for _, l := range legs[i].Links {
				links = append(links, LegControl{LegID: legs[i].ID, ControlID: l.ControlID})
			}
		}

		if err := tx.Omit(clause.Associations).Create(&legs).Error; err != nil {
			return err
		}
		if len(links) > 0 {
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return classify(err)
	}

	return nil
}

// ReplaceClassCourses set-replaces the classes linked to a course.
func (d *CourseDAO) ReplaceClassCourses(ctx context.Context, courseID uuid.UUID, classIDs []uuid.UUID) error {
	err := conn(ctx, d.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&ClassCourse{}).Error; err != nil {
			return err
		}
		if len(classIDs) == 0 {
			return nil
		}

		links := make([]ClassCourse, 0, len(classIDs))
		for _, id := range classIDs {
			links = append(links, ClassCourse{ClassID: id, CourseID: courseID})
		}

		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
	if err != nil {
		return classify(err)
	}

	return nil
}

func (d *CourseDAO) FindControlIDsByCodes(ctx context.Context, mapID uuid.UUID, codes []string) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(codes))
	if len(codes) == 0 {
		return ids, nil
	}

	var controls []Control
	result := conn(ctx, d.db).Select("id", "code").Where("map_id = ? AND code IN ?", mapID, codes).Find(&controls)
	if result.Error != nil {
		return nil, result.Error
	}

	for _, c := range controls {
		ids[c.Code] = c.ID
	}

	return ids, nil
}

func (d *CourseDAO) FindMapsByRaceID(ctx context.Context, raceID uuid.UUID) ([]Map, error) {
	var maps []Map

	result := conn(ctx, d.db).Where("race_id = ?", raceID).Order("name").Find(&maps)
	if result.Error != nil {
		return nil, result.Error
	}

	return maps, nil
}

func (d *CourseDAO) FindCoursesByMapID(ctx context.Context, mapID uuid.UUID) ([]Course, error) {
	var courses []Course

	result := conn(ctx, d.db).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("name NULLS FIRST") }).
		Preload("Variants.Legs", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_number") }).
		Preload("Variants.Legs.Links.Control").
		Preload("Classes").
		Where("map_id = ?", mapID).
		Order("name").
		Find(&courses)
	if result.Error != nil {
		return nil, result.Error
	}

	return courses, nil
}
