package dao

import "gorm.io/gorm"

// InitTables creates the schema for development and tests. Production databases are migrated separately.
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Eventor{},
		&Event{},
		&Class{},
		&Race{},
		&Map{},
		&Control{},
		&Course{},
		&CourseVariant{},
		&Leg{},
		&LegControl{},
		&ClassCourse{},
		&PersonEntry{},
		&TeamEntry{},
		&TeamMember{},
		&EntryOrganisation{},
		&PunchingUnitEntry{},
		&EntryFee{},
		&TeamMemberFee{},
	)
}

func dropAllTables(db *gorm.DB) error {
	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	for _, tableName := range tableNames {
		if err := db.Exec(`DROP TABLE IF EXISTS "` + tableName + `" CASCADE`).Error; err != nil {
			return err
		}
	}

	return nil
}
