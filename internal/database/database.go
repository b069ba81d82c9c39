package database

import (
	"fmt"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables names the three registration tables.
type Tables struct {
	Attendee string
	VIP      string
	Faculty  string
}

func (t Tables) For(kind models.Kind) string {
	switch kind {
	case models.KindVIP:
		return t.VIP
	case models.KindFaculty:
		return t.Faculty
	default:
		return t.Attendee
	}
}

// Connect opens the SQLite database and migrates the registration tables.
// Constraint failures are translated so callers can match gorm.ErrDuplicatedKey.
func Connect(path string, tables Tables) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db, tables); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB, tables Tables) error {
	migrations := []struct {
		table string
		model any
	}{
		{tables.Attendee, &models.AttendeeRegistration{}},
		{tables.VIP, &models.VipRegistration{}},
		{tables.Faculty, &models.FacultyRegistration{}},
	}
	for _, m := range migrations {
		if err := db.Table(m.table).AutoMigrate(m.model); err != nil {
			return fmt.Errorf("failed to auto migrate %s: %w", m.table, err)
		}
	}
	return nil
}
