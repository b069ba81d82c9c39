package store

import (
	"context"
	"errors"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"gorm.io/gorm"
)

// GormStore inserts through gorm. The *gorm.DB must be opened with
// TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, table string, rec models.Record) error {
	err := s.db.WithContext(ctx).Table(table).Create(rec).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{
			Code:    CodeUniqueViolation,
			Message: "duplicate key value violates unique constraint on " + table,
			Err:     err,
		}
	}
	return &Error{Message: err.Error(), Err: err}
}
