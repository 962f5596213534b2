package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wmstudio/internal/templates"
)

// SettingsKV stores template collections in the settings table.
type SettingsKV struct {
	db *gorm.DB
}

func NewSettingsKV(db *gorm.DB) *SettingsKV {
	return &SettingsKV{db: db}
}

func (s *SettingsKV) Get(key string) ([]byte, error) {
	var row Setting
	err := s.db.Where("`key` = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, templates.ErrNoValue
	}
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

// Put replaces the value with a single upsert statement.
func (s *SettingsKV) Put(key string, value []byte) error {
	row := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
