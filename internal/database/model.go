package database

import (
	"time"
)

// Setting is one row of the key/value settings table.
type Setting struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
