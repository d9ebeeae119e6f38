package models

import "time"

// Migration records an applied migration name so the runner can skip it on
// subsequent startups.
type Migration struct {
	Name      string    `json:"name" gorm:"primaryKey"`
	AppliedAt time.Time `json:"applied_at" gorm:"not null"`
}

func (Migration) TableName() string {
	return "migrations"
}
