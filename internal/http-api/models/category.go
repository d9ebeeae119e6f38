package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category names are unique per owner. The uniqueness index is on
// (user_id, LOWER(name)) and lives in the bootstrap migration because gorm
// tags cannot express an expression index.
type Category struct {
	ID     string `json:"id" gorm:"primaryKey;type:uuid"`
	Name   string `json:"name" gorm:"not null"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;index"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (Category) TableName() string {
	return "categories"
}
