package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Zone struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	Description *string                     `json:"description"`
	AdminUsers  datatypes.JSONSlice[string] `gorm:"not null" json:"admin_users"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Zone) TableName() string { return "zones" }
