package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Agency struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	ZoneID      snowflake.ID                `gorm:"not null;index" json:"zone_id"`
	Description *string                     `json:"description"`
	AdminUsers  datatypes.JSONSlice[string] `gorm:"not null" json:"admin_users"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Agency) TableName() string { return "agencies" }
