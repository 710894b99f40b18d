package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Gare is a railway station holding telecom lines.
type Gare struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	AgencyID    snowflake.ID                `gorm:"not null;index" json:"agency_id"`
	Description *string                     `json:"description"`
	FieldAgents datatypes.JSONSlice[string] `gorm:"not null" json:"field_agents"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Gare) TableName() string { return "gares" }
