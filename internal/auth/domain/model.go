// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleZoneAdmin  Role = "zone_admin"
	RoleFieldAgent Role = "field_agent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleZoneAdmin, RoleFieldAgent:
		return true
	default:
		return false
	}
}

// User represents a system user account.
type User struct {
	ID               snowflake.ID                `gorm:"primaryKey" json:"id"`
	Email            string                      `gorm:"column:email;not null;uniqueIndex" json:"email"`
	HashedPassword   string                      `gorm:"column:hashed_password;type:text;not null" json:"-"`
	FullName         string                      `gorm:"column:full_name;not null" json:"full_name"`
	Role             Role                        `gorm:"column:role;not null" json:"role"`
	IsActive         bool                        `gorm:"column:is_active;not null;default:true" json:"is_active"`
	AssignedZones    datatypes.JSONSlice[string] `gorm:"column:assigned_zones" json:"assigned_zones"`
	AssignedAgencies datatypes.JSONSlice[string] `gorm:"column:assigned_agencies" json:"assigned_agencies"`
	AssignedGares    datatypes.JSONSlice[string] `gorm:"column:assigned_gares" json:"assigned_gares"`
	CreatedAt        time.Time                   `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// UserSummary is the user view embedded in login responses.
type UserSummary struct {
	ID       snowflake.ID `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Role     Role         `json:"role"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}
