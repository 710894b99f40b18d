package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ListAgencyRequest struct {
	ZoneID string
}

type ListAgencyFilter struct {
	ZoneID snowflake.ID
}

type CreateAgencyRequest struct {
	Name        string  `json:"name"`
	ZoneID      string  `json:"zone_id"`
	Description *string `json:"description"`
}

type UpdateAgencyRequest = CreateAgencyRequest

type Service interface {
	Create(context.Context, CreateAgencyRequest) (Agency, error)
	List(context.Context, ListAgencyRequest) ([]Agency, error)
	GetByID(context.Context, string) (Agency, error)
	Update(context.Context, string, UpdateAgencyRequest) (Agency, error)
	Delete(context.Context, string) error
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidZoneID = errors.New("invalid_zone_id")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("agency_not_found")
)
