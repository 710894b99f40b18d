package domain

import (
	"context"
	"errors"
)

type CreateZoneRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateZoneRequest replaces every writable field.
type UpdateZoneRequest = CreateZoneRequest

type Service interface {
	Create(context.Context, CreateZoneRequest) (Zone, error)
	List(context.Context) ([]Zone, error)
	GetByID(context.Context, string) (Zone, error)
	Update(context.Context, string, UpdateZoneRequest) (Zone, error)
	Delete(context.Context, string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("zone_not_found")
)
