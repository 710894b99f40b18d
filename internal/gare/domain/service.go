package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ListGareRequest struct {
	AgencyID string
}

type ListGareFilter struct {
	AgencyID  snowflake.ID
	AgencyIDs []snowflake.ID
}

type CreateGareRequest struct {
	Name        string  `json:"name"`
	AgencyID    string  `json:"agency_id"`
	Description *string `json:"description"`
}

type UpdateGareRequest = CreateGareRequest

type Service interface {
	Create(context.Context, CreateGareRequest) (Gare, error)
	List(context.Context, ListGareRequest) ([]Gare, error)
	GetByID(context.Context, string) (Gare, error)
	Update(context.Context, string, UpdateGareRequest) (Gare, error)
	Delete(context.Context, string) error
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidAgencyID = errors.New("invalid_agency_id")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("gare_not_found")
)
