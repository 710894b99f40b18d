package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ListConnectionRequest struct {
	GareID   string
	Operator string
	Status   string
}

type ListConnectionFilter struct {
	GareID       snowflake.ID
	Operator     Operator
	OperatorType OperatorType
	Status       Status
}

type CreateConnectionRequest struct {
	LineNumber     string  `json:"line_number"`
	GareID         string  `json:"gare_id"`
	Operator       string  `json:"operator"`
	OperatorType   string  `json:"operator_type"`
	ConnectionType string  `json:"connection_type"`
	Description    *string `json:"description"`
}

// UpdateConnectionRequest replaces the writable fields. Status is kept when omitted.
type UpdateConnectionRequest struct {
	CreateConnectionRequest
	Status *string `json:"status"`
}

type Service interface {
	Create(context.Context, CreateConnectionRequest) (Connection, error)
	List(context.Context, ListConnectionRequest) ([]Connection, error)
	GetByID(context.Context, string) (Connection, error)
	Update(context.Context, string, UpdateConnectionRequest) (Connection, error)
	Delete(context.Context, string) error
}

var (
	ErrInvalidLineNumber     = errors.New("invalid_line_number")
	ErrInvalidGareID         = errors.New("invalid_gare_id")
	ErrInvalidOperator       = errors.New("invalid_operator")
	ErrInvalidOperatorType   = errors.New("invalid_operator_type")
	ErrInvalidConnectionType = errors.New("invalid_connection_type")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("connection_not_found")
	ErrLineNumberExists      = errors.New("line_number_exists")
	ErrHasActiveRecharges    = errors.New("connection_has_active_recharges")
)
