package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
)

type ListRechargeRequest struct {
	GareID       string
	ConnectionID string
	Operator     string
	Status       string
}

// ListRechargeFilter narrows recharge queries. A non-nil empty GareIDs
// matches nothing. Statuses is ORed.
type ListRechargeFilter struct {
	GareID       snowflake.ID
	GareIDs      []snowflake.ID
	ConnectionID snowflake.ID
	Operator     connectiondomain.Operator
	PaymentType  PaymentType
	Statuses     []Status
}

type CreateRechargeRequest struct {
	ConnectionID string   `json:"connection_id"`
	PaymentType  string   `json:"payment_type"`
	StartDate    JSONTime `json:"start_date"`
	EndDate      JSONTime `json:"end_date"`
	Volume       *string  `json:"volume"`
	Cost         float64  `json:"cost"`
	Description  *string  `json:"description"`
}

type UpdateRechargeRequest = CreateRechargeRequest

type Service interface {
	Create(context.Context, CreateRechargeRequest) (Recharge, error)
	List(context.Context, ListRechargeRequest) ([]Recharge, error)
	GetByID(context.Context, string) (Recharge, error)
	Update(context.Context, string, UpdateRechargeRequest) (Recharge, error)
	Delete(context.Context, string) error
	Reconcile(context.Context) (ReconcileResult, error)
}

var (
	ErrInvalidConnectionID = errors.New("invalid_connection_id")
	ErrInvalidGareID       = errors.New("invalid_gare_id")
	ErrInvalidPaymentType  = errors.New("invalid_payment_type")
	ErrInvalidOperator     = errors.New("invalid_operator")
	ErrInvalidStartDate    = errors.New("invalid_start_date")
	ErrInvalidEndDate      = errors.New("invalid_end_date")
	ErrInvalidCost         = errors.New("invalid_cost")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("recharge_not_found")
)
