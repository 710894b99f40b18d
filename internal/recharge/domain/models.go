package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
)

type PaymentType string

const (
	PaymentTypePrepaid  PaymentType = "prepaid"
	PaymentTypePostpaid PaymentType = "postpaid"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypePrepaid || p == PaymentTypePostpaid
}

type Status string

const (
	StatusActive       Status = "active"
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusExpiringSoon:
		return true
	default:
		return false
	}
}

// ExpiryWarningWindow is how long before end_date a recharge counts as expiring soon.
const ExpiryWarningWindow = 72 * time.Hour

// Recharge is one subscription period applied to a connection. Line number,
// gare and operator are copied from the connection when the recharge is written.
type Recharge struct {
	ID           snowflake.ID                  `gorm:"primaryKey" json:"id"`
	ConnectionID snowflake.ID                  `gorm:"not null;index" json:"connection_id"`
	LineNumber   string                        `gorm:"not null" json:"line_number"`
	GareID       snowflake.ID                  `gorm:"not null;index" json:"gare_id"`
	Operator     connectiondomain.Operator     `gorm:"not null;index" json:"operator"`
	OperatorType connectiondomain.OperatorType `gorm:"not null" json:"operator_type"`
	PaymentType  PaymentType                   `gorm:"not null" json:"payment_type"`
	StartDate    time.Time                     `gorm:"not null" json:"start_date"`
	EndDate      time.Time                     `gorm:"not null;index" json:"end_date"`
	Volume       *string                       `json:"volume"`
	Cost         float64                       `gorm:"not null;default:0" json:"cost"`
	Status       Status                        `gorm:"not null;index" json:"status"`
	CreatedBy    string                        `gorm:"not null" json:"created_by"`
	Description  *string                       `json:"description"`
	CreatedAt    time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time                     `gorm:"not null" json:"updated_at"`
}

func (Recharge) TableName() string { return "recharges" }

// ReconcileResult counts the rows moved by one reconciliation pass.
type ReconcileResult struct {
	Expired      int64 `json:"expired"`
	ExpiringSoon int64 `json:"expiring_soon"`
}
