package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Operator string

const (
	OperatorOrange       Operator = "Orange"
	OperatorTelecel      Operator = "Telecel"
	OperatorMoov         Operator = "Moov"
	OperatorOnatelFibre  Operator = "Onatel Fibre"
	OperatorOrangeFibre  Operator = "Orange Fibre"
	OperatorTelecelFibre Operator = "Telecel Fibre"
	OperatorCanalbox     Operator = "Canalbox"
	OperatorFasoNet      Operator = "Faso Net"
	OperatorWayodi       Operator = "Wayodi"
)

type OperatorType string

const (
	OperatorTypeMobile OperatorType = "mobile"
	OperatorTypeFibre  OperatorType = "fibre"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

var operators = []Operator{
	OperatorOrange,
	OperatorTelecel,
	OperatorMoov,
	OperatorOnatelFibre,
	OperatorOrangeFibre,
	OperatorTelecelFibre,
	OperatorCanalbox,
	OperatorFasoNet,
	OperatorWayodi,
}

// Operators lists every supported operator, mobile carriers first.
func Operators() []Operator {
	out := make([]Operator, len(operators))
	copy(out, operators)
	return out
}

func (o Operator) Valid() bool {
	for _, op := range operators {
		if op == o {
			return true
		}
	}
	return false
}

// Type returns the network family the operator belongs to.
func (o Operator) Type() OperatorType {
	switch o {
	case OperatorOrange, OperatorTelecel, OperatorMoov:
		return OperatorTypeMobile
	default:
		return OperatorTypeFibre
	}
}

func (t OperatorType) Valid() bool {
	return t == OperatorTypeMobile || t == OperatorTypeFibre
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

// Connection is a telecom line installed at a gare.
type Connection struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	LineNumber       string       `gorm:"not null;uniqueIndex" json:"line_number"`
	GareID           snowflake.ID `gorm:"not null;index" json:"gare_id"`
	Operator         Operator     `gorm:"not null;index" json:"operator"`
	OperatorType     OperatorType `gorm:"not null" json:"operator_type"`
	ConnectionType   string       `gorm:"not null" json:"connection_type"`
	Status           Status       `gorm:"not null;index" json:"status"`
	Description      *string      `json:"description"`
	LastRechargeDate *time.Time   `json:"last_recharge_date"`
	ExpiryDate       *time.Time   `json:"expiry_date"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

func (Connection) TableName() string { return "connections" }
