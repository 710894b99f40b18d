package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDismissed Status = "dismissed"
)

// DaysBeforeExpiry is the fixed lead time of generated expiry alerts.
const DaysBeforeExpiry = 3

type Alert struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	RechargeID       snowflake.ID `gorm:"not null;index" json:"recharge_id"`
	AlertDate        time.Time    `gorm:"not null;index" json:"alert_date"`
	DaysBeforeExpiry int          `gorm:"not null" json:"days_before_expiry"`
	Message          string       `gorm:"not null" json:"message"`
	Status           Status       `gorm:"not null;index" json:"status"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
}

func (Alert) TableName() string { return "alerts" }

// NewExpiryAlert builds the pending alert raised when a recharge is created.
func NewExpiryAlert(id, rechargeID snowflake.ID, lineNumber, operator string, endDate, now time.Time) Alert {
	return Alert{
		ID:               id,
		RechargeID:       rechargeID,
		AlertDate:        endDate.Add(-DaysBeforeExpiry * 24 * time.Hour),
		DaysBeforeExpiry: DaysBeforeExpiry,
		Message:          fmt.Sprintf("Ligne %s (%s) expire dans %d jours", lineNumber, operator, DaysBeforeExpiry),
		Status:           StatusPending,
		CreatedAt:        now,
	}
}
