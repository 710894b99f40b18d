package domain

import (
	"time"

	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
)

// Statistics is the fold shared by every report scope.
type Statistics struct {
	TotalRecharges    int                      `json:"total_recharges"`
	ActiveRecharges   int                      `json:"active_recharges"`
	ExpiredRecharges  int                      `json:"expired_recharges"`
	ExpiringRecharges int                      `json:"expiring_recharges"`
	TotalCost         float64                  `json:"total_cost"`
	OperatorStats     map[string]*OperatorStat `json:"operator_stats"`
}

type OperatorStat struct {
	Count  int     `json:"count"`
	Cost   float64 `json:"cost"`
	Active int     `json:"active"`
}

type GareStat struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Cost   float64 `json:"cost"`
	Active int     `json:"active"`
}

type AgencyStat struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Cost   float64 `json:"cost"`
	Active int     `json:"active"`
	Gares  int     `json:"gares"`
}

type AgencyStatistics struct {
	Statistics
	TotalGares int                  `json:"total_gares"`
	GareStats  map[string]*GareStat `json:"gare_stats"`
}

type ZoneStatistics struct {
	Statistics
	TotalAgencies int                    `json:"total_agencies"`
	TotalGares    int                    `json:"total_gares"`
	AgencyStats   map[string]*AgencyStat `json:"agency_stats"`
}

type GareReport struct {
	Gare        *garedomain.Gare           `json:"gare"`
	Agency      *agencydomain.Agency       `json:"agency"`
	Zone        *zonedomain.Zone           `json:"zone"`
	Recharges   []*rechargedomain.Recharge `json:"recharges"`
	Statistics  Statistics                 `json:"statistics"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type AgencyReport struct {
	Agency      *agencydomain.Agency       `json:"agency"`
	Zone        *zonedomain.Zone           `json:"zone"`
	Gares       []*garedomain.Gare         `json:"gares"`
	Recharges   []*rechargedomain.Recharge `json:"recharges"`
	Statistics  AgencyStatistics           `json:"statistics"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type ZoneReport struct {
	Zone        *zonedomain.Zone           `json:"zone"`
	Agencies    []*agencydomain.Agency     `json:"agencies"`
	Gares       []*garedomain.Gare         `json:"gares"`
	Recharges   []*rechargedomain.Recharge `json:"recharges"`
	Statistics  ZoneStatistics             `json:"statistics"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type Scope string

const (
	ScopeGare   Scope = "gare"
	ScopeAgency Scope = "agency"
	ScopeZone   Scope = "zone"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeGare, ScopeAgency, ScopeZone:
		return true
	default:
		return false
	}
}

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatXLSX
}

// ShareRequest carries the statistics block a client already holds.
type ShareRequest struct {
	Type        string         `json:"type"`
	EntityName  string         `json:"entity_name"`
	Statistics  map[string]any `json:"statistics"`
	PhoneNumber string         `json:"-"`
}

type ShareResult struct {
	Message          string `json:"message"`
	WhatsAppURL      string `json:"whatsapp_url"`
	FormattedMessage string `json:"formatted_message"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
