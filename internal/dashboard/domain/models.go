package domain

type OperatorStat struct {
	Operator         string  `json:"operator"`
	RechargeCount    int64   `json:"recharge_count"`
	ConnectionsCount int64   `json:"connections_count"`
	TotalCost        float64 `json:"total_cost"`
	Type             string  `json:"type"`
}

type PaymentTypeStats struct {
	Prepaid  int64 `json:"prepaid"`
	Postpaid int64 `json:"postpaid"`
}

type ConnectionTypeStats struct {
	Mobile int64 `json:"mobile"`
	Fibre  int64 `json:"fibre"`
}

// Stats is the fleet-wide summary. Per-operator and per-type counts only
// consider active recharges and active connections.
type Stats struct {
	TotalZones          int64               `json:"total_zones"`
	TotalAgencies       int64               `json:"total_agencies"`
	TotalGares          int64               `json:"total_gares"`
	TotalConnections    int64               `json:"total_connections"`
	TotalRecharges      int64               `json:"total_recharges"`
	ActiveConnections   int64               `json:"active_connections"`
	InactiveConnections int64               `json:"inactive_connections"`
	ActiveRecharges     int64               `json:"active_recharges"`
	ExpiringRecharges   int64               `json:"expiring_recharges"`
	ExpiredRecharges    int64               `json:"expired_recharges"`
	OperatorStats       []OperatorStat      `json:"operator_stats"`
	PaymentTypeStats    PaymentTypeStats    `json:"payment_type_stats"`
	ConnectionTypeStats ConnectionTypeStats `json:"connection_type_stats"`
	PendingAlerts       int64               `json:"pending_alerts"`
}
