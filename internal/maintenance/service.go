// Package maintenance wipes application data. It backs the admin reset
// endpoint and the non-production clear-test-data endpoint.
package maintenance

import "context"

// Tables lists the wiped tables in the order they are reported.
var Tables = []string{"users", "zones", "agencies", "gares", "connections", "recharges", "alerts"}

type ResetResult struct {
	Message            string   `json:"message"`
	CollectionsCleared []string `json:"collections_cleared"`
}

type ClearResult struct {
	Message       string           `json:"message"`
	DeletedCounts map[string]int64 `json:"deleted_counts"`
}

type Service interface {
	ResetDatabase(ctx context.Context) (ResetResult, error)
	ClearTestData(ctx context.Context) (ClearResult, error)
}
