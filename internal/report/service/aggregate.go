package service

import (
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/internal/report/domain"
)

const unknownName = "Unknown"

func foldStatistics(recharges []*rechargedomain.Recharge) domain.Statistics {
	stats := domain.Statistics{
		TotalRecharges: len(recharges),
		OperatorStats:  map[string]*domain.OperatorStat{},
	}

	for _, r := range recharges {
		switch r.Status {
		case rechargedomain.StatusActive:
			stats.ActiveRecharges++
		case rechargedomain.StatusExpired:
			stats.ExpiredRecharges++
		case rechargedomain.StatusExpiringSoon:
			stats.ExpiringRecharges++
		}
		stats.TotalCost += r.Cost

		op := string(r.Operator)
		stat, ok := stats.OperatorStats[op]
		if !ok {
			stat = &domain.OperatorStat{}
			stats.OperatorStats[op] = stat
		}
		stat.Count++
		stat.Cost += r.Cost
		if r.Status == rechargedomain.StatusActive {
			stat.Active++
		}
	}
	return stats
}

// foldGareStats groups recharges by gare. Gares without recharges are absent.
func foldGareStats(recharges []*rechargedomain.Recharge, gares []*garedomain.Gare) map[string]*domain.GareStat {
	names := make(map[string]string, len(gares))
	for _, g := range gares {
		names[g.ID.String()] = g.Name
	}

	out := map[string]*domain.GareStat{}
	for _, r := range recharges {
		key := r.GareID.String()
		stat, ok := out[key]
		if !ok {
			name, found := names[key]
			if !found {
				name = unknownName
			}
			stat = &domain.GareStat{Name: name}
			out[key] = stat
		}
		stat.Count++
		stat.Cost += r.Cost
		if r.Status == rechargedomain.StatusActive {
			stat.Active++
		}
	}
	return out
}

// foldAgencyStats groups recharges by the agency of their gare. Recharges whose
// gare is outside the zone are skipped.
func foldAgencyStats(recharges []*rechargedomain.Recharge, gares []*garedomain.Gare, agencies []*agencydomain.Agency) map[string]*domain.AgencyStat {
	gareAgency := make(map[string]string, len(gares))
	garesPerAgency := map[string]int{}
	for _, g := range gares {
		agencyID := g.AgencyID.String()
		gareAgency[g.ID.String()] = agencyID
		garesPerAgency[agencyID]++
	}
	names := make(map[string]string, len(agencies))
	for _, a := range agencies {
		names[a.ID.String()] = a.Name
	}

	out := map[string]*domain.AgencyStat{}
	for _, r := range recharges {
		agencyID, ok := gareAgency[r.GareID.String()]
		if !ok {
			continue
		}
		stat, ok := out[agencyID]
		if !ok {
			name, found := names[agencyID]
			if !found {
				name = unknownName
			}
			stat = &domain.AgencyStat{Name: name, Gares: garesPerAgency[agencyID]}
			out[agencyID] = stat
		}
		stat.Count++
		stat.Cost += r.Cost
		if r.Status == rechargedomain.StatusActive {
			stat.Active++
		}
	}
	return out
}
