package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	"github.com/smallbiznis/gareline/internal/clock"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	"github.com/smallbiznis/gareline/internal/providers/pdf"
	"github.com/smallbiznis/gareline/internal/providers/spreadsheet"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/internal/report/domain"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	ZoneRepo     zonedomain.Repository
	AgencyRepo   agencydomain.Repository
	GareRepo     garedomain.Repository
	RechargeRepo rechargedomain.Repository
	RechargeSvc  rechargedomain.Service
	PDF          pdf.Provider
	Spreadsheet  spreadsheet.Provider
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	zoneRepo     zonedomain.Repository
	agencyRepo   agencydomain.Repository
	gareRepo     garedomain.Repository
	rechargeRepo rechargedomain.Repository
	rechargeSvc  rechargedomain.Service
	pdf          pdf.Provider
	spreadsheet  spreadsheet.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("report.service"),
		clock:        p.Clock,
		zoneRepo:     p.ZoneRepo,
		agencyRepo:   p.AgencyRepo,
		gareRepo:     p.GareRepo,
		rechargeRepo: p.RechargeRepo,
		rechargeSvc:  p.RechargeSvc,
		pdf:          p.PDF,
		spreadsheet:  p.Spreadsheet,
	}
}

func (s *Service) GareReport(ctx context.Context, id string) (domain.GareReport, error) {
	gareID, err := parseID(id)
	if err != nil {
		return domain.GareReport{}, err
	}
	if _, err := s.rechargeSvc.Reconcile(ctx); err != nil {
		return domain.GareReport{}, err
	}

	gare, err := s.gareRepo.FindByID(ctx, s.db, gareID)
	if err != nil {
		return domain.GareReport{}, err
	}
	if gare == nil {
		return domain.GareReport{}, garedomain.ErrNotFound
	}

	agency, err := s.agencyRepo.FindByID(ctx, s.db, gare.AgencyID)
	if err != nil {
		return domain.GareReport{}, err
	}
	var zone *zonedomain.Zone
	if agency != nil {
		zone, err = s.zoneRepo.FindByID(ctx, s.db, agency.ZoneID)
		if err != nil {
			return domain.GareReport{}, err
		}
	}

	recharges, err := s.listRecharges(ctx, rechargedomain.ListRechargeFilter{GareID: gare.ID})
	if err != nil {
		return domain.GareReport{}, err
	}

	return domain.GareReport{
		Gare:        gare,
		Agency:      agency,
		Zone:        zone,
		Recharges:   recharges,
		Statistics:  foldStatistics(recharges),
		GeneratedAt: s.clock.Now().UTC(),
	}, nil
}

func (s *Service) AgencyReport(ctx context.Context, id string) (domain.AgencyReport, error) {
	agencyID, err := parseID(id)
	if err != nil {
		return domain.AgencyReport{}, err
	}
	if _, err := s.rechargeSvc.Reconcile(ctx); err != nil {
		return domain.AgencyReport{}, err
	}

	agency, err := s.agencyRepo.FindByID(ctx, s.db, agencyID)
	if err != nil {
		return domain.AgencyReport{}, err
	}
	if agency == nil {
		return domain.AgencyReport{}, agencydomain.ErrNotFound
	}

	zone, err := s.zoneRepo.FindByID(ctx, s.db, agency.ZoneID)
	if err != nil {
		return domain.AgencyReport{}, err
	}

	gares, err := s.gareRepo.List(ctx, s.db, garedomain.ListGareFilter{AgencyID: agency.ID})
	if err != nil {
		return domain.AgencyReport{}, err
	}
	recharges, err := s.listRecharges(ctx, rechargedomain.ListRechargeFilter{GareIDs: gareIDs(gares)})
	if err != nil {
		return domain.AgencyReport{}, err
	}

	return domain.AgencyReport{
		Agency:    agency,
		Zone:      zone,
		Gares:     nonNil(gares),
		Recharges: recharges,
		Statistics: domain.AgencyStatistics{
			Statistics: foldStatistics(recharges),
			TotalGares: len(gares),
			GareStats:  foldGareStats(recharges, gares),
		},
		GeneratedAt: s.clock.Now().UTC(),
	}, nil
}

func (s *Service) ZoneReport(ctx context.Context, id string) (domain.ZoneReport, error) {
	zoneID, err := parseID(id)
	if err != nil {
		return domain.ZoneReport{}, err
	}
	if _, err := s.rechargeSvc.Reconcile(ctx); err != nil {
		return domain.ZoneReport{}, err
	}

	zone, err := s.zoneRepo.FindByID(ctx, s.db, zoneID)
	if err != nil {
		return domain.ZoneReport{}, err
	}
	if zone == nil {
		return domain.ZoneReport{}, zonedomain.ErrNotFound
	}

	agencies, err := s.agencyRepo.List(ctx, s.db, agencydomain.ListAgencyFilter{ZoneID: zone.ID})
	if err != nil {
		return domain.ZoneReport{}, err
	}
	agencyIDs := make([]snowflake.ID, 0, len(agencies))
	for _, a := range agencies {
		agencyIDs = append(agencyIDs, a.ID)
	}

	gares, err := s.gareRepo.List(ctx, s.db, garedomain.ListGareFilter{AgencyIDs: agencyIDs})
	if err != nil {
		return domain.ZoneReport{}, err
	}
	recharges, err := s.listRecharges(ctx, rechargedomain.ListRechargeFilter{GareIDs: gareIDs(gares)})
	if err != nil {
		return domain.ZoneReport{}, err
	}

	return domain.ZoneReport{
		Zone:      zone,
		Agencies:  nonNil(agencies),
		Gares:     nonNil(gares),
		Recharges: recharges,
		Statistics: domain.ZoneStatistics{
			Statistics:    foldStatistics(recharges),
			TotalAgencies: len(agencies),
			TotalGares:    len(gares),
			AgencyStats:   foldAgencyStats(recharges, gares, agencies),
		},
		GeneratedAt: s.clock.Now().UTC(),
	}, nil
}

func (s *Service) ShareWhatsApp(ctx context.Context, req domain.ShareRequest) (domain.ShareResult, error) {
	message := FormatWhatsAppMessage(req, s.clock.Now())
	url, err := WhatsAppURL(req.PhoneNumber, message)
	if err != nil {
		return domain.ShareResult{}, err
	}
	return domain.ShareResult{
		Message:          "WhatsApp link generated",
		WhatsAppURL:      url,
		FormattedMessage: message,
	}, nil
}

func (s *Service) listRecharges(ctx context.Context, filter rechargedomain.ListRechargeFilter) ([]*rechargedomain.Recharge, error) {
	recharges, err := s.rechargeRepo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return nonNil(recharges), nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// gareIDs is never nil so an empty scope matches no recharges.
func gareIDs(gares []*garedomain.Gare) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(gares))
	for _, g := range gares {
		ids = append(ids, g.ID)
	}
	return ids
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
