package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/connection/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	GareRepo     garedomain.Repository
	RechargeRepo rechargedomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	gareRepo     garedomain.Repository
	rechargeRepo rechargedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("connection.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		gareRepo:     p.GareRepo,
		rechargeRepo: p.RechargeRepo,
	}
}

type validatedConnection struct {
	lineNumber     string
	gareID         snowflake.ID
	operator       domain.Operator
	operatorType   domain.OperatorType
	connectionType string
}

func (s *Service) Create(ctx context.Context, req domain.CreateConnectionRequest) (domain.Connection, error) {
	fields, err := s.validate(ctx, req, 0)
	if err != nil {
		return domain.Connection{}, err
	}

	now := s.clock.Now()
	connection := domain.Connection{
		ID:             s.genID.Generate(),
		LineNumber:     fields.lineNumber,
		GareID:         fields.gareID,
		Operator:       fields.operator,
		OperatorType:   fields.operatorType,
		ConnectionType: fields.connectionType,
		Status:         domain.StatusActive,
		Description:    trimOptional(req.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &connection); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Connection{}, domain.ErrLineNumberExists
		}
		return domain.Connection{}, err
	}
	return connection, nil
}

func (s *Service) List(ctx context.Context, req domain.ListConnectionRequest) ([]domain.Connection, error) {
	filter := domain.ListConnectionFilter{}
	if raw := strings.TrimSpace(req.GareID); raw != "" {
		gareID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidGareID
		}
		filter.GareID = gareID
	}
	if raw := strings.TrimSpace(req.Operator); raw != "" {
		operator := domain.Operator(raw)
		if !operator.Valid() {
			return nil, domain.ErrInvalidOperator
		}
		filter.Operator = operator
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	connections := make([]domain.Connection, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		connections = append(connections, *item)
	}
	return connections, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Connection, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Connection{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Connection{}, err
	}
	if item == nil {
		return domain.Connection{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, rawID string, req domain.UpdateConnectionRequest) (domain.Connection, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Connection{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Connection{}, err
	}
	if item == nil {
		return domain.Connection{}, domain.ErrNotFound
	}

	fields, err := s.validate(ctx, req.CreateConnectionRequest, id)
	if err != nil {
		return domain.Connection{}, err
	}

	if req.Status != nil {
		status := domain.Status(strings.TrimSpace(*req.Status))
		if !status.Valid() {
			return domain.Connection{}, domain.ErrInvalidStatus
		}
		item.Status = status
	}

	item.LineNumber = fields.lineNumber
	item.GareID = fields.gareID
	item.Operator = fields.operator
	item.OperatorType = fields.operatorType
	item.ConnectionType = fields.connectionType
	item.Description = trimOptional(req.Description)
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Connection{}, domain.ErrLineNumberExists
		}
		return domain.Connection{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	active, err := s.rechargeRepo.Count(ctx, s.db, rechargedomain.ListRechargeFilter{
		ConnectionID: id,
		Statuses:     []rechargedomain.Status{rechargedomain.StatusActive, rechargedomain.StatusExpiringSoon},
	})
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrHasActiveRecharges
	}

	deleted, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) validate(ctx context.Context, req domain.CreateConnectionRequest, selfID snowflake.ID) (validatedConnection, error) {
	lineNumber := strings.TrimSpace(req.LineNumber)
	if lineNumber == "" {
		return validatedConnection{}, domain.ErrInvalidLineNumber
	}

	operator := domain.Operator(strings.TrimSpace(req.Operator))
	if !operator.Valid() {
		return validatedConnection{}, domain.ErrInvalidOperator
	}

	operatorType := operator.Type()
	if raw := strings.TrimSpace(req.OperatorType); raw != "" {
		operatorType = domain.OperatorType(raw)
		if !operatorType.Valid() {
			return validatedConnection{}, domain.ErrInvalidOperatorType
		}
	}

	connectionType := strings.TrimSpace(req.ConnectionType)
	if connectionType == "" {
		return validatedConnection{}, domain.ErrInvalidConnectionType
	}

	gareID, err := snowflake.ParseString(strings.TrimSpace(req.GareID))
	if err != nil || gareID == 0 {
		return validatedConnection{}, domain.ErrInvalidGareID
	}
	gare, err := s.gareRepo.FindByID(ctx, s.db, gareID)
	if err != nil {
		return validatedConnection{}, err
	}
	if gare == nil {
		return validatedConnection{}, garedomain.ErrNotFound
	}

	existing, err := s.repo.FindByLineNumber(ctx, s.db, lineNumber, selfID)
	if err != nil {
		return validatedConnection{}, err
	}
	if existing != nil {
		return validatedConnection{}, domain.ErrLineNumberExists
	}

	return validatedConnection{
		lineNumber:     lineNumber,
		gareID:         gareID,
		operator:       operator,
		operatorType:   operatorType,
		connectionType: connectionType,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
