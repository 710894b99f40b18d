package maintenance

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("maintenance.service",
	fx.Provide(NewService),
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) Service {
	return &service{
		db:  p.DB,
		log: p.Log.Named("maintenance.service"),
	}
}

func (s *service) ResetDatabase(ctx context.Context) (ResetResult, error) {
	if _, err := s.wipe(ctx); err != nil {
		return ResetResult{}, err
	}
	cleared := make([]string, len(Tables))
	copy(cleared, Tables)
	return ResetResult{
		Message:            "Database reset successfully",
		CollectionsCleared: cleared,
	}, nil
}

func (s *service) ClearTestData(ctx context.Context) (ClearResult, error) {
	counts, err := s.wipe(ctx)
	if err != nil {
		return ClearResult{}, err
	}
	return ClearResult{
		Message:       "All test data cleared successfully",
		DeletedCounts: counts,
	}, nil
}

// wipe deletes dependents before their parents inside one transaction.
func (s *service) wipe(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(Tables) - 1; i >= 0; i-- {
			table := Tables[i]
			res := tx.Exec(fmt.Sprintf("DELETE FROM %s", table))
			if res.Error != nil {
				return fmt.Errorf("clear %s: %w", table, res.Error)
			}
			counts[table] = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to wipe data", zap.Error(err))
		return nil, err
	}

	s.log.Warn("application data wiped", zap.Any("deleted_counts", counts))
	return counts, nil
}
