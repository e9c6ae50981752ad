package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// StatsRepository stores performance stats. Profiles themselves are read
// through the user, team, training and nutrition repositories.
type StatsRepository interface {
	Record(ctx context.Context, s *PerformanceStat) error
	ListForPlayer(ctx context.Context, playerID uint) ([]PerformanceStat, error)
	Latest(ctx context.Context, playerID uint) (*PerformanceStat, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Record(ctx context.Context, s *PerformanceStat) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *statsRepository) ListForPlayer(ctx context.Context, playerID uint) ([]PerformanceStat, error) {
	stats := []PerformanceStat{}
	err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("date desc, id desc").
		Find(&stats).Error
	return stats, err
}

func (r *statsRepository) Latest(ctx context.Context, playerID uint) (*PerformanceStat, error) {
	var s PerformanceStat
	err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("date desc, id desc").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
