package stats

import (
	"context"
	"time"

	"gorm.io/gorm"

	"CookShare-Backend/entities"
)

type (
	StatsRepository interface {
		RecordEvent(ctx context.Context, kind string, occurredAt time.Time) error
		EventsByKind(ctx context.Context, kind string) ([]time.Time, error)
	}

	statsRepository struct {
		db *gorm.DB
	}
)

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) RecordEvent(ctx context.Context, kind string, occurredAt time.Time) error {
	event := entities.StatsEvent{
		Kind:       kind,
		OccurredAt: occurredAt,
	}
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r *statsRepository) EventsByKind(ctx context.Context, kind string) ([]time.Time, error) {
	var timestamps []time.Time
	err := r.db.WithContext(ctx).
		Model(&entities.StatsEvent{}).
		Where("kind = ?", kind).
		Order("occurred_at asc").
		Pluck("occurred_at", &timestamps).Error
	if err != nil {
		return nil, err
	}
	return timestamps, nil
}
