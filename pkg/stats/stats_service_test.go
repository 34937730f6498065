package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CookShare-Backend/domain"
)

type memoryStatsRepository struct {
	mu     sync.Mutex
	events map[string][]time.Time
}

func newMemoryStatsRepository() *memoryStatsRepository {
	return &memoryStatsRepository{events: map[string][]time.Time{}}
}

func (m *memoryStatsRepository) RecordEvent(ctx context.Context, kind string, occurredAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[kind] = append(m.events[kind], occurredAt)
	return nil
}

func (m *memoryStatsRepository) EventsByKind(ctx context.Context, kind string) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[kind], nil
}

func TestStatsService_GetStats_EmptyLogIsNotFound(t *testing.T) {
	service := NewStatsService(newMemoryStatsRepository())

	result := service.GetStats(context.Background())
	require.True(t, result.IsFailure())
	assert.Equal(t, domain.ErrStatsNotFound, result.ErrValue())
}

func TestStatsService_GetStats(t *testing.T) {
	repo := newMemoryStatsRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindLogin, now))
	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindLogin, now.Add(time.Minute)))
	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindScan, now))

	result := NewStatsService(repo).GetStats(ctx)
	require.True(t, result.IsSuccess())
	assert.Len(t, result.Value().Logins, 2)
	assert.Empty(t, result.Value().Interactions)
	assert.Len(t, result.Value().Scans, 1)
}

func TestStatsService_ActivityReport(t *testing.T) {
	repo := newMemoryStatsRepository()
	ctx := context.Background()
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindLogin, day1))
	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindLogin, day1.Add(time.Hour)))
	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindInteraction, day2))
	require.NoError(t, repo.RecordEvent(ctx, domain.StatsKindScan, day2))

	result := NewStatsService(repo).ActivityReport(ctx)
	require.True(t, result.IsSuccess())

	report := result.Value()
	assert.Equal(t, 2, report.TotalLogins)
	assert.Equal(t, 1, report.TotalInteractions)
	assert.Equal(t, 1, report.TotalScans)

	require.Len(t, report.Days, 2)
	assert.Equal(t, "2026-08-01", report.Days[0].Date)
	assert.Equal(t, 2, report.Days[0].Logins)
	assert.Equal(t, "2026-08-02", report.Days[1].Date)
	assert.Equal(t, 1, report.Days[1].Interactions)
	assert.Equal(t, 1, report.Days[1].Scans)
}
