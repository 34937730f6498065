package stats

import (
	"context"
	"sort"
	"time"

	"CookShare-Backend/domain"
)

type (
	StatsService interface {
		GetStats(ctx context.Context) domain.Result[domain.Stats]
		ActivityReport(ctx context.Context) domain.Result[domain.StatsReport]
	}

	statsService struct {
		repository StatsRepository
	}
)

func NewStatsService(repository StatsRepository) StatsService {
	return &statsService{repository: repository}
}

// GetStats reads the full event log. An empty log is reported as
// not-found rather than as three empty lists.
func (s *statsService) GetStats(ctx context.Context) domain.Result[domain.Stats] {
	logins, err := s.repository.EventsByKind(ctx, domain.StatsKindLogin)
	if err != nil {
		return domain.Err[domain.Stats](domain.UnknownStatsError(err.Error()))
	}
	interactions, err := s.repository.EventsByKind(ctx, domain.StatsKindInteraction)
	if err != nil {
		return domain.Err[domain.Stats](domain.UnknownStatsError(err.Error()))
	}
	scans, err := s.repository.EventsByKind(ctx, domain.StatsKindScan)
	if err != nil {
		return domain.Err[domain.Stats](domain.UnknownStatsError(err.Error()))
	}

	if len(logins) == 0 && len(interactions) == 0 && len(scans) == 0 {
		return domain.Err[domain.Stats](domain.ErrStatsNotFound)
	}

	return domain.Ok(domain.Stats{
		Logins:       logins,
		Interactions: interactions,
		Scans:        scans,
	})
}

// ActivityReport aggregates the event log into per-day counters.
func (s *statsService) ActivityReport(ctx context.Context) domain.Result[domain.StatsReport] {
	stats := s.GetStats(ctx)
	if stats.IsFailure() {
		return domain.Err[domain.StatsReport](stats.ErrValue())
	}

	days := map[string]*domain.StatsReportEntry{}
	entry := func(at time.Time) *domain.StatsReportEntry {
		date := at.Format("2006-01-02")
		if e, ok := days[date]; ok {
			return e
		}
		e := &domain.StatsReportEntry{Date: date}
		days[date] = e
		return e
	}

	value := stats.Value()
	for _, at := range value.Logins {
		entry(at).Logins++
	}
	for _, at := range value.Interactions {
		entry(at).Interactions++
	}
	for _, at := range value.Scans {
		entry(at).Scans++
	}

	report := domain.StatsReport{
		TotalLogins:       len(value.Logins),
		TotalInteractions: len(value.Interactions),
		TotalScans:        len(value.Scans),
	}
	for _, e := range days {
		report.Days = append(report.Days, *e)
	}
	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date < report.Days[j].Date
	})

	return domain.Ok(report)
}
