package handlers

import (
	"github.com/gofiber/fiber/v2"

	"CookShare-Backend/domain"
	"CookShare-Backend/internal/api/presenters"
	"CookShare-Backend/pkg/stats"
)

type (
	StatsHandler interface {
		GetStats(c *fiber.Ctx) error
		GetActivityReport(c *fiber.Ctx) error
	}

	statsHandler struct {
		statsService stats.StatsService
	}
)

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &statsHandler{statsService: statsService}
}

func (h *statsHandler) GetStats(c *fiber.Ctx) error {
	return domain.Fold(h.statsService.GetStats(c.Context()),
		func(s domain.Stats) error {
			return presenters.SuccessResponse(c, s, fiber.StatusOK, domain.MessageSuccessGetStats)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, statsErrorStatus(err), domain.MessageFailedGetStats, err)
		},
	)
}

func (h *statsHandler) GetActivityReport(c *fiber.Ctx) error {
	return domain.Fold(h.statsService.ActivityReport(c.Context()),
		func(report domain.StatsReport) error {
			return presenters.SuccessResponse(c, report, fiber.StatusOK, domain.MessageSuccessGetStats)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, statsErrorStatus(err), domain.MessageFailedGetStats, err)
		},
	)
}

func statsErrorStatus(err domain.DomainError) int {
	se, ok := err.(domain.StatsError)
	if ok && se.Kind == domain.StatsNotFound {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
