package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

// GetLeaderboard serves the ranked view for one period. Reads go through
// the short-TTL cache; the aggregate table itself is only written by the
// aggregation job.
func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	periodType := model.PeriodType(c.Query("period", string(model.PeriodDaily)))
	switch periodType {
	case model.PeriodDaily, model.PeriodMonthly, model.PeriodYearly, model.PeriodAll:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный период",
		})
	}

	limit := c.QueryInt("limit", 50)

	if h.cache != nil {
		if rows, ok := h.cache.GetLeaderboard(c.Context(), periodType, limit); ok {
			return c.JSON(fiber.Map{"period": periodType, "entries": rows})
		}
	}

	rows, err := h.aggregator.GetLeaderboard(c.Context(), periodType, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить рейтинг",
		})
	}

	if h.cache != nil {
		h.cache.SetLeaderboard(c.Context(), periodType, limit, rows)
	}

	return c.JSON(fiber.Map{"period": periodType, "entries": rows})
}
