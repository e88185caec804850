package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tbn01-acc/lifefocus-sub002/internal/middleware"
)

type FlushActivityRequest struct {
	ActivityDate     string `json:"activity_date" validate:"required,datetime=2006-01-02"`
	TimeSpentMinutes int    `json:"time_spent_minutes" validate:"gte=0"`
}

// FlushActivity is the normal flush path of the session tracker: an
// additive upsert of minutes onto the (user, day) row.
func (h *Handler) FlushActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	var req FlushActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат запроса",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	day, _ := time.Parse("2006-01-02", req.ActivityDate)
	if err := h.activitySvc.RecordFlush(c.Context(), userID, day, req.TimeSpentMinutes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось сохранить активность",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

type BeaconRequest struct {
	Token            string `json:"token"`
	ActivityDate     string `json:"activity_date"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
}

// BeaconActivity receives the best-effort teardown flush. Beacons cannot
// set headers, so the token travels in the body, and the response is always
// 204: the sender is already gone.
func (h *Handler) BeaconActivity(c *fiber.Ctx) error {
	var req BeaconRequest
	if err := c.BodyParser(&req); err != nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	day, err := time.Parse("2006-01-02", req.ActivityDate)
	if err != nil || req.TimeSpentMinutes <= 0 || req.Token == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}

	user, err := h.repo.GetUserByAPIToken(c.Context(), req.Token)
	if err != nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	_ = h.activitySvc.RecordFlush(c.Context(), user.ID, day, req.TimeSpentMinutes)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetRecentActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	entries, err := h.activitySvc.GetRecentActivity(c.Context(), userID, c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить активность",
		})
	}

	return c.JSON(fiber.Map{"entries": entries})
}
