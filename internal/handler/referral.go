package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/middleware"
)

type ApplyReferralRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) GetReferralStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	stats, err := h.referralSvc.GetReferralStats(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить статистику",
		})
	}

	return c.JSON(stats)
}

func (h *Handler) GetReferralLink(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	link, err := h.referralSvc.GetReferralLink(c.Context(), userID, h.cfg.App.BaseURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить ссылку",
		})
	}

	user, err := h.repo.GetUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить пользователя",
		})
	}

	return c.JSON(fiber.Map{
		"link": link,
		"code": user.ReferralCode,
	})
}

func (h *Handler) ApplyReferralCode(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	var req ApplyReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат запроса",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Введите код",
		})
	}

	if err := h.referralSvc.ApplyReferralCode(c.Context(), userID, req.Code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Реферальный код применён! Бонус начислится, когда приглашённый станет активным.",
	})
}

func (h *Handler) GetReferredUsers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	users, err := h.referralSvc.GetReferredUsers(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить список пользователей",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

// GetReferralEarnings lists the referrer's append-only earning records,
// registration bonuses and commission credits alike.
func (h *Handler) GetReferralEarnings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	earnings, err := h.referralSvc.GetEarnings(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить начисления",
		})
	}

	return c.JSON(fiber.Map{
		"earnings": earnings,
	})
}

// GetCommissionPreview shows what the referrer's paid referrals would pay
// out at the given average payment. Nothing is credited.
func (h *Handler) GetCommissionPreview(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	avgPayment, err := decimal.NewFromString(c.Query("avg_payment", "0"))
	if err != nil || avgPayment.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверная сумма среднего платежа",
		})
	}

	paid, breakdown, err := h.referralSvc.PreviewCommission(c.Context(), userID, avgPayment)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось рассчитать комиссию",
		})
	}

	return c.JSON(fiber.Map{
		"paid_referrals": paid,
		"breakdown":      breakdown,
	})
}
