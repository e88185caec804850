package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/service"
)

// RebuildLeaderboard triggers a full aggregation run. The admin middleware
// has already rejected non-admin callers before any data was read.
func (h *Handler) RebuildLeaderboard(c *fiber.Ctx) error {
	result, err := h.aggregator.Run(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	status := fiber.StatusOK
	if result.BatchesFailed > 0 {
		// Partial success is not full success.
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(result)
}

func (h *Handler) parseWithdrawalID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("withdrawal_id"))
}

func (h *Handler) CompleteWithdrawal(c *fiber.Ctx) error {
	id, err := h.parseWithdrawalID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный идентификатор заявки",
		})
	}

	w, err := h.walletSvc.CompleteWithdrawal(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWithdrawalNotPending) || errors.Is(err, service.ErrInsufficientBalance) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось обработать заявку",
		})
	}

	return c.JSON(w)
}

func (h *Handler) RejectWithdrawal(c *fiber.Ctx) error {
	id, err := h.parseWithdrawalID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный идентификатор заявки",
		})
	}

	w, err := h.walletSvc.RejectWithdrawal(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWithdrawalNotPending) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось обработать заявку",
		})
	}

	return c.JSON(w)
}

func (h *Handler) ListPendingWithdrawals(c *fiber.Ctx) error {
	withdrawals, err := h.walletSvc.GetPendingWithdrawals(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить заявки",
		})
	}

	return c.JSON(fiber.Map{"withdrawals": withdrawals})
}

type CreditCommissionRequest struct {
	AvgPayment decimal.Decimal `json:"avg_payment"`
}

// CreditCommission is invoked by the back office once billing reports the
// average payment for a referrer's paid referrals.
func (h *Handler) CreditCommission(c *fiber.Ctx) error {
	referrerID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный идентификатор пользователя",
		})
	}

	var req CreditCommissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Неверный формат запроса",
		})
	}
	if req.AvgPayment.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Сумма не может быть отрицательной",
		})
	}

	breakdown, balance, err := h.referralSvc.CreditCommission(c.Context(), referrerID, req.AvgPayment)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось начислить комиссию",
		})
	}

	return c.JSON(fiber.Map{
		"breakdown": breakdown,
		"balance":   balance,
	})
}

type SetMinWithdrawalRequest struct {
	MinWithdrawalRub int `json:"min_withdrawal_rub" validate:"gt=0"`
}

func (h *Handler) GetMinWithdrawal(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"min_withdrawal_rub": h.walletSvc.MinWithdrawal(c.Context()),
	})
}

func (h *Handler) SetMinWithdrawal(c *fiber.Ctx) error {
	var req SetMinWithdrawalRequest
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

	if err := h.repo.SetSetting(c.Context(), "min_withdrawal_rub", strconv.Itoa(req.MinWithdrawalRub)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось сохранить настройку",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
