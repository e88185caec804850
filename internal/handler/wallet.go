package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/middleware"
	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
	"github.com/tbn01-acc/lifefocus-sub002/internal/service"
)

func (h *Handler) GetWallet(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	wallet, err := h.walletSvc.GetWallet(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить баланс",
		})
	}

	return c.JSON(fiber.Map{
		"wallet":         wallet,
		"min_withdrawal": h.walletSvc.MinWithdrawal(c.Context()),
	})
}

func (h *Handler) GetWalletTransactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	transactions, err := h.walletSvc.GetTransactions(c.Context(), userID, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить историю операций",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": transactions,
	})
}

type CreateWithdrawalRequest struct {
	AmountRub      decimal.Decimal `json:"amount_rub"`
	WithdrawalType string          `json:"withdrawal_type" validate:"required,oneof=cash subscription gift"`
}

func (h *Handler) CreateWithdrawal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	var req CreateWithdrawalRequest
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

	w, err := h.walletSvc.RequestWithdrawal(c.Context(), userID, req.AmountRub, model.WithdrawalType(req.WithdrawalType))
	if err != nil {
		if errors.Is(err, service.ErrBelowMinWithdrawal) || errors.Is(err, service.ErrInsufficientBalance) || errors.Is(err, service.ErrInvalidWithdrawalType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось создать заявку",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(w)
}

func (h *Handler) GetWithdrawals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Необходима авторизация",
		})
	}

	withdrawals, err := h.walletSvc.GetWithdrawals(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Не удалось получить заявки",
		})
	}

	return c.JSON(fiber.Map{
		"withdrawals": withdrawals,
	})
}
