package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tbn01-acc/lifefocus-sub002/internal/cache"
	"github.com/tbn01-acc/lifefocus-sub002/internal/config"
	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
	"github.com/tbn01-acc/lifefocus-sub002/internal/service"
)

var validate = validator.New()

type Handler struct {
	cfg         *config.Config
	repo        *repository.Repository
	activitySvc *service.ActivityService
	referralSvc *service.ReferralService
	walletSvc   *service.WalletService
	aggregator  *service.Aggregator
	cache       *cache.Cache
}

func New(
	cfg *config.Config,
	repo *repository.Repository,
	activitySvc *service.ActivityService,
	referralSvc *service.ReferralService,
	walletSvc *service.WalletService,
	aggregator *service.Aggregator,
	lbCache *cache.Cache,
) *Handler {
	return &Handler{
		cfg:         cfg,
		repo:        repo,
		activitySvc: activitySvc,
		referralSvc: referralSvc,
		walletSvc:   walletSvc,
		aggregator:  aggregator,
		cache:       lbCache,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
