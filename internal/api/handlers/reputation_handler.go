package handlers

import (
	"trustbridge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReputationHandler struct {
	repService *service.ReputationService
	logger     *zap.Logger
}

func NewReputationHandler(repService *service.ReputationService, logger *zap.Logger) *ReputationHandler {
	return &ReputationHandler{
		repService: repService,
		logger:     logger,
	}
}

// Profile returns the trust score and claims derived at the last
// recalculation.
func (h *ReputationHandler) Profile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	profile, err := h.repService.Profile(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build reputation profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build reputation profile",
		})
	}

	return c.JSON(profile)
}

func (h *ReputationHandler) Claims(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	claims, err := h.repService.Claims(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list claims", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list claims",
		})
	}

	return c.JSON(claims)
}

// Recalculate rebuilds the claim set from all of the user's transactions
// and returns the fresh profile.
func (h *ReputationHandler) Recalculate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	profile, err := h.repService.Recompute(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to recalculate claims", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to recalculate claims",
		})
	}

	return c.JSON(profile)
}
