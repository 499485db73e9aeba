package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/chemlabel/backend/internal/compound"
	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/pkg/logger"
)

type CompoundHandler struct {
	service *compound.Service
}

func NewCompoundHandler(service *compound.Service) *CompoundHandler {
	return &CompoundHandler{service: service}
}

// HandleLookup serves GET /api/pubchem?cid=<value>. The error bodies
// are part of the public contract: existing clients match on them.
func (h *CompoundHandler) HandleLookup(c *fiber.Ctx) error {
	cid := c.Query("cid")
	start := time.Now()

	summary, err := h.service.Lookup(c.Context(), cid)
	if errors.Is(err, compound.ErrMissingCID) {
		metrics.LookupTotal.WithLabelValues("missing_cid").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "CID is required",
		})
	}
	if err != nil {
		metrics.LookupTotal.WithLabelValues("upstream_failure").Inc()
		logger.Error("Lookup failed",
			zap.String("cid", cid),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching data from PubChem",
		})
	}

	metrics.LookupTotal.WithLabelValues("ok").Inc()
	return c.JSON(summary)
}
