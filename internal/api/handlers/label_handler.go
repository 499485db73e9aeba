package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/chemlabel/backend/internal/compound"
	"github.com/chemlabel/backend/internal/export"
	"github.com/chemlabel/backend/internal/label"
	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/pkg/logger"
)

// LabelHandler exposes the presenter: session lifecycle, field edits,
// the rendered label view, and the two export actions.
type LabelHandler struct {
	store    *label.Store
	service  *compound.Service
	exporter *export.Exporter
}

func NewLabelHandler(store *label.Store, service *compound.Service, exporter *export.Exporter) *LabelHandler {
	return &LabelHandler{
		store:    store,
		service:  service,
		exporter: exporter,
	}
}

func (h *LabelHandler) CreateSession(c *fiber.Ctx) error {
	session := h.store.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    session.ID,
		"state": session.Snapshot(),
	})
}

func (h *LabelHandler) GetSession(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(session.Snapshot())
}

func (h *LabelHandler) Submit(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req struct {
		CID string `json:"cid"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	state := session.Submit(c.Context(), h.service, req.CID)
	return c.JSON(state)
}

func (h *LabelHandler) SetField(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	field := c.Params("field")
	if !label.ValidField(field) {
		return unknownField(c, field)
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return c.JSON(session.SetField(label.FieldKey(field), req.Value))
}

func (h *LabelHandler) ToggleField(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	field := c.Params("field")
	if !label.ValidField(field) {
		return unknownField(c, field)
	}

	return c.JSON(session.ToggleEdit(label.FieldKey(field)))
}

func (h *LabelHandler) View(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	page, err := label.RenderView(session.Snapshot())
	if err != nil {
		logger.Error("Failed to render label view", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render label",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

func (h *LabelHandler) ExportPDF(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	data, name, err := h.exporter.PDF(c.Context(), session.Snapshot())
	if errors.Is(err, export.ErrNoLabel) {
		// Nothing rendered yet; exporting is a silent no-op.
		metrics.ExportTotal.WithLabelValues("pdf", "noop").Inc()
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		metrics.ExportTotal.WithLabelValues("pdf", "error").Inc()
		logger.Error("PDF export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export label",
		})
	}

	metrics.ExportTotal.WithLabelValues("pdf", "ok").Inc()
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}

func (h *LabelHandler) ExportJPEG(c *fiber.Ctx) error {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	data, name, err := h.exporter.JPEG(c.Context(), session.Snapshot())
	if errors.Is(err, export.ErrNoLabel) {
		metrics.ExportTotal.WithLabelValues("jpeg", "noop").Inc()
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		metrics.ExportTotal.WithLabelValues("jpeg", "error").Inc()
		logger.Error("JPEG export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export label",
		})
	}

	metrics.ExportTotal.WithLabelValues("jpeg", "ok").Inc()
	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Session not found",
	})
}

func unknownField(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fmt.Sprintf("Unknown label field %q", field),
	})
}
