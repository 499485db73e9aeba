package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chemlabel/backend/pkg/config"
)

// SiteHandler serves the site metadata the UI shell consumes.
type SiteHandler struct {
	site config.SiteConfig
}

func NewSiteHandler(site config.SiteConfig) *SiteHandler {
	return &SiteHandler{site: site}
}

func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":        h.site.Name,
		"description": h.site.Description,
		"navItems":    h.site.NavItems,
		"links":       h.site.Links,
	})
}
