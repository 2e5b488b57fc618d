package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/api/dto"
	"github.com/Rodrymza/app-novedades/internal/service"
)

// AreasHandler exposes area endpoints.
type AreasHandler struct {
	areas *service.AreaService
}

// NewAreasHandler constructs handler.
func NewAreasHandler(areaService *service.AreaService) *AreasHandler {
	return &AreasHandler{areas: areaService}
}

// List handles GET /areas?includeDeleted=.
func (h *AreasHandler) List(c *fiber.Ctx) error {
	raw := c.Query("includeDeleted", c.Query("todas"))
	includeDeleted, _ := strconv.ParseBool(raw)

	areas, err := h.areas.List(c.UserContext(), session(c), includeDeleted)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAreaResponses(areas))
}

// Create handles POST /areas.
func (h *AreasHandler) Create(c *fiber.Ctx) error {
	var req dto.AreaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	area, err := h.areas.Create(c.UserContext(), session(c), service.AreaInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewAreaResponse(area))
}

// Update handles PATCH /areas/:id.
func (h *AreasHandler) Update(c *fiber.Ctx) error {
	var req dto.AreaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	area, err := h.areas.Update(c.UserContext(), session(c), c.Params("id"), service.AreaInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAreaResponse(area))
}

// Delete handles PATCH /areas/:id/delete.
func (h *AreasHandler) Delete(c *fiber.Ctx) error {
	area, err := h.areas.Delete(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAreaResponse(area))
}

// Restore handles PATCH /areas/:id/restore.
func (h *AreasHandler) Restore(c *fiber.Ctx) error {
	area, err := h.areas.Restore(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAreaResponse(area))
}
