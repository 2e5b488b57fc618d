package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/api/dto"
	"github.com/Rodrymza/app-novedades/internal/service"
)

// NovedadesHandler exposes novedad endpoints.
type NovedadesHandler struct {
	novedades *service.NovedadService
}

// NewNovedadesHandler constructs handler.
func NewNovedadesHandler(novedadService *service.NovedadService) *NovedadesHandler {
	return &NovedadesHandler{novedades: novedadService}
}

// List handles GET /novedades.
func (h *NovedadesHandler) List(c *fiber.Ctx) error {
	list, err := h.novedades.ListActive(c.UserContext(), session(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewNovedadResponses(list))
}

// Create handles POST /novedades.
func (h *NovedadesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNovedadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.novedades.Create(c.UserContext(), session(c), service.NovedadInput{
		Content: req.Content,
		AreaID:  req.AreaID,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewNovedadResponse(n))
}

// Search handles POST /novedades/search.
func (h *NovedadesHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchNovedadesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	list, err := h.novedades.Search(c.UserContext(), session(c), service.SearchInput{
		AuthorID:  req.AuthorID,
		AreaID:    req.AreaID,
		Tags:      req.Tags,
		From:      req.From,
		To:        req.To,
		Text:      req.Text,
		Scope:     req.Scope,
		IsDeleted: req.IsDeleted,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewNovedadResponses(list))
}

// Delete handles PATCH /novedades/:id/delete.
func (h *NovedadesHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.novedades.Delete(c.UserContext(), session(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewNovedadResponse(n))
}

// Restore handles PATCH /novedades/:id/restore.
func (h *NovedadesHandler) Restore(c *fiber.Ctx) error {
	n, err := h.novedades.Restore(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewNovedadResponse(n))
}
