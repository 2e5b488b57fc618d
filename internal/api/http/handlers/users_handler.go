package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/api/dto"
	"github.com/Rodrymza/app-novedades/internal/service"
)

// UsersHandler exposes user administration endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), session(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponses(users))
}

// Summaries handles GET /users/summaries.
func (h *UsersHandler) Summaries(c *fiber.Ctx) error {
	summaries, err := h.users.Summaries(c.UserContext(), session(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserSummaryResponses(summaries))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), session(c), c.Params("id"), service.UserUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Document:  req.Document,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// Delete handles PATCH /users/:id/delete.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Delete(c.UserContext(), session(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// Restore handles PATCH /users/:id/restore.
func (h *UsersHandler) Restore(c *fiber.Ctx) error {
	user, err := h.users.Restore(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// ResetPassword handles PATCH /users/:id/reset-password.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	if err := h.users.ResetPassword(c.UserContext(), session(c), c.Params("id")); err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"message": "Contraseña restablecida al número de documento"})
}
