package directory

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cedarbank/cedar_bank/internal/store"
	"github.com/cedarbank/cedar_bank/internal/tier"
)

// Handler exposes the manager provisioning endpoints.
type Handler struct {
	directory *Directory
}

// NewHandler builds a directory HTTP handler.
func NewHandler(directory *Directory) *Handler {
	return &Handler{directory: directory}
}

type createRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// Create provisions a new customer account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.directory.Create(c.UserContext(), req.Identifier, req.Secret); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidIdentifier):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusBadGateway, "persistence failure")
		}
	}

	opening := h.directory.OpeningBalance()
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"identifier": req.Identifier,
		"balance":    opening,
		"tier":       tier.For(opening).String(),
	})
}

// Remove deletes a customer account.
func (h *Handler) Remove(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	if err := h.directory.Remove(c.UserContext(), identifier); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadGateway, "persistence failure")
	}

	return c.SendStatus(http.StatusNoContent)
}
