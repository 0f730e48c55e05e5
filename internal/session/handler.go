package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/cedarbank/cedar_bank/internal/account"
	"github.com/cedarbank/cedar_bank/internal/store"
)

// secretHeader carries the customer secret on read-only requests, where a
// body would be out of place.
const secretHeader = "X-Account-Secret"

// Handler exposes the customer-facing account endpoints. Each request is
// its own session: login, mutate, persist, close.
type Handler struct {
	service *Service
}

// NewHandler builds a session HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transactionRequest struct {
	Secret string          `json:"secret"`
	Amount decimal.Decimal `json:"amount"`
}

// Deposit adds funds to the account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.transact(c, (*Session).Deposit)
}

// Withdraw removes funds from the account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.transact(c, (*Session).Withdraw)
}

// Purchase performs an online purchase with the tier fee applied.
func (h *Handler) Purchase(c *fiber.Ctx) error {
	return h.transact(c, (*Session).Purchase)
}

// Balance reads back balance and tier for display.
func (h *Handler) Balance(c *fiber.Ctx) error {
	sess, err := h.service.Login(c.UserContext(), c.Params("identifier"), c.Get(secretHeader))
	if err != nil {
		return mapError(err)
	}
	defer sess.Close()

	return c.JSON(stateResponse(sess))
}

func (h *Handler) transact(c *fiber.Ctx, op func(*Session, context.Context, decimal.Decimal) error) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.service.Login(c.UserContext(), c.Params("identifier"), req.Secret)
	if err != nil {
		return mapError(err)
	}
	defer sess.Close()

	if err := op(sess, c.UserContext(), req.Amount); err != nil {
		return mapError(err)
	}

	return c.JSON(stateResponse(sess))
}

func stateResponse(sess *Session) fiber.Map {
	return fiber.Map{
		"identifier": sess.Identifier(),
		"balance":    sess.Balance(),
		"tier":       sess.Tier().String(),
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, account.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrAccountBusy):
		return fiber.NewError(http.StatusLocked, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusBadGateway, "persistence failure")
	}
}
