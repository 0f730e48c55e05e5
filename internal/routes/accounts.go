package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cedarbank/cedar_bank/internal/directory"
	"github.com/cedarbank/cedar_bank/internal/session"
)

// RegisterAccountRoutes wires the manager provisioning endpoints and the
// customer transaction endpoints.
func RegisterAccountRoutes(r fiber.Router, dir *directory.Handler, sess *session.Handler, managerGuard fiber.Handler) {
	// manager role
	r.Post("/accounts", managerGuard, dir.Create)
	r.Delete("/accounts/:identifier", managerGuard, dir.Remove)

	// customer role
	r.Get("/accounts/:identifier/balance", sess.Balance)
	r.Post("/accounts/:identifier/deposit", sess.Deposit)
	r.Post("/accounts/:identifier/withdraw", sess.Withdraw)
	r.Post("/accounts/:identifier/purchase", sess.Purchase)
}
