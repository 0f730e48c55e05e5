package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const (
	managerUserHeader   = "X-Manager-Username"
	managerSecretHeader = "X-Manager-Secret"
)

// ManagerAuth guards provisioning endpoints with the fixed manager
// credentials from configuration.
func ManagerAuth(username, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userOK := subtle.ConstantTimeCompare([]byte(c.Get(managerUserHeader)), []byte(username)) == 1
		secretOK := subtle.ConstantTimeCompare([]byte(c.Get(managerSecretHeader)), []byte(secret)) == 1
		if !userOK || !secretOK {
			return fiber.NewError(fiber.StatusUnauthorized, "manager credentials required")
		}
		return c.Next()
	}
}
