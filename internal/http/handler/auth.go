package handler

import (
	"github.com/gofiber/fiber/v2"

	"carcatalog/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. Bad credentials are a 401, never an
// internal error.
func Login(gate service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse credentials")
		}

		user, ok := gate.Login(req.Username, req.Password)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "username or password is incorrect")
		}
		return c.JSON(user)
	}
}

// Logout handles POST /auth/logout. Logging out an anonymous session is a
// no-op, not an error.
func Logout(gate service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gate.Logout()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Session handles GET /session and reports the current session state for
// the presentation layer to drive its role-dependent surface.
func Session(gate service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user":        gate.CurrentUser(),
			"logged_in":   gate.IsLoggedIn(),
			"is_admin":    gate.IsAdmin(),
			"is_standard": gate.IsStandardUser(),
		})
	}
}
