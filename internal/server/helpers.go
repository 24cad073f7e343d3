package server

import (
	"postboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

const accessTokenCookie = "access_token"

// parseBody decodes a JSON object body into dest. Anything else, including a
// JSON array or scalar, is answered with 400 and errResponseWritten.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// pathID reads an integer route parameter. Routes constrain these to <int>,
// so a parse failure here means the value overflowed.
func pathID(c *fiber.Ctx, param string) (int64, error) {
	id, err := c.ParamsInt(param)
	if err != nil {
		_ = models.RespondWithMessage(c, fiber.StatusNotFound, "Not Found")
		return 0, errResponseWritten
	}
	return int64(id), nil
}

// setAccessCookie attaches the issued token as the access_token cookie.
func (s *Server) setAccessCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
