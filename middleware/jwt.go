package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Akhalfstar/Realeaste-bakend/utils"
)

// JWT validates the bearer token and stashes the authenticated principal
// on the context as user_id / user_email / user_role.
func JWT(tm *utils.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.Error(c, http.StatusUnauthorized, "Authorization header is required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return utils.Error(c, http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := tm.Validate(tokenParts[1])
			if err != nil {
				return utils.Error(c, http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)

			return next(c)
		}
	}
}
