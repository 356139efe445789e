package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.gatehouse/internal/model"
)

const viewerContextKey = "gatehouse.viewer"

// Authenticate resolves the viewer from an upstream-issued HS256 bearer
// token. This service never issues tokens itself; the auth service does.
// Claims: "sub" carries the user id, "role" the global role.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			rawToken, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			subject, _ := claims["sub"].(string)
			if subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing subject")
			}

			roleClaim, _ := claims["role"].(string)
			role, err := model.ParseRole(roleClaim)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid role")
			}

			c.Set(viewerContextKey, model.Viewer{ID: model.UserID(subject), Role: role})
			return next(c)
		}
	}
}

func viewerFrom(c echo.Context) (model.Viewer, error) {
	viewer, ok := c.Get(viewerContextKey).(model.Viewer)
	if !ok {
		return model.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "no viewer in context")
	}
	return viewer, nil
}
