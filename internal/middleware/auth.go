// Package middleware provides authentication, logging, tracing, and
// rate-limiting middleware for the application.
package middleware

import (
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/config"
	"newsdesk/internal/models"
	"newsdesk/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// SessionKey is the Fiber locals key holding the workflow session.
const SessionKey = "session"

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// IssueToken creates a signed JWT carrying the user's identity and role.
func IssueToken(user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// AuthRequired enforces authentication and stores the acting user's session
// in locals. The workflow engine receives this session explicitly; nothing
// downstream reads token state.
func AuthRequired(c *fiber.Ctx) error {
	sess, err := sessionFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Locals(SessionKey, sess)
	return c.Next()
}

// RequireRole returns middleware allowing only the given roles past. It must
// run after AuthRequired.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals(SessionKey).(workflow.Session)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		for _, r := range roles {
			if sess.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient role",
		})
	}
}

// Session extracts the workflow session stored by AuthRequired.
func Session(c *fiber.Ctx) (workflow.Session, bool) {
	sess, ok := c.Locals(SessionKey).(workflow.Session)
	return sess, ok
}

// OptionalSession parses the Authorization header if present but does not
// enforce it. Public routes use it so staff see unpublished content while
// anonymous readers get the published view.
func OptionalSession(c *fiber.Ctx) (workflow.Session, bool) {
	if sess, ok := Session(c); ok {
		return sess, true
	}
	if c.Get("Authorization") == "" {
		return workflow.Session{}, false
	}
	sess, err := sessionFromHeader(c)
	if err != nil {
		return workflow.Session{}, false
	}
	return sess, true
}

func sessionFromHeader(c *fiber.Ctx) (workflow.Session, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !models.Role(roleStr).Valid() {
		return workflow.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid role in token")
	}

	return workflow.Session{UserID: uint(userID), Role: models.Role(roleStr)}, nil
}
