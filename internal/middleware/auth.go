package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/DLXHub/API/internal/config"
	"github.com/DLXHub/API/internal/response"
)

type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(userID, username, role string) (string, error) {
	claims := JWTClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWT.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWT.Secret))
}

// rawToken pulls the bearer token from the Authorization header or the
// token cookie.
func rawToken(c *fiber.Ctx) string {
	if header := c.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Cookies("token")
}

func parseClaims(raw string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func setAuthLocals(c *fiber.Ctx, claims *JWTClaims) {
	c.Locals("userID", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("role", claims.Role)
}

func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := rawToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error("Missing authorization"))
		}

		claims, err := parseClaims(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error("Invalid token"))
		}

		setAuthLocals(c, claims)
		return c.Next()
	}
}

// OptionalAuth populates the auth locals when a valid token is presented and
// lets the request through either way. Public content routes use it so
// authenticated editors can opt into draft reads.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := rawToken(c); raw != "" {
			if claims, err := parseClaims(raw); err == nil {
				setAuthLocals(c, claims)
			}
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Locals("role")
		if role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(response.Error("Admin access required"))
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or empty on public routes.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}
