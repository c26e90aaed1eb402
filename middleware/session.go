package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"tourdesk/logging"
	"tourdesk/models"
)

const (
	// SessionCookie carries the signed session token; it is the only bearer of identity.
	SessionCookie = "session"
	SessionTTL    = 24 * time.Hour

	sessionLocal = "session"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Session is the authenticated caller, resolved once per request.
type Session struct {
	UserID uint
	Name   string
	Email  string
	Role   models.Role
}

// SessionStore resolves a token's subject to the current account.
type SessionStore interface {
	FindByID(ctx context.Context, id uint) (*models.AdminUser, error)
}

type sessionClaims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token for the user.
func GenerateSessionToken(user *models.AdminUser, secret string, now time.Time) (string, error) {
	claims := sessionClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry and returns the user id.
func ParseSessionToken(tokenString, secret string) (uint, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}

// SetSessionCookie writes the token as an HttpOnly cookie.
func SetSessionCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(SessionTTL),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionMiddleware rejects requests without a valid session cookie with 401.
// The token only names the account; role and identity come from the store so
// demotions and deletions apply immediately.
func SessionMiddleware(store SessionStore, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(SessionCookie)
		if raw == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		userID, err := ParseSessionToken(raw, secret)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		user, err := store.FindByID(c.UserContext(), userID)
		if err != nil {
			logging.Debug().Uint("userId", userID).Err(err).Msg("session subject not resolved")
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		c.Locals(sessionLocal, &Session{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		})
		return c.Next()
	}
}

// CurrentSession returns the session stored by SessionMiddleware.
func CurrentSession(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals(sessionLocal).(*Session)
	return s, ok && s != nil
}
