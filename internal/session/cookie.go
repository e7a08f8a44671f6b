package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName identifies the browser session cookie.
const CookieName = "lifelink_session"

var ErrBadCookie = errors.New("session cookie is invalid")

// Cookies mints and verifies the signed session cookie. The cookie value is
// an HMAC JWT carrying only the session ID, so a client cannot forge or
// swap IDs.
type Cookies struct {
	secret []byte
	ttl    time.Duration
}

func NewCookies(secret []byte, ttl time.Duration) *Cookies {
	return &Cookies{secret: secret, ttl: ttl}
}

// Issue creates a fresh session ID and returns it with its signed cookie value.
func (c *Cookies) Issue() (sid, value string, err error) {
	sid = uuid.NewString()
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	value, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session cookie: %w", err)
	}
	return sid, value, nil
}

// Verify extracts the session ID from a cookie value.
func (c *Cookies) Verify(value string) (string, error) {
	token, err := jwt.Parse(value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrBadCookie
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadCookie
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrBadCookie
	}
	return sid, nil
}

// TTLSeconds is the cookie Max-Age.
func (c *Cookies) TTLSeconds() int {
	return int(c.ttl / time.Second)
}
