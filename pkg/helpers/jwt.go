package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles generation and validation of session tokens
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

var defaultManager *JWTManager

func NewJWTManager(secret string, ttl time.Duration, issuer string) *JWTManager {
	m := &JWTManager{
		Secret: []byte(secret),
		TTL:    ttl,
		Issuer: issuer,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

// Claims carries the minimal session payload: subject is the account id.
type Claims struct {
	Email     string `json:"email"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// AccountID returns the subject claim.
func (c *Claims) AccountID() string { return c.Subject }

func (m *JWTManager) GenerateAccessToken(accountID, email, sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		Email:     email,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.Secret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	return claims, nil
}
