package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/storefront/pkg/logger"
)

// CookieName is the cookie the storefront session token travels in
const CookieName = "authToken"

// Identity is an authenticated viewer
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// Resolver turns an opaque credential into an identity.
// The boolean is false for missing, malformed, expired or forged credentials.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Identity, bool)
}

// Claims carried by storefront session tokens. Older tokens use userId instead of user_id.
type Claims struct {
	UserID       int64  `json:"user_id,omitempty"`
	LegacyUserID int64  `json:"userId,omitempty"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) subject() int64 {
	if c.UserID != 0 {
		return c.UserID
	}
	return c.LegacyUserID
}

// JWTResolver validates HS256 session tokens
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTResolver creates a resolver for tokens signed with secret
func NewJWTResolver(secret string) (*JWTResolver, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret cannot be empty")
	}
	return &JWTResolver{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Resolve validates credential and extracts the viewer identity
func (r *JWTResolver) Resolve(ctx context.Context, credential string) (Identity, bool) {
	if credential == "" {
		return Identity{}, false
	}

	claims := &Claims{}
	token, err := r.parser.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Debug(ctx).Msg("Session token expired")
		} else {
			logger.Debug(ctx).Err(err).Msg("Session token rejected")
		}
		return Identity{}, false
	}
	if !token.Valid {
		return Identity{}, false
	}

	userID := claims.subject()
	if userID <= 0 {
		logger.Debug(ctx).Int64("user_id", userID).Msg("Session token carries no usable user id")
		return Identity{}, false
	}

	return Identity{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, true
}

// CredentialFromHeaders picks the session cookie first and falls back to a bearer token
func CredentialFromHeaders(cookie, authorization string) string {
	if cookie != "" {
		return cookie
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CredentialFromRequest extracts the session credential from an incoming request
func CredentialFromRequest(r *http.Request) string {
	var cookie string
	if c, err := r.Cookie(CookieName); err == nil {
		cookie = c.Value
	}
	return CredentialFromHeaders(cookie, r.Header.Get("Authorization"))
}
