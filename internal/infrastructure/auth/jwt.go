package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cg-server/internal/config"
	"cg-server/internal/utils/platformerrors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carries the session identity inside both token kinds.
type Claims struct {
	TokenType string `json:"token_type"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into the account id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %w", err)
	}
	return uint(id), nil
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.ServiceName,
	}
}

// IssuePair mints a fresh access and refresh token for the account.
func (m *TokenManager) IssuePair(userID uint, email string) (access string, refresh string, err error) {
	now := time.Now()
	access, err = m.sign(userID, email, TokenTypeAccess, now, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.sign(userID, email, TokenTypeRefresh, now, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *TokenManager) sign(userID uint, email, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		TokenType: tokenType,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(ctx context.Context, raw string) (*Claims, error) {
	return m.verify(ctx, raw, TokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(ctx context.Context, raw string) (*Claims, error) {
	return m.verify(ctx, raw, TokenTypeRefresh)
}

func (m *TokenManager) verify(ctx context.Context, raw, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeUnauthorized, "invalid or expired token")
	}
	if claims.TokenType != wantType {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeUnauthorized, "wrong token type")
	}
	return claims, nil
}
