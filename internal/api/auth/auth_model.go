package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-user-admin/config"
	"github.com/FACorreiaa/go-user-admin/internal/api"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

const defaultAccessTokenTTL = time.Hour

// issueAccessToken signs an HS256 token carrying the admin's id and email.
func issueAccessToken(cfg config.JWTConfig, admin types.Admin, now time.Time) (string, error) {
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}
	claims := types.Claims{
		UserID: admin.ID.String(),
		Email:  admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// parseAccessToken verifies signature, expiry, issuer and audience.
func parseAccessToken(cfg config.JWTConfig, tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.SecretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		msg := "Invalid or expired token"
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			msg = "Token has expired"
		case errors.Is(err, jwt.ErrTokenMalformed):
			msg = "Malformed token"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			msg = "Invalid token signature"
		}
		return nil, types.NewError(types.KindUnauthorized, msg, err)
	}
	if !token.Valid {
		return nil, types.NewError(types.KindUnauthorized, "Invalid token", nil)
	}
	if claims.Issuer != cfg.Issuer {
		return nil, types.NewError(types.KindUnauthorized, "Invalid token issuer", nil)
	}
	if !api.VerifyAudience(claims.Audience, cfg.Audience) {
		return nil, types.NewError(types.KindUnauthorized, "Invalid token audience", nil)
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", types.NewError(types.KindUnauthorized, "Authorization header required", nil)
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", types.NewError(types.KindUnauthorized, "Authorization header format must be Bearer {token}", nil)
	}
	return parts[1], nil
}
