package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core"
)

var (
	contextClaimsKey = "claims"
	bearerPrefix     = "Bearer "

	errUnexpectedSigningMethod = errors.New("unexpected signing method")
)

// Claims represents the identity claims issued by the identity provider.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Code  string `json:"code,omitempty"`
	Staff bool   `json:"staff,omitempty"`
}

func (c Claims) Requester() core.Requester {
	return core.Requester{Code: c.Code, Name: c.Name, Staff: c.Staff}
}

// GenerateToken signs claims with HS256. Tokens are normally issued by the identity provider;
// this is used by the admin tool and tests.
func GenerateToken(secret []byte, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(secret []byte, raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// identityMiddleware reads the optional bearer token. Anonymous requests go through;
// a malformed, invalid or expired token is rejected.
func identityMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(ctx)
			}
			if !strings.HasPrefix(auth, bearerPrefix) {
				return errInvalidToken
			}
			claims, err := parseToken(secret, strings.TrimPrefix(auth, bearerPrefix))
			if err != nil {
				return errInvalidToken
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// staffMiddleware restricts a route to staff members, if enforced.
func staffMiddleware(enforce bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !enforce {
				return next(ctx)
			}
			claims, ok := getContextClaims(ctx)
			if !ok {
				return errUnauthorized
			}
			if !claims.Staff {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (*Claims, bool) {
	claims, ok := ctx.Get(contextClaimsKey).(*Claims)
	return claims, ok
}

func contextRequester(ctx echo.Context) core.Requester {
	if claims, ok := getContextClaims(ctx); ok {
		return claims.Requester()
	}
	return core.Requester{}
}
