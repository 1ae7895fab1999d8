package echoapi

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/user"
)

const contextTokenKey = "userToken"

var (
	errUnauthorized = core.NewUnauthorizedError("user not authenticated")
	errForbidden    = core.NewForbiddenError("permission denied")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewClaims returns the claims of a token issued to usr at now.
func NewClaims(usr user.User, conf *core.Config, now time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.JWTExpirationDelta)),
		},
		UserID:   usr.ID,
		Username: usr.Username,
		Role:     usr.Role,
	}
}

// User returns the (partial) user the claims were issued to.
func (c *Claims) User() user.User {
	return user.User{ID: c.UserID, Username: c.Username, Role: c.Role}
}

func (c *Claims) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}

type tokenIssuer struct {
	conf *core.Config
}

var _ user.TokenIssuer = (*tokenIssuer)(nil)

// NewTokenIssuer returns a user.TokenIssuer signing HS256 tokens with conf.SecretKey.
func NewTokenIssuer(conf *core.Config) user.TokenIssuer {
	return &tokenIssuer{conf: conf}
}

func (ti *tokenIssuer) IssueToken(usr user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, NewClaims(usr, ti.conf, time.Now()))
	ss, err := token.SignedString([]byte(ti.conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// jwtMiddleware verifies the bearer token of the request.
// When optional, requests without a valid token go through anonymously.
func jwtMiddleware(conf *core.Config, optional bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(Claims)
		},
		ContinueOnIgnoredError: optional,
		ErrorHandler: func(ctx echo.Context, err error) error {
			if optional {
				return nil
			}
			return errUnauthorized
		},
	})
}

func getContextClaims(ctx echo.Context) (*Claims, bool) {
	token, ok := ctx.Get(contextTokenKey).(*jwt.Token)
	if !ok || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	return claims, ok
}

func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, ok := getContextClaims(ctx)
		if !ok {
			return errUnauthorized
		}
		if !claims.IsAdmin() {
			return errForbidden
		}
		return next(ctx)
	}
}
