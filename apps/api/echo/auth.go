package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

const (
	contextTokenKey = "userToken"
	audience        = "PokeAyman"
)

// Claims represents the authorization claims transmitted via a JWT.
// The identity provider is trusted: whoever holds a valid token is who the claims say.
type Claims struct {
	jwt.StandardClaims
	OrganizationID string   `json:"org,omitempty"`
	Roles          []string `json:"roles,omitempty"`
}

func (c Claims) Identity() core.Identity {
	return core.Identity{
		UserID:         c.Subject,
		OrganizationID: c.OrganizationID,
		Roles:          c.Roles,
	}
}

// Auth signs and verifies identity tokens.
type Auth struct {
	issuer     string
	key        []byte
	expiration time.Duration
	now        func() time.Time
}

func NewAuth(issuer string, secretKey []byte, expiration time.Duration) *Auth {
	return &Auth{
		issuer:     issuer,
		key:        secretKey,
		expiration: expiration,
		now:        time.Now,
	}
}

// NewAuthFromConfig builds an Auth from the server section of conf.
func NewAuthFromConfig(conf *core.Config) *Auth {
	return NewAuth(conf.Server.JWTIssuer, []byte(conf.SecretKey), conf.Server.JWTExpiration)
}

// Middleware is the JWT auth middleware.
func (a *Auth) Middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    a.key,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	})
}

func (a *Auth) NewClaims(id core.Identity) *Claims {
	now := a.now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.issuer,
			Subject:   id.UserID,
			Audience:  audience,
			ExpiresAt: now.Add(a.expiration).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrganizationID: id.OrganizationID,
		Roles:          id.Roles,
	}
}

// GenerateToken generates a signed JWT token string carrying id.
func (a *Auth) GenerateToken(id core.Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), a.NewClaims(id))
	ss, err := token.SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextIdentity(ctx echo.Context) (core.Identity, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Identity{}, err
	}
	return claims.Identity(), nil
}
