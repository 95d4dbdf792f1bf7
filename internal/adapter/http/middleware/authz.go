package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
)

const (
	identityKey = "identity"
	tokenKey    = "access_token"
)

// Authz verifies bearer tokens minted by the identity provider (HS256 with
// the project JWT secret).
type Authz struct {
	secret   []byte
	audience string
}

func NewAuthz(secret, audience string) *Authz {
	return &Authz{secret: []byte(secret), audience: audience}
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verify parses raw and returns the identity it carries.
func (a *Authz) Verify(raw string) (domain.Identity, error) {
	var cl claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second), // small clock skew
		jwt.WithExpirationRequired(),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}
	token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Identity{}, err
	}
	if !token.Valid || cl.Subject == "" {
		return domain.Identity{}, errors.New("token without subject")
	}
	return domain.Identity{ID: cl.Subject, Email: cl.Email, Role: cl.Role}, nil
}

// Require rejects requests without a valid token. When roles are given the
// token's role must be one of them.
func (a *Authz) Require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		id, err := a.Verify(raw)
		if err != nil {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		if len(roles) > 0 && !hasRole(id.Role, roles) {
			forbidden(c, "insufficient_scope", "role not allowed")
			return
		}

		c.Set(identityKey, id)
		c.Set(tokenKey, raw)
		c.Next()
	}
}

// Optional attaches the identity when a valid token is present and lets the
// request through either way.
func (a *Authz) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearer(c); ok {
			if id, err := a.Verify(raw); err == nil {
				c.Set(identityKey, id)
				c.Set(tokenKey, raw)
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by Require or Optional.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

// TokenFrom returns the verified raw bearer token.
func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearer(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(auth[7:])
	return raw, raw != ""
}

func hasRole(have string, allowed []string) bool {
	for _, r := range allowed {
		if r == have {
			return true
		}
	}
	return false
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": code, "detail": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": code, "detail": desc})
}
