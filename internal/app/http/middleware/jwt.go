package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Authorize.
const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "rol"
)

// Claims is what a token carries about its holder.
type Claims struct {
	ID    uint
	Email string
	Role  access.Role
}

// IssueToken signs an HS256 token with id, email, rol and exp claims.
func IssueToken(secret string, ttl time.Duration, c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    c.ID,
		"email": c.Email,
		"rol":   string(c.Role),
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	var out Claims
	if id, ok := mc["id"].(float64); ok {
		out.ID = uint(id)
	}
	out.Email, _ = mc["email"].(string)
	rol, _ := mc["rol"].(string)
	out.Role = access.Role(rol)
	if out.ID == 0 || !out.Role.Valid() {
		return Claims{}, fmt.Errorf("invalid token claims")
	}
	return out, nil
}

// Authorize lets a request through only when it carries a valid bearer token
// whose rol is one of roles. No token gives 401; a bad, expired or
// insufficient token gives 403.
func Authorize(secret string, roles ...access.Role) gin.HandlerFunc {
	allowed := access.NewRoleSet(roles...)

	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			return
		}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Acceso denegado. No se proporcionó un token."})
			return
		}

		claims, err := parseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token inválido o expirado."})
			return
		}

		if !allowed.Allows(claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tienes permiso para realizar esta acción."})
			return
		}

		c.Set(ctxUserID, claims.ID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// CurrentUser returns the claims stored by Authorize.
func CurrentUser(c *gin.Context) (Claims, bool) {
	id := c.GetUint(ctxUserID)
	if id == 0 {
		return Claims{}, false
	}
	role, _ := c.Get(ctxRole)
	r, _ := role.(access.Role)
	return Claims{ID: id, Email: c.GetString(ctxEmail), Role: r}, true
}

// Actor is the audit identity of the authenticated caller.
func Actor(c *gin.Context) audit.Actor {
	u, _ := CurrentUser(c)
	return audit.Actor{ID: u.ID, Email: u.Email}
}

// bearerToken returns the token part of an Authorization header. A bare
// "Bearer" scheme with nothing after it counts as no token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len("Bearer") && strings.EqualFold(header[:len("Bearer")], "Bearer") {
		rest := header[len("Bearer"):]
		if rest == "" {
			return ""
		}
		if rest[0] == ' ' || rest[0] == '\t' {
			return strings.TrimSpace(rest)
		}
	}
	return header
}
