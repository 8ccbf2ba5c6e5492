package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/medigrid/ambudispatch/internal/auth"
	"github.com/medigrid/ambudispatch/internal/models"
	"github.com/medigrid/ambudispatch/pkg/errors"
	"github.com/medigrid/ambudispatch/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
	CtxRoleKey   = "userRole"
)

// Auth enforces JWT authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		role, ok := models.ParseRole(claims.Role)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, role)

		c.Next()
	}
}

// ActorFrom extracts the authenticated actor from the gin context.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	userID := c.GetString(CtxUserIDKey)
	if userID == "" {
		return models.Actor{}, false
	}
	v, ok := c.Get(CtxRoleKey)
	if !ok {
		return models.Actor{}, false
	}
	role, ok := v.(models.Role)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{UserID: userID, Role: role}, true
}
