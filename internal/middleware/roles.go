package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/medigrid/ambudispatch/internal/models"
	"github.com/medigrid/ambudispatch/pkg/errors"
	"github.com/medigrid/ambudispatch/pkg/response"
)

// RequireRole rejects requests whose authenticated role is not in the allowed
// set. Each dispatch operation accepts exactly one role or role pair; the
// service layer re-checks ownership on top of this gate.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !actor.Is(allowed...) {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
