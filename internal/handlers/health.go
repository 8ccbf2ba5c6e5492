package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/pkg/response"
)

// Health returns a simple status payload useful for readiness checks. The
// database connection is pinged so orchestrators stop routing traffic when
// the store is unreachable.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		if code != http.StatusOK {
			c.JSON(code, gin.H{"success": false, "status": status})
			return
		}
		response.Success(c, code, gin.H{"status": status})
	}
}
