package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/regcomments/registry-comments/internal/tenant"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
)

// Tenant scopes the request context to the tenant named in X-Tenant-ID.
// Requests without the header run as the default tenant.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderTenantID)
		if raw == "" {
			c.Next()
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
			return
		}
		c.Request = c.Request.WithContext(tenant.WithID(c.Request.Context(), id))
		c.Next()
	}
}

// User stores the caller named in X-User-ID under "user_id".
func User() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := c.GetHeader(HeaderUserID); user != "" {
			c.Set("user_id", user)
		}
		c.Next()
	}
}
