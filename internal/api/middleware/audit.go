package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextIPAddress = "ip_address"
	ContextUserAgent = "user_agent"
)

// AuditMiddleware captures request origin details for the audit trail.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ipAddress := c.GetHeader("X-Forwarded-For")
		if ipAddress == "" {
			ipAddress = c.GetHeader("X-Real-IP")
		}
		if ipAddress == "" {
			ipAddress = c.ClientIP()
		}
		// Proxies append hops comma-separated; the first is the client.
		if idx := strings.Index(ipAddress, ","); idx != -1 {
			ipAddress = strings.TrimSpace(ipAddress[:idx])
		}

		c.Set(ContextIPAddress, ipAddress)
		c.Set(ContextUserAgent, c.GetHeader("User-Agent"))
		c.Next()
	}
}

func GetIPAddress(c *gin.Context) string {
	if val, exists := c.Get(ContextIPAddress); exists {
		if ip, ok := val.(string); ok {
			return ip
		}
	}
	return ""
}

func GetUserAgent(c *gin.Context) string {
	if val, exists := c.Get(ContextUserAgent); exists {
		if ua, ok := val.(string); ok {
			return ua
		}
	}
	return ""
}
