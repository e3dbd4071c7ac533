package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	correlationIDKey    = "correlationID"
	correlationIDHeader = "X-Correlation-ID"
)

// CorrelationIDMiddleware 透传或生成 Correlation ID，并回写到响应头，
// 使一次导出从 HTTP 请求到 Worker 任务的日志可以串起来。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(correlationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		c.Set(correlationIDKey, correlationID)
		c.Header(correlationIDHeader, correlationID)

		c.Next()
	}
}

// GetCorrelationID 从上下文中取出 Correlation ID，缺失时返回空串。
func GetCorrelationID(c *gin.Context) string {
	if value, ok := c.Get(correlationIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
