package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceHeader 前端和网关回调沿用的追踪头
const TraceHeader = "X-Trace-ID"

// 超长的追踪号丢弃后重新生成
const maxTraceIDLen = 64

// TraceMiddleware 添加请求追踪ID，日志和告警通过 "traceID" 关联同一次下单
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.New().String()
		}

		c.Set("traceID", traceID)
		c.Header(TraceHeader, traceID)

		c.Next()
	}
}
