package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ginKey = "logger"

// IntoGin stores a request-scoped logger in the gin context.
func IntoGin(c *gin.Context, l *zap.Logger) {
	c.Set(ginKey, l)
}

// FromGin returns the request-scoped logger, falling back to the global one.
func FromGin(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return Get()
}
