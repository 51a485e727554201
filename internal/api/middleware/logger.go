// internal/api/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger registra cada requisição com o logger estruturado.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("metodo", c.Request.Method),
			zap.String("caminho", c.Request.URL.Path),
			zap.String("consulta", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duracao", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("erros", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("requisição", fields...)
			return
		}
		logger.Info("requisição", fields...)
	}
}
