package responses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger é o logger do processo. Fica como Nop até InitLogger ser chamado.
var Logger = zap.NewNop()

// InitLogger configura o logger global. "debug" usa a configuração de desenvolvimento.
func InitLogger(level string) {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if lvl, parseErr := zapcore.ParseLevel(level); parseErr == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return
	}
	Logger = logger
}

// Error responde com o envelope de erro padrão da API.
func Error(c *gin.Context, status int, message string, details ...string) {
	body := gin.H{"error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	Logger.Warn("requisição com erro",
		zap.Int("status", status),
		zap.String("rota", c.FullPath()),
		zap.String("erro", message),
		zap.Strings("detalhes", details),
	)
	c.AbortWithStatusJSON(status, body)
}

// Success responde com o corpo JSON informado.
func Success(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
