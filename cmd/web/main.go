// cmd/web/main.go
package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/LuisEduardoPedra/painelVendas/internal/api/handlers"
	"github.com/LuisEduardoPedra/painelVendas/internal/api/middleware"
	"github.com/LuisEduardoPedra/painelVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/painelVendas/internal/config"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/analysis"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/dataset"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func newRouter(h *handlers.DashboardHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS())

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/dashboard", h.HandleDashboard)
		apiV1.GET("/filtros", h.HandleFilters)
		apiV1.GET("/classificacao", h.HandleClassification)
		apiV1.GET("/tabela", h.HandleTable)
		apiV1.GET("/tabela/export", h.HandleExport)
		apiV1.POST("/recarregar", h.HandleReload)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	return router
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Arquivo .env não carregado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	responses.InitLogger(cfg.Logging.Level)
	logger := responses.Logger
	defer logger.Sync()

	gin.SetMode(cfg.Gin.Mode)

	datasetService := dataset.NewService(dataset.Options{
		Dir:                 cfg.Data.Dir,
		BaseHints:           cfg.Data.BaseHints,
		ClassificationHints: cfg.Data.ClassificationHints,
	}, dataset.NewCache(), logger)
	analysisService := analysis.NewService()
	dashboardHandler := handlers.NewDashboardHandler(datasetService, analysisService, handlers.DashboardOptions{
		TopN:           cfg.Dashboard.TopN,
		AttainmentCap:  cfg.Dashboard.AttainmentCap,
		HierarchyLevel: cfg.Dashboard.HierarchyLevel,
		MinSales:       cfg.Dashboard.MinSales,
	})

	// Carga inicial só para avisar cedo; o servidor sobe mesmo sem a base.
	if _, err := datasetService.Load(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("coloque a base de vendas no diretório de dados", zap.String("diretorio", cfg.Data.Dir), zap.Strings("padroes", cfg.Data.BaseHints))
		}
	}

	router := newRouter(dashboardHandler, logger)

	logger.Info("servidor iniciado", zap.String("porta", cfg.HTTP.Port))
	if err := router.Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal("falha ao iniciar o servidor", zap.Error(err))
	}
}
