package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/ripbox-go/api/handlers"
	"github.com/yourusername/ripbox-go/api/middleware"
	"github.com/yourusername/ripbox-go/internal/domain"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// SetupRouter sets up the read-only history API
func SetupRouter(history domain.HistoryRepository, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler(Version)
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		historyHandler := handlers.NewHistoryHandler(history, log)
		records := v1.Group("/history")
		{
			records.GET("", historyHandler.ListRecords)
			records.GET("/stats", historyHandler.GetStats)
			records.GET("/:id", historyHandler.GetRecord)
		}
	}

	return router
}
