package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cashpro-ledger/internal/server/handler"
	"github.com/cashpro-ledger/internal/server/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	balanceHandler *handler.BalanceHandler,
	operationHandler *handler.OperationHandler,
	queryHandler *handler.QueryHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account provisioning and balance lookups
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", balanceHandler.Provision)
			accounts.GET("/name/:name/history", queryHandler.History)
		}

		balances := v1.Group("/balances")
		{
			balances.GET("/:account_id", balanceHandler.GetByID)
			balances.GET("/name/:name", balanceHandler.GetByName)
		}

		// Admin mutation operations
		operations := v1.Group("/operations")
		{
			operations.POST("/set", operationHandler.Set)
			operations.POST("/credit", operationHandler.Credit)
			operations.POST("/debit", operationHandler.Debit)
			operations.POST("/transfer", operationHandler.Transfer)
		}

		v1.GET("/leaderboard", queryHandler.Leaderboard)

		// Preformatted strings for external displays
		placeholders := v1.Group("/placeholders")
		{
			placeholders.GET("/balance/:name", queryHandler.PlaceholderBalance)
			placeholders.GET("/top/:currency", queryHandler.PlaceholderTop)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
