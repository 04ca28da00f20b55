package routes

import (
	"net/http"

	"github.com/ArowuTest/valera-classroom/internal/config"
	"github.com/ArowuTest/valera-classroom/internal/handlers"
	"github.com/ArowuTest/valera-classroom/internal/middleware"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// HandlerDependencies bundles the handlers served by the router
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	ClassHandler   *handlers.ClassHandler
	CatalogHandler *handlers.CatalogHandler
	GameHandler    *handlers.GameHandler
	Tokens         *jwt.TokenService
	Logger         *slog.Logger
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))

	if cfg.Server.StaticDir != "" {
		router.Static(cfg.Server.StaticURL, cfg.Server.StaticDir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", deps.AuthHandler.Login)
		api.GET("/assets/manifest", deps.GameHandler.Manifest)

		api.GET("/classes/rating", deps.ClassHandler.Rating)
		api.GET("/prizes", deps.CatalogHandler.ListPrizes)
		api.GET("/shop-items", deps.CatalogHandler.ListShopItems)

		class := api.Group("/class/:id")
		{
			class.GET("/balance", deps.ClassHandler.GetBalance)
			class.POST("/balance", deps.ClassHandler.SetBalance)
			class.POST("/balance/delta", deps.ClassHandler.ApplyDelta)

			g := class.Group("/game")
			{
				g.GET("/state", deps.GameHandler.State)
				g.GET("/events", deps.GameHandler.Events)
				g.POST("/signals/advance", deps.GameHandler.Advance)
				g.POST("/signals/retreat", deps.GameHandler.Retreat)
				g.POST("/restart", deps.GameHandler.Restart)
				g.POST("/keys", deps.GameHandler.Key)
				g.POST("/modals/close-all", deps.GameHandler.CloseAll)
				g.POST("/modals/:panel/:action", deps.GameHandler.Modal)
				g.POST("/coins/show", deps.GameHandler.ShowCoins)
				g.POST("/coins/bonus", deps.GameHandler.Bonus)
				g.POST("/coins/submit", deps.GameHandler.SubmitCoins)
				g.POST("/lottery/:kind/draw", deps.GameHandler.Draw)
				g.POST("/purchase/select", deps.GameHandler.SelectItem)
				g.POST("/purchase/confirm", deps.GameHandler.ConfirmPurchase)
				g.POST("/purchase/cancel", deps.GameHandler.CancelPurchase)
			}
		}
	}

	admin := router.Group("/api")
	admin.Use(middleware.JWTAuthMiddleware(deps.Tokens), middleware.RequireAdmin())
	{
		admin.GET("/classes", deps.ClassHandler.ListClasses)
		admin.GET("/classes/:id", deps.ClassHandler.GetClass)
		admin.POST("/classes", deps.ClassHandler.CreateClass)
		admin.PUT("/classes/:id", deps.ClassHandler.UpdateClass)
		admin.DELETE("/classes/:id", deps.ClassHandler.DeleteClass)
		admin.GET("/class/:id/transactions", deps.ClassHandler.Transactions)

		admin.POST("/prizes", deps.CatalogHandler.CreatePrize)
		admin.PUT("/prizes/:id", deps.CatalogHandler.UpdatePrize)
		admin.DELETE("/prizes/:id", deps.CatalogHandler.DeletePrize)

		admin.POST("/shop-items", deps.CatalogHandler.CreateShopItem)
		admin.PUT("/shop-items/:id", deps.CatalogHandler.UpdateShopItem)
		admin.DELETE("/shop-items/:id", deps.CatalogHandler.DeleteShopItem)
	}

	return router
}
