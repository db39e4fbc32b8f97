package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"prompthub/internal/core/auth"
	"prompthub/internal/transport/http/handler"
	mdw "prompthub/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, ph *handler.PromptHandler, ah *handler.AuthHandler) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 公共接口
	api.POST("/auth/login", ah.Login)
	api.GET("/prompts", ph.List)
	api.GET("/prompts/:id", ph.Get)
	api.GET("/users/:id/prompts", ph.ListByUser)

	// 鉴权接口
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))
	authed.POST("/prompts", ph.Create)
	authed.PUT("/prompts/:id", ph.Update)
	authed.DELETE("/prompts/:id", ph.Delete)
	authed.GET("/me", ah.Me)
	authed.GET("/me/transactions", ah.MyTransactions)

	return r
}
