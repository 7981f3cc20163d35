package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/fsdevblog/minurl/internal/controllers/middlewares"
)

// RouterParams зависимости роутера.
type RouterParams struct {
	AccountService AccountStore
	LinkService    LinkStore
	PingService    ConnectionChecker
	Tokens         TokenIssuer
	// BaseURL базовый адрес коротких ссылок в ответах, пустой означает адрес из запроса.
	BaseURL     string
	CORSOrigins []string
	Logger      *zap.Logger
}

// SetupRouter собирает gin роутер со всеми маршрутами.
func SetupRouter(params RouterParams) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middlewares.LoggerMiddleware(params.Logger))
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS(params.CORSOrigins))
	r.Use(middlewares.GzipMiddleware())

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, errorResponse{Message: msgNotFound})
	})
	r.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
	})

	pingController := NewPingController(params.PingService)
	authController := NewAuthController(params.AccountService, params.Tokens)
	linksController := NewLinksController(params.LinkService, params.BaseURL)

	r.GET("/ping", pingController.Ping)

	auth := r.Group("/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)

	urls := r.Group("/url")
	// Публичный редирект, без аутентификации.
	urls.GET("/:code", linksController.Redirect)

	protected := urls.Group("", middlewares.BearerAuth(params.Tokens))
	protected.POST("/shorten", linksController.Shorten)
	protected.GET("/list", linksController.List)
	protected.GET("/stats/:id", linksController.Stats)
	protected.DELETE("/:id", linksController.Delete)

	return r
}
