package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"slidecast-backend/internal/logging"
	"slidecast-backend/internal/middleware"
)

// RouterDeps holds everything the HTTP surface needs.
type RouterDeps struct {
	Accounts       Accounts
	Sessions       Sessions
	Deck           Deck
	Tokens         middleware.TokenVerifier
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	RegisterValidators()

	accountsHandler := NewAccountsHandler(deps.Accounts, deps.Logger)
	sessionsHandler := NewSessionsHandler(deps.Sessions, deps.Logger)
	slidesHandler := NewSlidesHandler(deps.Deck, deps.MaxUploadBytes, deps.Logger)

	router := gin.New()
	router.MaxMultipartMemory = slidesHandler.maxBytes

	// Middleware
	router.Use(logging.RequestLogger(deps.Logger))
	router.Use(gin.Recovery())

	// Swagger documentation, served from whatever the docs package registered
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/ping", Ping)
	router.GET("/health", HealthHandler)

	// Accounts
	router.POST("/signup", accountsHandler.Signup)
	router.POST("/signin", accountsHandler.Signin)

	// Sessions
	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(deps.Tokens))
	authed.POST("/session", sessionsHandler.CreateSession)
	authed.GET("/sessionsResponse", sessionsHandler.ListSessions)
	authed.GET("/sessions", sessionsHandler.ListSessions)
	authed.POST("/session/:sessionId/start", sessionsHandler.StartSession)
	authed.POST("/session/:sessionId/end", sessionsHandler.EndSession)

	// Slides (no auth)
	router.POST("/session/:sessionId/slides/pdf", slidesHandler.UploadDeck)

	return router
}
