package gateway

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter assembles the HTTP surface around a handler.
func NewRouter(h *Handler, corsOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add structured JSON logging middleware
	router.Use(RequestLogger())
	router.Use(CORS(corsOrigin))
	router.Use(BodySizeLimit())

	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	ai := router.Group("/ai")
	ai.POST("/get-review", h.GetReview)
	ai.GET("/status", h.GetStatus)

	// Swagger documentation (public)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(h.NotFound)

	return router
}
