package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rentease/listing-service/internal/adapter/http/middleware"
	"github.com/rentease/listing-service/internal/platform/logger"
)

// NewRouter wires the public and token-guarded routes.
func NewRouter(h *Handler, jwtSecret string, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/listings", h.Index)
	r.GET("/listings/:id", h.Show)
	r.GET("/users/:id/listings", h.ListByAuthor)

	r.POST("/password/forgot", h.ForgotPassword)
	r.GET("/password/reset/:token", h.ValidateResetToken)
	r.POST("/password/reset/:token", h.ResetPassword)

	auth := r.Group("/", middleware.Auth(jwtSecret, log))
	{
		auth.POST("/listings", h.Create)
		auth.PUT("/listings/:id", h.Update)
		auth.DELETE("/listings/:id", h.Delete)
		auth.POST("/listings/:id/like", h.ToggleLike)
		auth.POST("/contact", h.CreateContact)
	}

	return r
}
