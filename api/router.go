package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/startech-innovation/sitekit/api/handler"
	"github.com/startech-innovation/sitekit/api/middleware"
	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/mailer"
	"github.com/startech-innovation/sitekit/models"
)

// NewRouter creates a configured Gin engine for the contact form service.
//
// Middleware chain:
//
//	Global:   Recovery → Logger
//	Contact:  RateLimit
//
// Health is not rate limited so monitoring probes always work.
func NewRouter(sender mailer.Sender, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(handler.Recovery())
	r.Use(gin.Logger())

	api := r.Group("/api")

	api.GET("/health", handler.Health(sender, startTime))

	api.POST("/contact",
		middleware.RateLimit(cfg.RateLimit, func(c *gin.Context) {
			slog.Warn("contact: request rejected",
				"code", models.ErrCodeRateLimited,
				"client_ip", c.ClientIP(),
			)
			c.JSON(http.StatusTooManyRequests, models.ContactResponse{
				Success: false,
				Error:   handler.MsgTooManyRequests,
			})
		}),
		handler.Contact(sender, cfg.Contact),
	)

	return r
}
