package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/startech-innovation/sitekit/mailer"
	"github.com/startech-innovation/sitekit/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/health.
//
// Status is "degraded" while the mailer has no credentials, since every
// submission would fail.
func Health(sender mailer.Sender, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		configured := sender.Configured()
		status := "ok"
		if !configured {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:           status,
			Uptime:           time.Since(startTime).Round(time.Second).String(),
			Version:          Version,
			MailerConfigured: configured,
		})
	}
}
