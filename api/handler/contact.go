package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/mailer"
	"github.com/startech-innovation/sitekit/models"
)

// User-facing messages. The site's client script shows them verbatim.
const (
	MsgRequiredFields  = "Name, email, and message are required fields"
	MsgInvalidEmail    = "Invalid email address"
	MsgNotConfigured   = "Email service is not configured. Please contact support."
	MsgSendFailed      = "Failed to send email. Please try again later."
	MsgUnexpected      = "An unexpected error occurred. Please try again later."
	MsgThanks          = "Thank you for your message! We will get back to you soon."
	MsgTooManyRequests = "Too many requests. Please try again later."
)

const maxContactBodyBytes = 64 << 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact returns a handler for POST /api/contact.
//
// Flow:
//  1. Decode JSON; malformed bodies are treated as unexpected errors.
//  2. Validate required fields and the email shape (400).
//  3. Fail closed when the sender has no credentials (500).
//  4. Send the notification; provider failures are logged, not exposed (500).
func Contact(sender mailer.Sender, cfg config.ContactConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Parse request ────────────────────────────────────────
		var req models.ContactRequest
		body := http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			slog.Warn("contact: malformed request body", "error", err, "ip", c.ClientIP())
			respond(c, http.StatusInternalServerError, MsgUnexpected)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.Phone = strings.TrimSpace(req.Phone)

		// ── 2. Validate ─────────────────────────────────────────────
		if req.Name == "" || req.Email == "" || strings.TrimSpace(req.Message) == "" {
			respond(c, http.StatusBadRequest, MsgRequiredFields)
			return
		}
		if !emailPattern.MatchString(req.Email) {
			respond(c, http.StatusBadRequest, MsgInvalidEmail)
			return
		}

		// ── 3. Credentials ──────────────────────────────────────────
		if !sender.Configured() {
			slog.Error("contact: RESEND_API_KEY is not configured",
				"code", models.ErrCodeMailerNotConfigured,
			)
			respond(c, http.StatusInternalServerError, MsgNotConfigured)
			return
		}

		// ── 4. Send ─────────────────────────────────────────────────
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.SendTimeout)
		defer cancel()

		id, err := sender.Send(ctx, mailer.ContactEmail(&req, cfg))
		if err != nil {
			slog.Error("contact: send failed",
				"code", models.CodeOf(err),
				"error", err,
			)
			respond(c, http.StatusInternalServerError, MsgSendFailed)
			return
		}

		slog.Info("contact: message sent", "email_id", id)
		c.JSON(http.StatusOK, models.ContactResponse{
			Success: true,
			Message: MsgThanks,
			EmailID: id,
		})
	}
}

// Recovery converts panics into the generic error response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("contact: panic recovered", "panic", recovered)
		respond(c, http.StatusInternalServerError, MsgUnexpected)
	})
}

func respond(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.ContactResponse{
		Success: false,
		Error:   msg,
	})
}
