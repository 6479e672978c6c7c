package models

// ContactRequest is the payload for POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// ContactResponse is the response for POST /api/contact. The field names
// match what the site's client script reads.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	EmailID string `json:"emailId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	Version          string `json:"version"`
	MailerConfigured bool   `json:"mailer_configured"`
}
