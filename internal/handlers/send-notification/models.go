// internal/handlers/send-notification/models.go
package sendnotification

// SendRequest is the notification payload accepted by the proxy. It mirrors
// the notification service contract so the passthrough provider can forward
// the raw body unchanged.
type SendRequest struct {
	ToEmail    string `json:"to_email"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	TemplateID string `json:"template_id,omitempty"`
}

// SendResponse is returned when the gateway delivered the notification itself
// instead of forwarding to the notification service.
type SendResponse struct {
	Status    string `json:"status"`
	Provider  string `json:"provider"`
	MessageID string `json:"message_id,omitempty"`
}
