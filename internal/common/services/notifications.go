// internal/common/services/notifications.go
package services

import (
	"bytes"
	"context"
	"time"
)

// NotificationsClient fronts the notification service for proxy passthrough.
type NotificationsClient struct {
	*Client
}

func NewNotificationsClient(baseURL string, timeout time.Duration) *NotificationsClient {
	return &NotificationsClient{Client: NewClient("notifications", baseURL, timeout)}
}

// Send forwards a send request and returns the upstream status and body
// verbatim so the gateway can propagate non-200 responses.
func (c *NotificationsClient) Send(ctx context.Context, body []byte) (int, []byte, error) {
	return c.Forward(ctx, "POST", "/api/v1/notifications/send", bytes.NewReader(body), "application/json")
}
