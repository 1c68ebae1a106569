// internal/handlers/send-notification/config.go
package sendnotification

// Provider selects how notifications leave the gateway.
const (
	ProviderService = "service"
	ProviderSES     = "ses"
	ProviderSNS     = "sns"
)

// Config holds the notification proxy settings.
type Config struct {
	// Provider is one of service, ses or sns. The service provider forwards to
	// the notification service verbatim; ses and sns deliver directly.
	Provider string

	FromEmail string
	TopicARN  string
}
