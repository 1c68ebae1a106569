// internal/handlers/send-notification/service.go
package sendnotification

import (
	"context"
	"fmt"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// TopicPublisher is satisfied by aws.SNSClient.
type TopicPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// DirectSender delivers a notification without going through the notification
// service. Used when the provider is ses or sns.
type DirectSender struct {
	config *Config
	ses    EmailSender
	sns    TopicPublisher
	logger logger.Logger
}

func NewDirectSender(config *Config, sesClient EmailSender, snsClient TopicPublisher, log logger.Logger) *DirectSender {
	return &DirectSender{
		config: config,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notification-sender"}),
	}
}

func (s *DirectSender) Send(ctx context.Context, req *SendRequest) (*SendResponse, *gwerrors.StandardError) {
	switch s.config.Provider {
	case ProviderSES:
		return s.sendEmail(ctx, req)
	case ProviderSNS:
		return s.publish(ctx, req)
	default:
		return nil, gwerrors.NewInternalError(fmt.Errorf("unknown notification provider %q", s.config.Provider))
	}
}

func (s *DirectSender) sendEmail(ctx context.Context, req *SendRequest) (*SendResponse, *gwerrors.StandardError) {
	out, err := s.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(s.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{req.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(req.Subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(req.Body)},
			},
		},
	})
	if err != nil {
		s.logger.Error("SES delivery failed", map[string]interface{}{
			"toEmail": req.ToEmail,
			"error":   err.Error(),
		})
		return nil, gwerrors.NewNotificationSendFailedError(ProviderSES, err)
	}

	return &SendResponse{
		Status:    "sent",
		Provider:  ProviderSES,
		MessageID: awssdk.ToString(out.MessageId),
	}, nil
}

func (s *DirectSender) publish(ctx context.Context, req *SendRequest) (*SendResponse, *gwerrors.StandardError) {
	out, err := s.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(s.config.TopicARN),
		Subject:  awssdk.String(req.Subject),
		Message:  awssdk.String(req.Body),
	})
	if err != nil {
		s.logger.Error("SNS publish failed", map[string]interface{}{
			"topicArn": s.config.TopicARN,
			"error":    err.Error(),
		})
		return nil, gwerrors.NewNotificationSendFailedError(ProviderSNS, err)
	}

	return &SendResponse{
		Status:    "sent",
		Provider:  ProviderSNS,
		MessageID: awssdk.ToString(out.MessageId),
	}, nil
}
