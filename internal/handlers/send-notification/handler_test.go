// internal/handlers/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/services"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("msg-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("msg-2")}, nil
}

func postSend(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/proxy/notifications/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSend(rec, req)
	return rec
}

const validBody = `{"to_email": "user@example.com", "subject": "Order shipped", "body": "On its way"}`

func TestHandleSendForwardsToService(t *testing.T) {
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status": "queued"}`))
	}))
	defer upstream.Close()

	cfg := &Config{Provider: ProviderService}
	client := services.NewNotificationsClient(upstream.URL, time.Second)
	h := NewHandler(cfg, client, nil, logger.NewTestLogger(t))

	rec := postSend(t, h, validBody)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status": "queued"}`, rec.Body.String())
	assert.JSONEq(t, validBody, gotBody)
}

func TestHandleSendPropagatesUpstreamFailureStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "unknown template"}`))
	}))
	defer upstream.Close()

	cfg := &Config{Provider: ProviderService}
	client := services.NewNotificationsClient(upstream.URL, time.Second)
	h := NewHandler(cfg, client, nil, logger.NewTestLogger(t))

	rec := postSend(t, h, validBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown template")
}

func TestHandleSendUnreachableServiceIs502(t *testing.T) {
	cfg := &Config{Provider: ProviderService}
	client := services.NewNotificationsClient("http://127.0.0.1:1", time.Second)
	h := NewHandler(cfg, client, nil, logger.NewTestLogger(t))

	rec := postSend(t, h, validBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_UNREACHABLE")
}

func TestHandleSendViaSES(t *testing.T) {
	sesClient := &fakeSES{}
	cfg := &Config{Provider: ProviderSES, FromEmail: "noreply@example.com"}
	direct := NewDirectSender(cfg, sesClient, nil, logger.NewTestLogger(t))
	h := NewHandler(cfg, nil, direct, logger.NewTestLogger(t))

	rec := postSend(t, h, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"ses"`)
	assert.Contains(t, rec.Body.String(), "msg-1")

	require.NotNil(t, sesClient.input)
	assert.Equal(t, "noreply@example.com", awssdk.ToString(sesClient.input.Source))
	assert.Equal(t, []string{"user@example.com"}, sesClient.input.Destination.ToAddresses)
	assert.Equal(t, "Order shipped", awssdk.ToString(sesClient.input.Message.Subject.Data))
}

func TestHandleSendViaSESFailure(t *testing.T) {
	sesClient := &fakeSES{err: errors.New("throttled")}
	cfg := &Config{Provider: ProviderSES, FromEmail: "noreply@example.com"}
	direct := NewDirectSender(cfg, sesClient, nil, logger.NewTestLogger(t))
	h := NewHandler(cfg, nil, direct, logger.NewTestLogger(t))

	rec := postSend(t, h, validBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOTIFICATION_SEND_FAILED")
}

func TestHandleSendViaSNS(t *testing.T) {
	snsClient := &fakeSNS{}
	cfg := &Config{Provider: ProviderSNS, TopicARN: "arn:aws:sns:us-east-1:1:orders"}
	direct := NewDirectSender(cfg, nil, snsClient, logger.NewTestLogger(t))
	h := NewHandler(cfg, nil, direct, logger.NewTestLogger(t))

	rec := postSend(t, h, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"sns"`)

	require.NotNil(t, snsClient.input)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:orders", awssdk.ToString(snsClient.input.TopicArn))
	assert.Equal(t, "On its way", awssdk.ToString(snsClient.input.Message))
}

func TestHandleSendValidation(t *testing.T) {
	cfg := &Config{Provider: ProviderService}
	h := NewHandler(cfg, nil, nil, logger.NewTestLogger(t))

	cases := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing to_email", `{"subject": "s", "body": "b"}`},
		{"missing subject", `{"to_email": "user@example.com", "body": "b"}`},
		{"missing body and template", `{"to_email": "user@example.com", "subject": "s"}`},
		{"bad address", `{"to_email": "nope", "subject": "s", "body": "b"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postSend(t, h, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
		})
	}
}

func TestHandleSendTemplateOnlyBodyIsAccepted(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "sent"}`))
	}))
	defer upstream.Close()

	cfg := &Config{Provider: ProviderService}
	client := services.NewNotificationsClient(upstream.URL, time.Second)
	h := NewHandler(cfg, client, nil, logger.NewTestLogger(t))

	rec := postSend(t, h, `{"to_email": "user@example.com", "subject": "s", "template_id": "welcome"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
