// internal/httpapi/middleware.go
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/metrics"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID returns the request id assigned by WithRequestID, or "" outside it.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithRequestID assigns every request a request id, honoring an inbound
// X-Request-ID header, and echoes it on the response.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// WithLogging logs one line per request and records the request metrics.
func WithLogging(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.GatewayRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		metrics.GatewayRequestDuration.WithLabelValues(r.URL.Path).Observe(elapsed.Seconds())

		log.Info("request handled", map[string]interface{}{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    rec.status,
			"duration":  elapsed.String(),
			"requestId": RequestID(r.Context()),
		})
	})
}

// WithRecovery converts panics into the standard 500 envelope.
func WithRecovery(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("handler panicked", map[string]interface{}{
					"path":      r.URL.Path,
					"panic":     fmt.Sprintf("%v", rec),
					"requestId": RequestID(r.Context()),
				})
				gwerrors.WriteError(w, gwerrors.NewInternalError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WithCORS applies the configured allowed origins and answers preflights.
// A "*" entry allows any origin.
func WithCORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// KeyValidator reports whether an API key is valid. Satisfied by auth.Keystore.
type KeyValidator interface {
	Validate(ctx context.Context, key string) (bool, error)
}

// staticValidator accepts exactly one configured key.
type staticValidator struct {
	key string
}

func NewStaticValidator(key string) KeyValidator {
	return &staticValidator{key: key}
}

func (v *staticValidator) Validate(_ context.Context, key string) (bool, error) {
	return key == v.key, nil
}

// WithAPIKeyAuth rejects requests without a valid X-API-Key header. With a nil
// validator authentication is disabled.
func WithAPIKeyAuth(validator KeyValidator, log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if validator == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("X-API-Key")
		if key == "" {
			gwerrors.WriteError(w, gwerrors.NewAuthMissingKeyError())
			return
		}

		ok, err := validator.Validate(r.Context(), key)
		if err != nil {
			log.Error("api key validation failed", map[string]interface{}{
				"error":     err.Error(),
				"requestId": RequestID(r.Context()),
			})
			gwerrors.WriteError(w, gwerrors.NewInternalError(err))
			return
		}
		if !ok {
			gwerrors.WriteError(w, gwerrors.NewAuthInvalidKeyError())
			return
		}

		next.ServeHTTP(w, r)
	})
}
