// internal/handlers/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
)

// Probe checks one optional dependency. Probes never gate the overall status;
// the gateway reports healthy as long as the process is serving.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type Response struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type Handler struct {
	service string
	version string
	probes  []Probe
	logger  logger.Logger
}

func NewHandler(service, version string, probes []Probe, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		version: version,
		probes:  probes,
		logger:  log.WithFields(map[string]interface{}{"handler": "health"}),
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:  "healthy",
		Service: h.service,
		Version: h.version,
	}

	if len(h.probes) > 0 {
		resp.Dependencies = make(map[string]string, len(h.probes))
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, p := range h.probes {
			if err := p.Check(ctx); err != nil {
				resp.Dependencies[p.Name] = "down"
				h.logger.Warn("dependency probe failed", map[string]interface{}{
					"dependency": p.Name,
					"error":      err.Error(),
				})
				continue
			}
			resp.Dependencies[p.Name] = "up"
		}
	}

	gwerrors.WriteJSON(w, http.StatusOK, resp)
}
