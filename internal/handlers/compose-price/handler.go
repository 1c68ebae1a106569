// internal/handlers/compose-price/handler.go
package composeprice

import (
	"encoding/json"
	"io"
	"net/http"

	gwerrors "ecommerce-gateway/internal/common/errors"
	"ecommerce-gateway/internal/common/logger"
)

const maxRequestBody = 64 * 1024

// Handler serves POST /compose/product-price.
type Handler struct {
	coordinator  *Coordinator
	errorHandler *gwerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(coordinator *Coordinator, log logger.Logger) *Handler {
	return &Handler{
		coordinator:  coordinator,
		errorHandler: gwerrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"handler": "compose-price"}),
	}
}

func (h *Handler) HandleCompose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		gwerrors.WriteErrorStatus(w, http.StatusMethodNotAllowed,
			gwerrors.NewInvalidRequestError("method not allowed"))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, gwerrors.NewInvalidRequestError("failed to read request body"))
		return
	}

	if stdErr := ValidateRequestBody(raw); stdErr != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, stdErr)
		return
	}

	var req CompositionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, gwerrors.NewInvalidRequestError(err.Error()))
		return
	}

	resp, stdErr := h.coordinator.Compose(r.Context(), &req)
	if stdErr != nil {
		h.errorHandler.HandleHTTPError(w, r.URL.Path, stdErr)
		return
	}

	gwerrors.WriteJSON(w, http.StatusOK, resp)
}
