// internal/handler/callback_handler.go
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"billing-service/internal/usecase"

	"go.uber.org/zap"
)

type CallbackHandler struct {
	callbackUC *usecase.CallbackUsecase
	logger     *zap.Logger
}

func NewCallbackHandler(callbackUC *usecase.CallbackUsecase, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{callbackUC: callbackUC, logger: logger}
}

// HandleMpesaCallback handles POST /mpesa/callback. The provider retries
// delivery on any non-200 response, so processing failures are logged and
// the callback is acknowledged anyway; redelivery is the retry mechanism
// for transient ledger errors.
func (h *CallbackHandler) HandleMpesaCallback(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read callback payload",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		h.acknowledge(w)
		return
	}

	if err := h.callbackUC.ProcessSTKCallback(r.Context(), payload); err != nil {
		h.logger.Error("callback processing failed, acknowledging anyway",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
	}

	h.acknowledge(w)
}

func (h *CallbackHandler) acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("failed to encode callback acknowledgment", zap.Error(err))
	}
}
