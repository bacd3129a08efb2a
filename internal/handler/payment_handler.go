// internal/handler/payment_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"billing-service/internal/domain"
	"billing-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	subscriptionUC *usecase.SubscriptionUsecase
	topupUC        *usecase.TopUpUsecase
	ledger         domain.Ledger
	logger         *zap.Logger
}

func NewPaymentHandler(
	subscriptionUC *usecase.SubscriptionUsecase,
	topupUC *usecase.TopUpUsecase,
	ledger domain.Ledger,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		subscriptionUC: subscriptionUC,
		topupUC:        topupUC,
		ledger:         ledger,
		logger:         logger,
	}
}

// HandleCreateSubscription handles POST /create-subscription.
func (h *PaymentHandler) HandleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.WrapError(domain.KindValidation, "invalid request body", err))
		return
	}

	result, err := h.subscriptionUC.CreateSubscription(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleWalletTopUp handles POST /wallet-topup.
func (h *PaymentHandler) HandleWalletTopUp(w http.ResponseWriter, r *http.Request) {
	var req domain.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.WrapError(domain.KindValidation, "invalid request body", err))
		return
	}

	ack, err := h.topupUC.InitiateTopUp(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "STK push sent",
		"data":    ack,
	})
}

// HandleWalletBalance handles GET /wallet/{phone}.
func (h *PaymentHandler) HandleWalletBalance(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	balance, err := h.ledger.Balance(r.Context(), phone)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"accountId": phone,
		"balance":   balance,
	})
}

func (h *PaymentHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps error kinds to HTTP statuses; provider messages pass
// through verbatim, which is what the caller needs to fix their request.
func (h *PaymentHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindProvider:
		status = http.StatusBadRequest
	case domain.KindAuth:
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}

	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
