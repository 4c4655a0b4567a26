package handler

import (
	"io"
	"log/slog"
	"net/http"

	"promptstash/internal/domain/services"
	"promptstash/internal/httputil"
)

// BillingHandler handles checkout and webhook HTTP requests
type BillingHandler struct {
	billingService services.BillingService
	logger         *slog.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService services.BillingService, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// CreateCheckout returns the hosted checkout URL for the Pro plan
// POST /api/billing/checkout
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	url, err := h.billingService.CheckoutLink(userID)
	if err != nil {
		h.logger.Error("checkout link unavailable", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "checkout is not available")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook receives signed billing events from the payment provider.
// POST /api/billing/webhook
// This route is authenticated by the payload signature, not a user token.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	signature := r.Header.Get("Webhook-Signature")

	if err := h.billingService.HandleWebhook(r.Context(), payload, signature); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
