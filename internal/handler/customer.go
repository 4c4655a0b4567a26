package handler

import (
	"log/slog"
	"net/http"

	"promptstash/internal/domain/services"
	"promptstash/internal/httputil"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService services.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService services.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// GetMe retrieves the caller's customer record (free tier if none exists)
// GET /api/customers/me
func (h *CustomerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, customer)
}
