// Package httpx exposes the order service over HTTP. It maps the two domain
// error kinds and the boolean lifecycle outcomes onto status codes:
// validation errors → 400, business-rule errors → 422, expected negative
// outcomes (stale update, cancel on a terminal state) → 409, unknown id → 404.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/commercekit/order-lifecycle/internal/httpx/middlewares"
	"github.com/commercekit/order-lifecycle/internal/order"
	"github.com/commercekit/order-lifecycle/internal/order/domain"
)

// Handler handles incoming HTTP requests for the order lifecycle.
type Handler struct {
	service *order.Service
}

func NewHandler(service *order.Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder decodes the request and drives the full creation pipeline.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	slog.InfoContext(r.Context(), "creating order",
		"request_id", middlewares.RequestIDFromContext(r.Context()),
		"idempotency_key", middlewares.IdempotencyKeyFromContext(r.Context()),
		"product", req.ProductName,
	)

	o, err := h.service.CreateOrder(r.Context(), order.CreateOrderInput{
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Priority:     req.Priority,
		DiscountCode: req.DiscountCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(o))
}

// GetOrderByID retrieves a single order by its id.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	o, found := h.service.GetOrder(id)
	if !found {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

// UpdateOrder changes the quantity of an existing order.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if _, found := h.service.GetOrder(id); !found {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}

	updated, err := h.service.UpdateOrder(r.Context(), id, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !updated {
		writeError(w, http.StatusConflict, "order_immutable", "order is past its update window")
		return
	}
	writeJSON(w, http.StatusOK, UpdateOrderResponse{Updated: true})
}

// CancelOrder cancels an order unless it is in a terminal state.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	if _, found := h.service.GetOrder(id); !found {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}

	if !h.service.CancelOrder(r.Context(), id) {
		writeError(w, http.StatusConflict, "order_terminal", "order can no longer be cancelled")
		return
	}
	writeJSON(w, http.StatusOK, CancelOrderResponse{Cancelled: true})
}

// GetAuditLog returns the cancelled orders in cancellation order.
func (h *Handler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	cancelled := h.service.AuditLog()
	out := make([]OrderResponse, len(cancelled))
	for i, o := range cancelled {
		out[i] = mapOrderToResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_order_id", raw)
		return 0, false
	}
	return id, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, "invalid_request", vErr.Message)
		return
	}
	var bErr *domain.BusinessError
	if errors.As(err, &bErr) {
		writeError(w, http.StatusUnprocessableEntity, "business_rule", bErr.Reason)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
