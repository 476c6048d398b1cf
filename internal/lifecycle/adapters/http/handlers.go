package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dvukovic/shopcore/internal/lifecycle/app"
	"github.com/dvukovic/shopcore/internal/lifecycle/app/commands"
	"github.com/dvukovic/shopcore/internal/lifecycle/domain"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
)

// Handler exposes HTTP endpoints for the order lifecycle.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the lifecycle handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/orders", h.placeOrder)
	mux.HandleFunc("GET /v1/orders", h.listOrders)
	mux.HandleFunc("GET /v1/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /v1/orders/{id}/items/{itemID}/cancel", h.cancelItem)
	mux.HandleFunc("POST /v1/orders/{id}/items/{itemID}/return", h.returnItem)
	mux.HandleFunc("GET /v1/returns", h.listReturns)
	mux.HandleFunc("DELETE /v1/returns/{orderID}/{itemID}", h.deleteReturnedItem)
	mux.HandleFunc("GET /v1/payments", h.listPayments)
}

// placeOrderRequest is the POST /v1/orders payload.
type placeOrderRequest struct {
	Items         []commands.ItemInput `json:"items"`
	Customer      domain.Customer      `json:"customer"`
	PaymentMethod string               `json:"payment_method"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey == "" {
		writeError(w, http.StatusBadRequest, "Idempotency-Key header required")
		return
	}

	if stored, err := h.service.GetIdempotentResponse(ctx, idemKey); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	} else if stored != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stored.StatusCode)
		_, _ = w.Write(stored.Body)
		return
	}

	var payload placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.PlaceOrder(ctx, commands.PlaceOrderCommand{
		Items:         payload.Items,
		Customer:      payload.Customer,
		PaymentMethod: payload.PaymentMethod,
	})
	if err != nil {
		if order != nil {
			// Saved but the event publish failed; the order exists, so the
			// client still gets it.
			h.respondPlaced(ctx, w, idemKey, order)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondPlaced(ctx, w, idemKey, order)
}

func (h *Handler) respondPlaced(ctx context.Context, w http.ResponseWriter, idemKey string, order *domain.Order) {
	body, err := json.Marshal(map[string]any{"order": order})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stored := ports.StoredResponse{
		StatusCode: http.StatusCreated,
		Body:       body,
		OrderID:    order.ID,
	}
	if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.service.ListOrders(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) cancelItem(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CancelItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		writeItemMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) returnItem(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.ReturnItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		writeItemMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) listReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.service.ListReturns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"returned_items": returns})
}

func (h *Handler) deleteReturnedItem(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteReturnedItem(r.Context(), r.PathValue("orderID"), r.PathValue("itemID"))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "returned item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func writeItemMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrItemNotEligible):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
