package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adiwidodo/gerai/internal/domain"
	"github.com/adiwidodo/gerai/internal/repository"
	"github.com/adiwidodo/gerai/internal/service"
	"github.com/google/uuid"
)

// identityHeader carries the authenticated user id; session handling
// itself lives in front of this service.
const identityHeader = "X-User-ID"

// Handler handles HTTP requests for the storefront API.
type Handler struct {
	checkoutSvc *service.CheckoutService
	cartSvc     *service.CartService
	orderSvc    *service.OrderService
}

func NewHandler(checkoutSvc *service.CheckoutService, cartSvc *service.CartService, orderSvc *service.OrderService) *Handler {
	return &Handler{
		checkoutSvc: checkoutSvc,
		cartSvc:     cartSvc,
		orderSvc:    orderSvc,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/checkout", h.handleCheckout)
	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart", h.handleAddToCart)
	mux.HandleFunc("PUT /api/cart/{variantID}", h.handleUpdateQuantity)
	mux.HandleFunc("DELETE /api/cart/{variantID}", h.handleRemoveFromCart)
	mux.HandleFunc("GET /api/orders", h.handleListOrders)
	mux.HandleFunc("GET /api/orders/{orderID}", h.handleGetOrder)
	mux.HandleFunc("POST /api/orders/{orderID}/delivered", h.handleConfirmDelivered)
}

type checkoutItemRequest struct {
	VariantID uuid.UUID `json:"variantId"`
	Quantity  int32     `json:"quantity"`
	// Price is accepted for wire compatibility but ignored; lines are
	// priced from the catalog.
	Price int64 `json:"price,omitempty"`
}

type checkoutRequest struct {
	AddressID     uuid.UUID             `json:"addressId"`
	PaymentMethod string                `json:"paymentMethod"`
	Items         []checkoutItemRequest `json:"items"`
	TotalAmount   int64                 `json:"totalAmount,omitempty"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)
	if ownerID == "" {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := make([]domain.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.CheckoutItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.checkoutSvc.Checkout(r.Context(), ownerID, domain.CheckoutRequest{
		AddressID:     req.AddressID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Items:         items,
	})
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId": result.OrderID,
		"total":   result.Total.Amount,
		"status":  string(domain.OrderStatusPaid),
	})
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	cart, err := h.cartSvc.GetCart(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

type cartLineRequest struct {
	VariantID uuid.UUID `json:"variantId"`
	Quantity  int32     `json:"quantity"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.cartSvc.AddToCart(r.Context(), ownerID, req.VariantID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	variantID, err := uuid.Parse(r.PathValue("variantID"))
	if err != nil {
		http.Error(w, "invalid variant id", http.StatusBadRequest)
		return
	}

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.cartSvc.UpdateQuantity(r.Context(), ownerID, variantID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	variantID, err := uuid.Parse(r.PathValue("variantID"))
	if err != nil {
		http.Error(w, "invalid variant id", http.StatusBadRequest)
		return
	}

	if err := h.cartSvc.RemoveFromCart(r.Context(), ownerID, variantID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	orders, err := h.orderSvc.ListOrders(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	orderID, err := uuid.Parse(r.PathValue("orderID"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.orderSvc.GetOrder(r.Context(), ownerID, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) handleConfirmDelivered(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(identityHeader)

	orderID, err := uuid.Parse(r.PathValue("orderID"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.orderSvc.ConfirmDelivered(r.Context(), ownerID, orderID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	var stockErr domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": stockErr.Error()})
		return
	}
	writeError(w, err)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrVariantNotFound),
		errors.Is(err, repository.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAddressForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrEmptyCheckout),
		errors.Is(err, domain.ErrQuantityInvalid),
		errors.Is(err, domain.ErrStatusTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "err", err)
		http.Error(w, "could not process request", http.StatusInternalServerError)
	}
}
