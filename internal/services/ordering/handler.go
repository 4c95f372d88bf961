package ordering

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"golden-palette/internal/logger"
	"golden-palette/internal/models"
	"golden-palette/internal/server"
	"golden-palette/internal/services/checkout"
	"golden-palette/internal/services/menu"
)

// MaxQuantityPerAdd is the largest quantity a single add-to-cart may carry
const MaxQuantityPerAdd = 10

// Handler serves the customer-facing ordering API
type Handler struct {
	catalog  *menu.Catalog
	sessions *SessionRegistry
	checkout *checkout.Service
	health   func(ctx context.Context) error
	logger   *logger.Logger
}

// NewHandler creates the ordering handler; health may be nil
func NewHandler(catalog *menu.Catalog, sessions *SessionRegistry, checkoutService *checkout.Service, health func(ctx context.Context) error, log *logger.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		checkout: checkoutService,
		health:   health,
		logger:   log,
	}
}

func (h *Handler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(server.WithLogging(h.logger))

	r.HandleFunc("/health", server.HealthHandler("ordering-service", h.health)).Methods(http.MethodGet)
	r.HandleFunc("/menu", h.GetMenu).Methods(http.MethodGet)
	r.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/checkout", h.Checkout).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", server.RequestID(r.Context()))
	})
	return r
}

// GetMenu handles GET /menu
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.catalog.Sections())
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	h.logger.Debug("session_created", "Ordering session opened", server.RequestID(r.Context()), map[string]interface{}{
		"session_id": s.ID,
	})
	h.respond(w, r, http.StatusCreated, map[string]string{"session_id": s.ID})
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())
	id := mux.Vars(r)["id"]
	if err := h.sessions.Delete(id); err != nil {
		server.WriteError(w, http.StatusNotFound, "Session not found", requestID)
		return
	}
	h.logger.Debug("session_closed", "Ordering session closed", requestID, map[string]interface{}{
		"session_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /sessions/{id}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if req.Quantity < 1 || req.Quantity > MaxQuantityPerAdd {
		server.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("quantity must be between 1 and %d", MaxQuantityPerAdd), requestID)
		return
	}

	item, found := h.catalog.Find(req.Name)
	if !found {
		server.WriteError(w, http.StatusNotFound, "Menu item not found", requestID)
		return
	}

	summary, err := session.AddItem(item, req.Quantity)
	if err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.logger.Debug("item_added", "Item added to cart", requestID, map[string]interface{}{
		"session_id": session.ID,
		"item":       item.Name,
		"quantity":   req.Quantity,
		"item_count": summary.ItemCount,
	})
	h.respond(w, r, http.StatusOK, summary)
}

// GetCart handles GET /sessions/{id}/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK, session.Cart())
}

// Checkout handles POST /sessions/{id}/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ConfirmOrderRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	order, err := session.Checkout(func(lines []models.CartLine) (*models.Order, error) {
		return h.checkout.ConfirmOrder(lines, &req, requestID)
	})
	if err != nil {
		var verr checkout.ValidationError
		if errors.As(err, &verr) {
			server.WriteError(w, http.StatusBadRequest, verr.Error(), requestID)
			return
		}
		h.logger.Error("checkout_failed", "Failed to confirm order", requestID, err, nil)
		server.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.respond(w, r, http.StatusOK, checkout.NewConfirmOrderResponse(order))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		server.WriteError(w, http.StatusNotFound, "Session not found", server.RequestID(r.Context()))
		return nil, false
	}
	return s, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if err := server.WriteJSON(w, status, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", server.RequestID(r.Context()), err, nil)
	}
}
