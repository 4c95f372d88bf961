package chef

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"golden-palette/internal/logger"
	"golden-palette/internal/models"
	"golden-palette/internal/server"
	"golden-palette/internal/services/menu"
)

// SubmitMealRequest is the chef form. Price arrives as text, as typed.
type SubmitMealRequest struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// Handler serves the chef-side menu editor
type Handler struct {
	editor *menu.Editor
	health func(ctx context.Context) error
	logger *logger.Logger
}

func NewHandler(editor *menu.Editor, health func(ctx context.Context) error, log *logger.Logger) *Handler {
	return &Handler{
		editor: editor,
		health: health,
		logger: log,
	}
}

func (h *Handler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(server.WithLogging(h.logger))

	r.HandleFunc("/health", server.HealthHandler("chef-service", h.health)).Methods(http.MethodGet)
	r.HandleFunc("/meals", h.SubmitMeal).Methods(http.MethodPost)
	r.HandleFunc("/meals", h.ListMeals).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", server.RequestID(r.Context()))
	})
	return r
}

// SubmitMeal handles POST /meals
func (h *Handler) SubmitMeal(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req SubmitMealRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	details, err := models.NewMealDetails(req.Category, req.Name, req.Description, req.Price, req.Image)
	if err != nil {
		h.logger.Warn("validation_failed", "Meal submission rejected", requestID, map[string]interface{}{
			"category": req.Category,
			"reason":   err.Error(),
		})
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	item, err := h.editor.SubmitMeal(ctx, details, requestID)
	if err != nil {
		h.logger.Error("meal_submit_failed", "Failed to submit meal", requestID, err, nil)
		server.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.respond(w, r, http.StatusCreated, item)
}

// ListMeals handles GET /meals
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	overview, err := h.editor.Overview(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list menu items", requestID, err, nil)
		server.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond(w, r, http.StatusOK, overview)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if err := server.WriteJSON(w, status, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", server.RequestID(r.Context()), err, nil)
	}
}
