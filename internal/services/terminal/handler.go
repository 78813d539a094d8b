package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant-pos/internal/cart"
	"restaurant-pos/internal/lifecycle"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/session"
)

// Handler handles HTTP requests for the terminal service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new terminal handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// SetupRoutes registers all terminal routes
func (h *Handler) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /catalog/categories", h.GetCategories)
	mux.HandleFunc("GET /catalog/menu-items", h.GetMenuItems)
	mux.HandleFunc("GET /catalog/addons", h.GetAddons)
	mux.HandleFunc("GET /catalog/tables", h.GetTables)

	mux.HandleFunc("POST /sessions", h.CreateSession)
	mux.HandleFunc("GET /sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.CloseSession)

	mux.HandleFunc("POST /sessions/{id}/lines", h.AddLine)
	mux.HandleFunc("PATCH /sessions/{id}/lines/{lineID}", h.UpdateLine)
	mux.HandleFunc("DELETE /sessions/{id}/lines/{lineID}", h.RemoveLine)
	mux.HandleFunc("DELETE /sessions/{id}/lines/{lineID}/addons/{addonID}", h.RemoveAddon)

	mux.HandleFunc("POST /sessions/{id}/order-type", h.SetOrderType)
	mux.HandleFunc("POST /sessions/{id}/table", h.SetTable)
	mux.HandleFunc("DELETE /sessions/{id}/table", h.ClearTable)
	mux.HandleFunc("POST /sessions/{id}/clear", h.ClearCart)

	mux.HandleFunc("POST /sessions/{id}/ticket", h.lifecycleAction(lifecycle.ActionCreateTicket))
	mux.HandleFunc("POST /sessions/{id}/hold", h.lifecycleAction(lifecycle.ActionHoldOrder))
	mux.HandleFunc("POST /sessions/{id}/save", h.lifecycleAction(lifecycle.ActionSaveOrder))
	mux.HandleFunc("POST /sessions/{id}/print", h.lifecycleAction(lifecycle.ActionPrintOrder))
	mux.HandleFunc("POST /sessions/{id}/payment", h.ProcessPayment)

	return mux
}

type createSessionRequest struct {
	OrderType string `json:"order_type"`
}

type addLineRequest struct {
	MenuItemID string   `json:"menu_item_id"`
	Quantity   int      `json:"quantity"`
	Size       string   `json:"size,omitempty"`
	AddonIDs   []string `json:"addon_ids,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

type updateLineRequest struct {
	Quantity *int      `json:"quantity,omitempty"`
	Size     *string   `json:"size,omitempty"`
	AddonIDs *[]string `json:"addon_ids,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

type orderTypeRequest struct {
	OrderType string `json:"order_type"`
}

type tableRequest struct {
	TableID string `json:"table_id"`
}

type paymentRequest struct {
	Method string `json:"method"`
}

type sessionResponse struct {
	SessionID string              `json:"session_id"`
	CreatedAt time.Time           `json:"created_at"`
	Status    lifecycle.Status    `json:"status"`
	Flags     lifecycle.Flags     `json:"flags"`
	InFlight  map[string]int      `json:"in_flight"`
	Cart      models.CartSnapshot `json:"cart"`
}

type actionResponse struct {
	Action    lifecycle.Action `json:"action"`
	Reference string           `json:"reference"`
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pos-terminal",
	})
}

// GetCategories handles GET /catalog/categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	categories, err := h.service.catalog.Categories(r.Context())
	if err != nil {
		h.logger.Error("catalog_fetch_failed", "Failed to load categories", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadGateway, "Failed to load categories", requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

// GetMenuItems handles GET /catalog/menu-items?category=&q=
func (h *Handler) GetMenuItems(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	items, err := h.service.catalog.MenuItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("catalog_fetch_failed", "Failed to load menu items", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadGateway, "Failed to load menu items", requestID)
		return
	}

	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		filtered := items[:0:0]
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	h.writeJSON(w, http.StatusOK, items)
}

// GetAddons handles GET /catalog/addons
func (h *Handler) GetAddons(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	addons, err := h.service.catalog.Addons(r.Context())
	if err != nil {
		h.logger.Error("catalog_fetch_failed", "Failed to load addons", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadGateway, "Failed to load addons", requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, addons)
}

// GetTables handles GET /catalog/tables
func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	tables, err := h.service.catalog.Tables(r.Context())
	if err != nil {
		h.logger.Error("catalog_fetch_failed", "Failed to load tables", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadGateway, "Failed to load tables", requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, tables)
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req createSessionRequest
	if err := h.decode(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	orderType := models.DineIn
	if req.OrderType != "" {
		parsed, err := models.ParseOrderType(req.OrderType)
		if err != nil {
			h.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error(), requestID)
			return
		}
		orderType = parsed
	}

	sess := h.service.CreateSession(orderType)
	h.logger.Info("session_created", "Terminal session created", requestID, map[string]interface{}{
		"session_id": sess.ID,
		"order_type": string(orderType),
	})
	h.writeJSON(w, http.StatusCreated, h.sessionView(sess))
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	sess, err := h.service.Session(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.sessionView(sess))
}

// CloseSession handles DELETE /sessions/{id}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.CloseSession(r.PathValue("id")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLine handles POST /sessions/{id}/lines
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req addLineRequest
	if err := h.decode(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if req.MenuItemID == "" {
		h.writeErrorResponse(w, http.StatusUnprocessableEntity, "menu_item_id is required", requestID)
		return
	}

	line, err := h.service.AddLine(r.Context(), r.PathValue("id"), AddLineInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Size:       req.Size,
		AddonIDs:   req.AddonIDs,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.logger.Debug("line_added", "Line item added to cart", requestID, map[string]interface{}{
		"session_id":   r.PathValue("id"),
		"line_id":      line.ID,
		"menu_item_id": line.MenuItem.ID,
		"line_total":   line.LineTotal(),
	})
	h.writeJSON(w, http.StatusCreated, line)
}

// UpdateLine handles PATCH /sessions/{id}/lines/{lineID}
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req updateLineRequest
	if err := h.decode(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	err := h.service.UpdateLine(r.Context(), r.PathValue("id"), r.PathValue("lineID"), UpdateLineInput{
		Quantity: req.Quantity,
		Size:     req.Size,
		AddonIDs: req.AddonIDs,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveLine handles DELETE /sessions/{id}/lines/{lineID}
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.RemoveLine(r.PathValue("id"), r.PathValue("lineID")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveAddon handles DELETE /sessions/{id}/lines/{lineID}/addons/{addonID}
func (h *Handler) RemoveAddon(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.RemoveAddon(r.PathValue("id"), r.PathValue("lineID"), r.PathValue("addonID")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOrderType handles POST /sessions/{id}/order-type
func (h *Handler) SetOrderType(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req orderTypeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	orderType, err := models.ParseOrderType(req.OrderType)
	if err != nil {
		h.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error(), requestID)
		return
	}
	if err := h.service.SetOrderType(r.PathValue("id"), orderType); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTable handles POST /sessions/{id}/table
func (h *Handler) SetTable(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req tableRequest
	if err := h.decode(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if err := h.service.SetTable(r.Context(), r.PathValue("id"), req.TableID); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearTable handles DELETE /sessions/{id}/table
func (h *Handler) ClearTable(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.ClearTable(r.PathValue("id")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart handles POST /sessions/{id}/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.ClearCart(r.PathValue("id")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lifecycleAction builds a handler for ticket/hold/save/print
func (h *Handler) lifecycleAction(action lifecycle.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.dispatch(w, r, action, "")
	}
}

// ProcessPayment handles POST /sessions/{id}/payment
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req paymentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		h.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error(), requestID)
		return
	}
	h.dispatch(w, r, lifecycle.ActionProcessPayment, method)
}

// dispatch runs a lifecycle action and waits for its result
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, action lifecycle.Action, method models.PaymentMethod) {
	requestID := logger.GenerateRequestID()
	sessionID := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	pending, err := h.service.Dispatch(ctx, sessionID, action, method)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	select {
	case result := <-pending.Done():
		if result.Err != nil {
			h.logger.Error("lifecycle_action_failed", fmt.Sprintf("%s failed", action), requestID, result.Err, map[string]interface{}{
				"session_id":  sessionID,
				"sink_action": string(action),
			})
			h.writeError(w, result.Err, requestID)
			return
		}
		h.logger.Info("lifecycle_action_completed", fmt.Sprintf("%s completed", action), requestID, map[string]interface{}{
			"session_id":  sessionID,
			"sink_action": string(action),
			"reference":   result.Reference,
		})
		h.writeJSON(w, http.StatusOK, actionResponse{Action: action, Reference: result.Reference})
	case <-ctx.Done():
		h.writeErrorResponse(w, http.StatusGatewayTimeout, "Timed out waiting for the order sink", requestID)
	}
}

func (h *Handler) sessionView(sess *session.Session) sessionResponse {
	controller := sess.Controller()
	counts := controller.InFlightCounts()
	inFlight := make(map[string]int, len(counts))
	for action, n := range counts {
		inFlight[string(action)] = n
	}
	return sessionResponse{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
		Status:    controller.Status(),
		Flags:     controller.Flags(),
		InFlight:  inFlight,
		Cart:      sess.Cart().Snapshot(),
	}
}

func (h *Handler) decode(r *http.Request, v interface{}) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("Content-Type must be application/json")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON format")
	}
	return nil
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	var validation lifecycle.ValidationError
	var sinkFailure *lifecycle.SinkFailure

	switch {
	case errors.As(err, &validation):
		h.writeErrorResponse(w, http.StatusUnprocessableEntity, validation.Error(), requestID)
	case errors.Is(err, lifecycle.ErrActionInFlight), errors.Is(err, lifecycle.ErrStaleSnapshot):
		h.writeErrorResponse(w, http.StatusConflict, err.Error(), requestID)
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrMenuItemNotFound),
		errors.Is(err, ErrAddonNotFound), errors.Is(err, ErrTableNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, err.Error(), requestID)
	case errors.As(err, &sinkFailure):
		h.writeErrorResponse(w, http.StatusBadGateway, sinkFailure.Error(), requestID)
	default:
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error(), requestID)
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, status int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":      message,
		"request_id": requestID,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}
