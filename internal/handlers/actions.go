package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marketplace-client/internal/app"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/session"
)

// LoginForm is the body of POST /actions/login
type LoginForm struct {
	Username string `json:"nombreUsuario"`
	Password string `json:"contrasena"`
}

// CartItemForm is the body of POST /actions/cart/items
type CartItemForm struct {
	ProductID uuid.UUID `json:"productoId"`
	Quantity  int       `json:"cantidad"`
}

// DecisionForm is the body of POST /actions/moderation/{id}/{decision}
type DecisionForm struct {
	Comment string `json:"comentario"`
	Reason  string `json:"motivo"`
}

// ActionResult reports the outcome of an action and the notices it raised
type ActionResult struct {
	OK       bool             `json:"ok"`
	Location string           `json:"location"`
	Data     any              `json:"data,omitempty"`
	Notices  []notify.Message `json:"notices,omitempty"`
}

// ActionHandler runs user actions against the stores
type ActionHandler struct {
	app *app.App
}

func NewActionHandler(a *app.App) *ActionHandler {
	return &ActionHandler{app: a}
}

// Login handles POST /actions/login
func (h *ActionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	sess, err := h.app.Login(r.Context(), session.Credentials{Username: form.Username, Password: form.Password})
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	if _, err := h.app.Navigator.Navigate("/"); err != nil {
		slog.Warn("Failed to navigate home after login", "error", err)
	}
	h.respond(w, true, sess)
}

// Logout handles POST /actions/logout
func (h *ActionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.app.Logout()
	h.respond(w, true, nil)
}

// AddToCart handles POST /actions/cart/items. The product is loaded first so
// stock is checked locally before the cart call.
func (h *ActionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var form CartItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if form.ProductID == uuid.Nil {
		writeErrorResponse(w, r, http.StatusBadRequest, "productoId is required")
		return
	}
	if form.Quantity == 0 {
		form.Quantity = 1
	}

	product, err := h.app.Services.Products.Get(r.Context(), form.ProductID)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	if err := h.app.Stores.Cart.AddItem(r.Context(), &product, form.Quantity); err != nil {
		writeActionError(w, r, err)
		return
	}
	h.respond(w, true, h.app.Stores.Cart.Cart())
}

// ClearCart handles DELETE /actions/cart
func (h *ActionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Stores.Cart.Clear(r.Context()); err != nil {
		writeActionError(w, r, err)
		return
	}
	h.respond(w, true, h.app.Stores.Cart.Cart())
}

// Decide handles POST /actions/moderation/{id}/{decision} where decision is
// aprobar, rechazar or solicitar-cambios.
func (h *ActionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, "invalid request id")
		return
	}
	var form DecisionForm
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	s := h.app.Stores.Moderation
	var ok bool
	switch chi.URLParam(r, "decision") {
	case "aprobar":
		ok = s.Approve(r.Context(), id, form.Comment)
	case "rechazar":
		ok = s.Reject(r.Context(), id, form.Reason)
	case "solicitar-cambios":
		ok = s.RequestChanges(r.Context(), id, form.Comment)
	default:
		writeErrorResponse(w, r, http.StatusNotFound, "unknown decision")
		return
	}
	if !ok {
		h.respondStatus(w, http.StatusUnprocessableEntity, false, nil)
		return
	}
	h.respond(w, true, s.State())
}

func (h *ActionHandler) respond(w http.ResponseWriter, ok bool, data any) {
	h.respondStatus(w, http.StatusOK, ok, data)
}

func (h *ActionHandler) respondStatus(w http.ResponseWriter, status int, ok bool, data any) {
	res := ActionResult{OK: ok, Location: h.app.Navigator.Location().Path, Data: data}
	res.Notices = h.app.Notices.Drain()
	writeJSONResponse(w, status, res)
}
