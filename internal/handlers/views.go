package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace-client/internal/app"
	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/router"
	"marketplace-client/internal/session"
)

// ViewPrefix is where the shell mounts client locations
const ViewPrefix = "/view"

const dashboardLimit = 10

// View is the JSON rendering of an allowed location
type View struct {
	Route   string            `json:"route"`
	Params  map[string]string `json:"params,omitempty"`
	Session session.Session   `json:"session"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Notices []notify.Message  `json:"notices,omitempty"`
}

type loader func(ctx context.Context, m router.Match, r *http.Request) (any, error)

// ViewHandler navigates the client to a location and renders it
type ViewHandler struct {
	app     *app.App
	loaders map[string]loader
}

func NewViewHandler(a *app.App) *ViewHandler {
	h := &ViewHandler{app: a}
	h.loaders = map[string]loader{
		"home":             h.home,
		"products":         h.products,
		"product-detail":   h.product,
		"product-page":     h.product,
		"edit-product":     h.product,
		"cart":             h.cart,
		"my-orders":        h.orders,
		"my-products":      h.myProducts,
		"notifications":    h.notifications,
		"profile":          h.profile,
		"admin-users":      h.adminUsers,
		"admin-dashboard":  h.adminStats,
		"admin-stats":      h.adminStats,
		"admin-reports":    h.reports,
		"logistics":        h.logistics,
		"moderation":       h.moderation,
		"vendor-dashboard": h.vendorOrders,
	}
	return h
}

// Render handles GET /view/*. A guard redirect answers 303 to the target view.
func (h *ViewHandler) Render(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, ViewPrefix)
	res, err := h.app.Navigator.Navigate(path)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if res.Redirected {
		redirectTo(w, r, res.Location.Path)
		return
	}

	view := View{Route: res.Location.Name, Params: res.Location.Params}
	if load, ok := h.loaders[res.Location.Name]; ok {
		data, err := load(r.Context(), res.Location, r)
		if err != nil {
			// A 401 while loading has already moved the navigator.
			if loc := h.app.Navigator.Location(); loc.Path != res.Location.Path {
				redirectTo(w, r, loc.Path)
				return
			}
			slog.Warn("View data failed to load", "route", view.Route, "error", err)
			view.Error = err.Error()
		}
		view.Data = data
	}
	view.Session = h.app.Session.Snapshot()
	view.Notices = h.app.Notices.Drain()

	status := http.StatusOK
	if view.Route == router.NotFound {
		status = http.StatusNotFound
	}
	writeJSONResponse(w, status, view)
}

func redirectTo(w http.ResponseWriter, r *http.Request, target string) {
	if target == "/" {
		target = ""
	}
	http.Redirect(w, r, ViewPrefix+target, http.StatusSeeOther)
}

func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func uuidParam(m router.Match) (uuid.UUID, error) {
	id, err := uuid.Parse(m.Params["id"])
	if err != nil {
		return uuid.Nil, errors.New("invalid product id")
	}
	return id, nil
}

func (h *ViewHandler) home(ctx context.Context, _ router.Match, _ *http.Request) (any, error) {
	return h.app.Stores.Products.FetchFeatured(ctx)
}

func (h *ViewHandler) products(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	s := h.app.Stores.Products
	var err error
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		err = s.Search(ctx, q)
	} else if page := pageParam(r); page > 0 {
		err = s.GoToPage(ctx, page)
	} else {
		err = s.Fetch(ctx)
	}
	return s.State(), err
}

func (h *ViewHandler) product(ctx context.Context, m router.Match, _ *http.Request) (any, error) {
	id, err := uuidParam(m)
	if err != nil {
		return nil, err
	}
	return h.app.Stores.Products.FetchByID(ctx, id)
}

func (h *ViewHandler) cart(ctx context.Context, _ router.Match, _ *http.Request) (any, error) {
	err := h.app.Stores.Cart.Fetch(ctx)
	return h.app.Stores.Cart.Cart(), err
}

func (h *ViewHandler) orders(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	err := h.app.Stores.Orders.Fetch(ctx, pageParam(r))
	return h.app.Stores.Orders.State(), err
}

func (h *ViewHandler) myProducts(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	return h.app.Stores.Products.FetchMine(ctx, pageParam(r))
}

func (h *ViewHandler) notifications(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	err := h.app.Stores.Notifications.Fetch(ctx, pageParam(r))
	return h.app.Stores.Notifications.State(), err
}

func (h *ViewHandler) profile(ctx context.Context, _ router.Match, _ *http.Request) (any, error) {
	return h.app.Services.Users.Profile(ctx)
}

func (h *ViewHandler) adminUsers(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	s := h.app.Stores.Admin
	var err error
	if rol := r.URL.Query().Get("rol"); rol != "" {
		f := s.State().Filters
		f.Role = rol
		err = s.SetFilter(ctx, f)
	} else {
		err = s.ChangePage(ctx, pageParam(r))
	}
	return s.State(), err
}

func (h *ViewHandler) adminStats(ctx context.Context, _ router.Match, _ *http.Request) (any, error) {
	return h.app.Stores.Admin.FetchStats(ctx)
}

// reports loads the dashboard when desde and hasta (ISO dates) are given
func (h *ViewHandler) reports(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	s := h.app.Stores.Reports
	q := r.URL.Query()
	if q.Get("desde") == "" && q.Get("hasta") == "" {
		return s.State(), nil
	}
	from, err := time.Parse(time.DateOnly, q.Get("desde"))
	if err != nil {
		return s.State(), errors.New("invalid desde date")
	}
	to, err := time.Parse(time.DateOnly, q.Get("hasta"))
	if err != nil {
		return s.State(), errors.New("invalid hasta date")
	}
	err = s.LoadDashboard(ctx, models.DateRange{From: from, To: to}, dashboardLimit)
	return s.State(), err
}

func (h *ViewHandler) logistics(ctx context.Context, _ router.Match, _ *http.Request) (any, error) {
	err := h.app.Stores.Orders.FetchLogistics(ctx)
	return h.app.Stores.Orders.State(), err
}

func (h *ViewHandler) moderation(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	s := h.app.Stores.Moderation
	var err error
	if status := r.URL.Query().Get("estado"); status != "" {
		err = s.SetStatusFilter(ctx, models.ModerationStatus(strings.ToUpper(status)))
	} else {
		err = s.FetchRequests(ctx, pageParam(r))
	}
	if err == nil {
		_ = s.FetchStats(ctx)
	}
	return s.State(), err
}

// vendorOrders shows an admin without the vendor role every order instead
func (h *ViewHandler) vendorOrders(ctx context.Context, _ router.Match, r *http.Request) (any, error) {
	var err error
	if h.app.Session.HasRole(models.RoleVendor) {
		err = h.app.Stores.Orders.FetchVendorOrders(ctx, pageParam(r))
	} else {
		err = h.app.Stores.Orders.FetchAll(ctx, pageParam(r))
	}
	return h.app.Stores.Orders.State(), err
}
