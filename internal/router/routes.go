// Package router holds the client route table, the navigation guard and the
// navigator that owns the current location.
package router

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/models"
)

// Well-known locations the guard redirects to
const (
	HomePath      = "/"
	LoginPath     = "/login"
	ForbiddenPath = "/403"
)

// NotFound is the name of the catch-all view
const NotFound = "not-found"

var ErrRedirectLoop = errors.New("route redirect loop")

// Route is one entry of the route table. A route with Redirect set has no
// view of its own and is resolved to its target before the guard runs.
type Route struct {
	Name     string
	Path     string
	Redirect string
	Require  authz.Requirement
}

var (
	public        = authz.Requirement{}
	authenticated = authz.Requirement{Authenticated: true}
	guestOnly     = authz.Requirement{GuestOnly: true}
)

func roles(rs ...models.Role) authz.Requirement {
	return authz.Requirement{Authenticated: true, AnyOf: rs}
}

// Routes is the canonical route table
var Routes = []Route{
	{Name: "home", Path: "/", Require: public},
	{Name: "products", Path: "/productos", Require: public},
	{Name: "product-detail", Path: "/productos/{id}", Require: public},
	{Name: "product-page", Path: "/producto/{id}", Require: public},
	{Name: "login", Path: "/login", Require: guestOnly},
	{Name: "register", Path: "/register", Require: guestOnly},

	{Name: "cart", Path: "/carrito", Require: authenticated},
	{Name: "my-orders", Path: "/mis-pedidos", Require: authenticated},
	{Name: "profile", Path: "/perfil", Require: authenticated},
	{Name: "settings", Path: "/configuracion", Require: authenticated},
	{Name: "create-product", Path: "/crear-producto", Require: authenticated},
	{Name: "my-products", Path: "/mis-productos", Require: authenticated},
	{Name: "edit-product", Path: "/editar-producto/{id}", Require: authenticated},
	{Name: "notifications", Path: "/notificaciones", Require: authenticated},

	{Name: "admin", Path: "/admin", Redirect: "/admin/usuarios"},
	{Name: "admin-dashboard", Path: "/admin/dashboard", Require: roles(models.RoleAdmin)},
	{Name: "admin-users", Path: "/admin/usuarios", Require: roles(models.RoleAdmin)},
	{Name: "admin-stats", Path: "/admin/estadisticas", Require: roles(models.RoleAdmin)},
	{Name: "admin-reports", Path: "/admin/reportes", Require: roles(models.RoleAdmin)},
	{Name: "logistics", Path: "/logistica", Require: roles(models.RoleAdmin, models.RoleLogistics)},

	{Name: "moderator", Path: "/moderador", Redirect: "/moderador/productos"},
	{Name: "moderation", Path: "/moderador/productos", Require: roles(models.RoleModerator, models.RoleAdmin)},
	{Name: "vendor-dashboard", Path: "/vendedor/dashboard", Require: roles(models.RoleVendor, models.RoleAdmin)},

	{Name: "forbidden", Path: "/403", Require: public},
}

// Match is a resolved location
type Match struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Params  map[string]string `json:"params,omitempty"`
	Require authz.Requirement `json:"-"`
}

// Table matches locations against the route table
type Table struct {
	mux    *mux.Router
	routes map[string]Route
}

// NewTable builds a table from routes. nil means Routes.
func NewTable(routes []Route) *Table {
	if routes == nil {
		routes = Routes
	}
	t := &Table{mux: mux.NewRouter(), routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		t.mux.NewRoute().Name(r.Name).Path(r.Path)
		t.routes[r.Name] = r
	}
	return t
}

// Resolve matches path, following route redirects. Unknown paths resolve to NotFound.
func (t *Table) Resolve(path string) (Match, error) {
	path = clean(path)
	for hops := 0; hops <= len(t.routes); hops++ {
		req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
		var rm mux.RouteMatch
		if !t.mux.Match(req, &rm) {
			return Match{Name: NotFound, Path: path}, nil
		}
		route := t.routes[rm.Route.GetName()]
		if route.Redirect == "" {
			return Match{Name: route.Name, Path: path, Params: rm.Vars, Require: route.Require}, nil
		}
		path = route.Redirect
	}
	return Match{}, ErrRedirectLoop
}

// URL builds the path of a named route
func (t *Table) URL(name string, pairs ...string) (string, error) {
	r := t.mux.Get(name)
	if r == nil {
		return "", errors.New("unknown route " + name)
	}
	u, err := r.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// clean drops the query and fragment and any trailing slash
func clean(p string) string {
	if u, err := url.Parse(p); err == nil {
		p = u.Path
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
