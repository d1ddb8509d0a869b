package models

import "github.com/google/uuid"

// User is the administrative view of an account
type User struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Username  string    `json:"nombreUsuario" validate:"required"`
	Email     string    `json:"correo"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	FullName  string    `json:"nombreCompleto"`
	Phone     string    `json:"telefono"`
	Active    bool      `json:"activo"`
	Roles     []string  `json:"roles"`
	CreatedAt LocalTime `json:"fechaCreacion"`
	UpdatedAt LocalTime `json:"fechaActualizacion"`
}

// UserSummary is the nested user reference inside moderation and sanction payloads
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"nombreUsuario"`
	Email    string    `json:"correo,omitempty"`
	FullName string    `json:"nombreCompleto,omitempty"`
}

// UserRequest creates or updates an account from the admin panel
type UserRequest struct {
	Username string   `json:"nombreUsuario" validate:"required,min=3,max=50"`
	Email    string   `json:"correo" validate:"required,email"`
	Password string   `json:"contrasena,omitempty" validate:"omitempty,min=6"`
	FullName string   `json:"nombreCompleto,omitempty"`
	Phone    string   `json:"telefono,omitempty"`
	Address  string   `json:"direccion,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Active   *bool    `json:"activo,omitempty"`
}

// ProfileUpdate is the body of PUT /usuarios/perfil
type ProfileUpdate struct {
	Email    string `json:"correo,omitempty" validate:"omitempty,email"`
	FullName string `json:"nombreCompleto,omitempty"`
	Phone    string `json:"telefono,omitempty"`
	Address  string `json:"direccion,omitempty"`
}

// UserFilters is the admin user-list query
type UserFilters struct {
	Role      string `json:"rol"`
	Page      int    `json:"page"`
	Size      int    `json:"size"`
	SortBy    string `json:"sortBy"`
	Direction string `json:"direction"`
}

// DefaultUserFilters returns the admin panel's initial query
func DefaultUserFilters() UserFilters {
	return UserFilters{Page: 0, Size: 10, SortBy: "fechaCreacion", Direction: "desc"}
}

// AdminStats is the payload of GET /admin/estadisticas
type AdminStats struct {
	TotalUsers         int64         `json:"totalUsuarios"`
	ActiveUsers        int64         `json:"usuariosActivos"`
	TotalVendors       int64         `json:"totalVendedores"`
	TotalProducts      int64         `json:"totalProductos"`
	ApprovedProducts   int64         `json:"productosAprobados"`
	PendingProducts    int64         `json:"productosPendientes"`
	LowStockProducts   int64         `json:"productosStockBajo"`
	TotalOrders        int64         `json:"totalPedidos"`
	PendingOrders      int64         `json:"pedidosPendientes"`
	PreparingOrders    int64         `json:"pedidosEnPreparacion"`
	ShippedOrders      int64         `json:"pedidosEnviados"`
	DeliveredOrders    int64         `json:"pedidosEntregados"`
	CancelledOrders    int64         `json:"pedidosCancelados"`
	TotalSales         float64       `json:"totalVentas"`
	SalesThisMonth     float64       `json:"ventasMes"`
	SalesToday         float64       `json:"ventasHoy"`
	AverageTicket      float64       `json:"ticketPromedio"`
	TotalReviews       int64         `json:"totalReviews"`
	PendingReviews     int64         `json:"reviewsPendientes"`
	AverageRating      float64       `json:"calificacionPromedioGeneral"`
	UsersByRole        []RoleCount   `json:"usuariosPorRol"`
	TopSellingProducts []TopSeller   `json:"productosMasVendidos"`
	LatestOrders       []LatestOrder `json:"ultimosPedidos"`
}

// RoleCount is the number of accounts holding a role
type RoleCount struct {
	Role  string `json:"rol"`
	Count int64  `json:"cantidad"`
}

// TopSeller is one entry of the stats best sellers
type TopSeller struct {
	Name      string  `json:"nombre"`
	UnitsSold int64   `json:"cantidadVendida"`
	Revenue   float64 `json:"ingresos"`
}

// LatestOrder is one entry of the stats recent orders
type LatestOrder struct {
	OrderNumber string  `json:"numeroOrden"`
	Customer    string  `json:"cliente"`
	Total       float64 `json:"total"`
	Status      string  `json:"estado"`
}
