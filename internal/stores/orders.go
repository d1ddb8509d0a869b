package stores

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
)

// OrderPageSize is the order history's page size
const OrderPageSize = 10

// OrderState is a snapshot of the order store
type OrderState struct {
	Orders     []models.Order       `json:"orders"`
	Current    *models.Order        `json:"current,omitempty"`
	Summary    *models.OrderSummary `json:"summary,omitempty"`
	InProgress []models.Order       `json:"inProgress,omitempty"`
	DueSoon    []models.Order       `json:"dueSoon,omitempty"`
	Pagination models.Pagination    `json:"pagination"`
	Loading    bool                 `json:"loading"`
}

// OrderStore backs the buyer's order history and the logistics panel
type OrderStore struct {
	base
	svc  *services.OrderService
	cart *CartStore

	mu    sync.RWMutex
	state OrderState
}

// NewOrderStore creates the store. cart, when set, is refetched after an order is placed.
func NewOrderStore(svc *services.OrderService, cart *CartStore, deps Deps) *OrderStore {
	s := &OrderStore{
		svc:  svc,
		cart: cart,
		state: OrderState{
			Orders:     []models.Order{},
			Pagination: models.Pagination{Size: OrderPageSize},
		},
	}
	s.init("orders", deps)
	return s
}

func (s *OrderStore) State() OrderState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Orders = append([]models.Order(nil), s.state.Orders...)
	st.Loading = s.IsLoading()
	return st
}

// Fetch loads a page of the caller's orders
func (s *OrderStore) Fetch(ctx context.Context, page int) error {
	return track(&s.loading, func() error {
		result, err := s.svc.Mine(ctx, services.PageRequest{Page: page, Size: OrderPageSize})
		if err != nil {
			return s.fail(err, "Error al cargar pedidos")
		}
		s.applyPage(result)
		return nil
	})
}

// FetchVendorOrders loads orders that contain the caller's products
func (s *OrderStore) FetchVendorOrders(ctx context.Context, page int) error {
	if err := s.authorize(authz.ActionOrdersVendor); err != nil {
		return err
	}
	return track(&s.loading, func() error {
		result, err := s.svc.ForVendor(ctx, services.PageRequest{Page: page, Size: OrderPageSize})
		if err != nil {
			return s.fail(err, "Error al cargar pedidos")
		}
		s.applyPage(result)
		return nil
	})
}

func (s *OrderStore) FetchAll(ctx context.Context, page int) error {
	if err := s.authorize(authz.ActionOrdersViewAll); err != nil {
		return err
	}
	return track(&s.loading, func() error {
		result, err := s.svc.All(ctx, services.PageRequest{Page: page, Size: OrderPageSize})
		if err != nil {
			return s.fail(err, "Error al cargar pedidos")
		}
		s.applyPage(result)
		return nil
	})
}

func (s *OrderStore) FetchByID(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := track(&s.loading, func() error {
		var err error
		order, err = s.svc.Get(ctx, id)
		if err != nil {
			return s.fail(err, "Pedido no encontrado")
		}
		s.mu.Lock()
		s.state.Current = &order
		s.mu.Unlock()
		return nil
	})
	return order, err
}

// PlaceFromCart checks out the cart, then reloads the order history and the cart
func (s *OrderStore) PlaceFromCart(ctx context.Context, req models.PlaceOrderRequest) (models.Order, error) {
	if err := s.authorize(authz.ActionOrdersPlace); err != nil {
		return models.Order{}, err
	}
	var order models.Order
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			var err error
			order, err = s.svc.PlaceFromCart(ctx, req)
			return err
		},
		func(ctx context.Context) error {
			if err := s.Fetch(ctx, 0); err != nil {
				return err
			}
			if s.cart != nil {
				return s.cart.Fetch(ctx)
			}
			return nil
		})
	if err != nil {
		return order, s.fail(err, "Error al crear el pedido")
	}
	notify.Success(s.notifier, "Pedido "+order.OrderNumber+" creado exitosamente")
	return order, nil
}

func (s *OrderStore) Cancel(ctx context.Context, id uuid.UUID) error {
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			_, err := s.svc.Cancel(ctx, id)
			return err
		},
		func(ctx context.Context) error { return s.resync(ctx, id) })
	if err != nil {
		return s.fail(err, "Error al cancelar el pedido")
	}
	notify.Info(s.notifier, "Pedido cancelado")
	return nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string) error {
	if _, ok := models.ParseOrderStatus(string(status)); !ok {
		return s.preflight("Estado de pedido desconocido: " + string(status))
	}
	if err := s.authorize(authz.ActionOrdersUpdateState); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			_, err := s.svc.UpdateStatus(ctx, id, models.UpdateOrderStatusRequest{Status: status, Notes: notes})
			return err
		},
		func(ctx context.Context) error { return s.resync(ctx, id) })
	if err != nil {
		return s.fail(err, "Error al actualizar el estado del pedido")
	}
	notify.Success(s.notifier, "Estado del pedido actualizado")
	return nil
}

func (s *OrderStore) SetDeliveryDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	if at.IsZero() {
		return s.preflight("Debes indicar la fecha de entrega")
	}
	if err := s.authorize(authz.ActionOrdersFulfil); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			_, err := s.svc.SetDeliveryDate(ctx, id, models.DeliveryDateRequest{EstimatedDeliveryAt: models.NewLocalTime(at)})
			return err
		},
		s.fetchLogistics)
	if err != nil {
		return s.fail(err, "Error al asignar la fecha de entrega")
	}
	notify.Success(s.notifier, "Fecha de entrega asignada")
	return nil
}

func (s *OrderStore) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	if err := s.authorize(authz.ActionOrdersFulfil); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			_, err := s.svc.MarkDelivered(ctx, id)
			return err
		},
		s.fetchLogistics)
	if err != nil {
		return s.fail(err, "Error al marcar el pedido como entregado")
	}
	notify.Success(s.notifier, "Pedido marcado como entregado")
	return nil
}

func (s *OrderStore) FetchSummary(ctx context.Context) (models.OrderSummary, error) {
	summary, err := s.svc.Summary(ctx)
	if err != nil {
		return summary, s.fail(err, "Error al cargar el resumen de pedidos")
	}
	s.mu.Lock()
	s.state.Summary = &summary
	s.mu.Unlock()
	return summary, nil
}

// FetchLogistics loads the in-progress and due-soon queues
func (s *OrderStore) FetchLogistics(ctx context.Context) error {
	if err := s.authorize(authz.ActionOrdersFulfil); err != nil {
		return err
	}
	return track(&s.loading, func() error { return s.fetchLogistics(ctx) })
}

func (s *OrderStore) fetchLogistics(ctx context.Context) error {
	inProgress, err := s.svc.InProgress(ctx)
	if err != nil {
		return s.fail(err, "Error al cargar pedidos en curso")
	}
	dueSoon, err := s.svc.DueSoon(ctx)
	if err != nil {
		return s.fail(err, "Error al cargar pedidos próximos a vencer")
	}
	s.mu.Lock()
	s.state.InProgress = inProgress
	s.state.DueSoon = dueSoon
	s.mu.Unlock()
	return nil
}

func (s *OrderStore) resync(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	page := s.state.Pagination.Page
	viewing := s.state.Current != nil && s.state.Current.ID == id
	s.mu.RUnlock()

	if err := s.Fetch(ctx, page); err != nil {
		return err
	}
	if viewing {
		_, err := s.FetchByID(ctx, id)
		return err
	}
	return nil
}

func (s *OrderStore) applyPage(result models.Page[models.Order]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Orders = result.Content
	if s.state.Orders == nil {
		s.state.Orders = []models.Order{}
	}
	s.state.Pagination.Apply(result.TotalElements, result.TotalPages, result.Number)
}
