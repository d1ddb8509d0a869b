package stores

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/export"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/services"
)

const reportFallback = "Error al cargar reporte"

// ReportState is a snapshot of every loaded report
type ReportState struct {
	Range               models.DateRange                 `json:"-"`
	TopProducts         []models.ProductSalesRow         `json:"topProducts"`
	CustomersByProfit   []models.CustomerProfitRow       `json:"customersByProfit"`
	CustomersBySales    []models.CustomerSalesRow        `json:"customersBySales"`
	CustomersByOrders   []models.CustomerOrdersRow       `json:"customersByOrders"`
	CustomersByProducts []models.CustomerProductsRow     `json:"customersByProducts"`
	SanctionHistory     models.Page[models.Sanction]     `json:"sanctionHistory"`
	NotificationHistory models.Page[models.Notification] `json:"notificationHistory"`
	Loading             bool                             `json:"loading"`
	Error               string                           `json:"error,omitempty"`
}

// ReportStore loads the admin reports and exports them
type ReportStore struct {
	base
	svc *services.ReportService

	mu    sync.RWMutex
	state ReportState
}

func NewReportStore(svc *services.ReportService, deps Deps) *ReportStore {
	s := &ReportStore{svc: svc}
	s.init("reports", deps)
	return s
}

func (s *ReportStore) State() ReportState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Loading = s.IsLoading()
	return st
}

func (s *ReportStore) LoadTopProducts(ctx context.Context, r models.DateRange, limit int) error {
	return s.load(ctx, func(ctx context.Context) error {
		rows, err := s.svc.TopProducts(ctx, r, limit)
		if err == nil {
			s.update(func(st *ReportState) { st.TopProducts = rows; st.Range = r })
		}
		return err
	})
}

func (s *ReportStore) LoadCustomersByProfit(ctx context.Context, r models.DateRange, limit int) error {
	return s.load(ctx, func(ctx context.Context) error {
		rows, err := s.svc.CustomersByProfit(ctx, r, limit)
		if err == nil {
			s.update(func(st *ReportState) { st.CustomersByProfit = rows; st.Range = r })
		}
		return err
	})
}

func (s *ReportStore) LoadCustomersBySales(ctx context.Context, r models.DateRange, limit int) error {
	return s.load(ctx, func(ctx context.Context) error {
		rows, err := s.svc.CustomersBySales(ctx, r, limit)
		if err == nil {
			s.update(func(st *ReportState) { st.CustomersBySales = rows; st.Range = r })
		}
		return err
	})
}

func (s *ReportStore) LoadCustomersByOrders(ctx context.Context, r models.DateRange, limit int) error {
	return s.load(ctx, func(ctx context.Context) error {
		rows, err := s.svc.CustomersByOrders(ctx, r, limit)
		if err == nil {
			s.update(func(st *ReportState) { st.CustomersByOrders = rows; st.Range = r })
		}
		return err
	})
}

func (s *ReportStore) LoadCustomersByProducts(ctx context.Context) error {
	return s.load(ctx, func(ctx context.Context) error {
		rows, err := s.svc.CustomersByProducts(ctx)
		if err == nil {
			s.update(func(st *ReportState) { st.CustomersByProducts = rows })
		}
		return err
	})
}

func (s *ReportStore) LoadSanctionHistory(ctx context.Context, page int) error {
	return s.load(ctx, func(ctx context.Context) error {
		result, err := s.svc.SanctionHistory(ctx, services.PageRequest{Page: page})
		if err == nil {
			s.update(func(st *ReportState) { st.SanctionHistory = result })
		}
		return err
	})
}

func (s *ReportStore) LoadNotificationHistory(ctx context.Context, page int) error {
	return s.load(ctx, func(ctx context.Context) error {
		result, err := s.svc.NotificationHistory(ctx, services.PageRequest{Page: page})
		if err == nil {
			s.update(func(st *ReportState) { st.NotificationHistory = result })
		}
		return err
	})
}

// LoadDashboard fetches the four date-ranged reports concurrently. The first
// failure cancels the others; reports that already arrived are kept.
func (s *ReportStore) LoadDashboard(ctx context.Context, r models.DateRange, limit int) error {
	return s.load(ctx, func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)

		var (
			top     []models.ProductSalesRow
			profit  []models.CustomerProfitRow
			sales   []models.CustomerSalesRow
			byOrder []models.CustomerOrdersRow
		)
		g.Go(func() (err error) { top, err = s.svc.TopProducts(ctx, r, limit); return })
		g.Go(func() (err error) { profit, err = s.svc.CustomersByProfit(ctx, r, limit); return })
		g.Go(func() (err error) { sales, err = s.svc.CustomersBySales(ctx, r, limit); return })
		g.Go(func() (err error) { byOrder, err = s.svc.CustomersByOrders(ctx, r, limit); return })

		err := g.Wait()
		s.update(func(st *ReportState) {
			st.Range = r
			if top != nil {
				st.TopProducts = top
			}
			if profit != nil {
				st.CustomersByProfit = profit
			}
			if sales != nil {
				st.CustomersBySales = sales
			}
			if byOrder != nil {
				st.CustomersByOrders = byOrder
			}
		})
		return err
	})
}

// Export writes every loaded report to an XLSX workbook at path
func (s *ReportStore) Export(path string) error {
	sheets := reportSheets(s.State())
	if len(sheets) == 0 {
		return s.preflight("No hay reportes cargados para exportar")
	}
	if err := export.Save(path, sheets); err != nil {
		s.logger.Error("Failed to export reports", "path", path, "error", err)
		return err
	}
	s.logger.Info("Reports exported", "path", path, "sheets", len(sheets))
	return nil
}

func (s *ReportStore) load(ctx context.Context, fn func(context.Context) error) error {
	if err := s.authorize(authz.ActionReportsView); err != nil {
		return err
	}
	return track(&s.loading, func() error {
		s.update(func(st *ReportState) { st.Error = "" })
		if err := fn(ctx); err != nil {
			msg := gateway.Message(err)
			if msg == "" {
				msg = reportFallback
			}
			s.update(func(st *ReportState) { st.Error = msg })
			return s.fail(err, reportFallback)
		}
		return nil
	})
}

func (s *ReportStore) update(fn func(*ReportState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func reportSheets(st ReportState) []export.Sheet {
	var sheets []export.Sheet
	if len(st.TopProducts) > 0 {
		sh := export.Sheet{Name: "Productos mas vendidos", Header: []string{"Producto", "ID", "Unidades", "Ingresos"}}
		for _, r := range st.TopProducts {
			sh.Rows = append(sh.Rows, []any{r.ProductName, r.ProductID.String(), r.UnitsSold, r.Revenue})
		}
		sheets = append(sheets, sh)
	}
	if len(st.CustomersByProfit) > 0 {
		sh := export.Sheet{Name: "Clientes por ganancias", Header: []string{"Cliente", "ID", "Total gastado", "Pedidos"}}
		for _, r := range st.CustomersByProfit {
			sh.Rows = append(sh.Rows, []any{r.FullName, r.UserID.String(), r.TotalSpent, r.OrderCount})
		}
		sheets = append(sheets, sh)
	}
	if len(st.CustomersBySales) > 0 {
		sh := export.Sheet{Name: "Clientes por ventas", Header: []string{"Cliente", "ID", "Productos vendidos", "Ingresos"}}
		for _, r := range st.CustomersBySales {
			sh.Rows = append(sh.Rows, []any{r.FullName, r.UserID.String(), r.UnitsSold, r.Revenue})
		}
		sheets = append(sheets, sh)
	}
	if len(st.CustomersByOrders) > 0 {
		sh := export.Sheet{Name: "Clientes por pedidos", Header: []string{"Cliente", "ID", "Pedidos", "Total gastado"}}
		for _, r := range st.CustomersByOrders {
			sh.Rows = append(sh.Rows, []any{r.FullName, r.UserID.String(), r.OrderCount, r.TotalSpent})
		}
		sheets = append(sheets, sh)
	}
	if len(st.CustomersByProducts) > 0 {
		sh := export.Sheet{Name: "Clientes por productos", Header: []string{"Vendedor", "ID", "Productos", "Aprobados"}}
		for _, r := range st.CustomersByProducts {
			sh.Rows = append(sh.Rows, []any{r.FullName, r.UserID.String(), r.ProductCount, r.ApprovedProducts})
		}
		sheets = append(sheets, sh)
	}
	return sheets
}
