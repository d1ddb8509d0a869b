package services

import (
	"context"
	"errors"
	"net/url"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// HistoryPageSize is the default page size of the history reports
const HistoryPageSize = 20

var ErrInvalidRange = errors.New("invalid date range")

// ReportService covers the admin reports under /reportes
type ReportService struct {
	doer gateway.Doer
}

func NewReportService(d gateway.Doer) *ReportService {
	return &ReportService{doer: d}
}

// rangeQuery encodes the date bounds as ISO dates; a positive limit is sent as limite
func rangeQuery(r models.DateRange, limit int) (url.Values, error) {
	if !r.Valid() {
		return nil, ErrInvalidRange
	}
	q := url.Values{}
	q.Set("fechaInicio", models.DateParam(r.From))
	q.Set("fechaFin", models.DateParam(r.To))
	if limit > 0 {
		q.Set("limite", itoa(limit))
	}
	return q, nil
}

func (s *ReportService) TopProducts(ctx context.Context, r models.DateRange, limit int) ([]models.ProductSalesRow, error) {
	return rangedReport[models.ProductSalesRow](ctx, s.doer, "/reportes/productos-mas-vendidos", r, limit)
}

func (s *ReportService) CustomersByProfit(ctx context.Context, r models.DateRange, limit int) ([]models.CustomerProfitRow, error) {
	return rangedReport[models.CustomerProfitRow](ctx, s.doer, "/reportes/clientes-por-ganancias", r, limit)
}

func (s *ReportService) CustomersBySales(ctx context.Context, r models.DateRange, limit int) ([]models.CustomerSalesRow, error) {
	return rangedReport[models.CustomerSalesRow](ctx, s.doer, "/reportes/clientes-por-ventas", r, limit)
}

func (s *ReportService) CustomersByOrders(ctx context.Context, r models.DateRange, limit int) ([]models.CustomerOrdersRow, error) {
	return rangedReport[models.CustomerOrdersRow](ctx, s.doer, "/reportes/clientes-por-pedidos", r, limit)
}

// CustomersByProducts is not date-ranged
func (s *ReportService) CustomersByProducts(ctx context.Context) ([]models.CustomerProductsRow, error) {
	return gateway.Call[[]models.CustomerProductsRow](ctx, s.doer, gateway.Request{Path: "/reportes/clientes-por-productos"})
}

func (s *ReportService) SanctionHistory(ctx context.Context, p PageRequest) (models.Page[models.Sanction], error) {
	if p.Size <= 0 {
		p.Size = HistoryPageSize
	}
	return gateway.Call[models.Page[models.Sanction]](ctx, s.doer, gateway.Request{
		Path:  "/reportes/historial-sanciones",
		Query: p.values(),
	})
}

func (s *ReportService) NotificationHistory(ctx context.Context, p PageRequest) (models.Page[models.Notification], error) {
	if p.Size <= 0 {
		p.Size = HistoryPageSize
	}
	return gateway.Call[models.Page[models.Notification]](ctx, s.doer, gateway.Request{
		Path:  "/reportes/historial-notificaciones",
		Query: p.values(),
	})
}

func rangedReport[T any](ctx context.Context, d gateway.Doer, path string, r models.DateRange, limit int) ([]T, error) {
	q, err := rangeQuery(r, limit)
	if err != nil {
		return nil, err
	}
	return gateway.Call[[]T](ctx, d, gateway.Request{Path: path, Query: q})
}
