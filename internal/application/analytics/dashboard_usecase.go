// Package analytics contiene el caso de uso del dashboard financiero.
package analytics

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/voiceinvoice-api/internal/application/dto"
	"github.com/jhoicas/voiceinvoice-api/internal/domain/repository"
)

// recentInvoicesLimit número de facturas del widget de recientes.
const recentInvoicesLimit = 5

// StatsCache cache read-through opcional de las estadísticas del dashboard.
// La invalidación ocurre tras cada guardado/envío exitoso (paso 10 del
// guardado); aquí solo se lee y se repuebla.
type StatsCache interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, bool)
	SetStats(ctx context.Context, stats *dto.DashboardStatsDTO)
}

// DashboardUseCase construye las estadísticas agregadas del dashboard.
//
// Contrato de degradación: ante cualquier fallo interno devuelve el DTO con
// ceros y lista vacía en lugar de propagar un error; el fallo se registra.
type DashboardUseCase struct {
	statsRepo repository.StatsRepository
	cache     StatsCache // nil = sin cache
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(statsRepo repository.StatsRepository, cache StatsCache) *DashboardUseCase {
	return &DashboardUseCase{statsRepo: statsRepo, cache: cache}
}

// GetStats devuelve ingresos totales, conteos, promedio y facturas recientes.
//
// Tres consultas en paralelo (son lecturas independientes):
//  1. GetRevenueTotals → TotalRevenue + InvoiceCount
//  2. CountClients     → ClientCount
//  3. GetRecentInvoices(5) → RecentInvoices
func (uc *DashboardUseCase) GetStats(ctx context.Context) *dto.DashboardStatsDTO {
	if uc.cache != nil {
		if cached, ok := uc.cache.GetStats(ctx); ok {
			return cached
		}
	}

	type revenueResult struct {
		revenue decimal.Decimal
		count   int
		err     error
	}
	type clientsResult struct {
		count int
		err   error
	}
	type recentResult struct {
		rows []repository.RecentInvoice
		err  error
	}

	revenueCh := make(chan revenueResult, 1)
	clientsCh := make(chan clientsResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		revenue, count, err := uc.statsRepo.GetRevenueTotals(ctx)
		revenueCh <- revenueResult{revenue, count, err}
	}()
	go func() {
		count, err := uc.statsRepo.CountClients(ctx)
		clientsCh <- clientsResult{count, err}
	}()
	go func() {
		rows, err := uc.statsRepo.GetRecentInvoices(ctx, recentInvoicesLimit)
		recentCh <- recentResult{rows, err}
	}()

	revenue := <-revenueCh
	clients := <-clientsCh
	recent := <-recentCh

	if revenue.err != nil || clients.err != nil || recent.err != nil {
		log.Error().
			AnErr("revenue", revenue.err).
			AnErr("clients", clients.err).
			AnErr("recent", recent.err).
			Msg("dashboard: fallo en consultas, se devuelven valores por defecto")
		return dto.EmptyDashboardStats()
	}

	average := decimal.Zero
	if revenue.count > 0 {
		average = revenue.revenue.Div(decimal.NewFromInt(int64(revenue.count))).Round(2)
	}

	stats := &dto.DashboardStatsDTO{
		TotalRevenue:        revenue.revenue,
		InvoiceCount:        revenue.count,
		ClientCount:         clients.count,
		AverageInvoiceValue: average,
		RecentInvoices:      make([]dto.RecentInvoiceDTO, 0, len(recent.rows)),
	}
	for _, row := range recent.rows {
		stats.RecentInvoices = append(stats.RecentInvoices, dto.RecentInvoiceDTO{
			ID:         row.ID,
			Number:     row.Number,
			Date:       row.Date.Format("2006-01-02"),
			Amount:     row.Amount,
			Currency:   row.Currency,
			Status:     row.Status,
			ClientName: row.ClientName,
		})
	}

	if uc.cache != nil {
		uc.cache.SetStats(ctx, stats)
	}
	return stats
}
