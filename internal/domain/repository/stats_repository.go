package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RecentInvoice fila ligera para el widget de facturas recientes del dashboard.
type RecentInvoice struct {
	ID         string
	Number     string
	Date       time.Time
	Amount     decimal.Decimal
	Currency   string
	Status     string
	ClientName string
}

// StatsRepository consultas read-only para el dashboard.
type StatsRepository interface {
	// GetRevenueTotals devuelve la suma de total_amount de TODAS las facturas
	// y el número de facturas (cero si no hay filas).
	GetRevenueTotals(ctx context.Context) (totalRevenue decimal.Decimal, invoiceCount int, err error)
	CountClients(ctx context.Context) (int, error)
	// GetRecentInvoices devuelve las `limit` facturas más recientes con el
	// nombre del cliente, ordenadas de más nueva a más vieja.
	GetRecentInvoices(ctx context.Context, limit int) ([]RecentInvoice, error)
}
