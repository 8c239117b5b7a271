package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Ante cualquier fallo interno se devuelve con ceros y lista vacía en lugar
// de propagar el error.
type DashboardStatsDTO struct {
	TotalRevenue        decimal.Decimal    `json:"totalRevenue"`
	InvoiceCount        int                `json:"invoiceCount"`
	ClientCount         int                `json:"clientCount"`
	AverageInvoiceValue decimal.Decimal    `json:"averageInvoiceValue"`
	RecentInvoices      []RecentInvoiceDTO `json:"recentInvoices"`
}

// RecentInvoiceDTO factura resumida del widget de recientes (≤5, más nuevas primero).
type RecentInvoiceDTO struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	ClientName string          `json:"clientName"`
}

// EmptyDashboardStats devuelve el DTO con valores por defecto (todo en cero).
func EmptyDashboardStats() *DashboardStatsDTO {
	return &DashboardStatsDTO{
		TotalRevenue:        decimal.Zero,
		AverageInvoiceValue: decimal.Zero,
		RecentInvoices:      []RecentInvoiceDTO{},
	}
}
