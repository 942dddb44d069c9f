package entity

import "github.com/shopspring/decimal"

// DashboardStats is the per-clinic summary shown on the staff dashboard.
type DashboardStats struct {
	TotalPatients     int64           `json:"total_patients"`
	TodayAppointments int64           `json:"today_appointments"`
	PendingInvoices   int64           `json:"pending_invoices"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
}
