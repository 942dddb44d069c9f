package dto

import "github.com/shopspring/decimal"

type DashboardStatsResponse struct {
	TotalPatients     int64           `json:"totalPatients"`
	TodayAppointments int64           `json:"todayAppointments"`
	PendingInvoices   int64           `json:"pendingInvoices"`
	MonthlyRevenue    decimal.Decimal `json:"monthlyRevenue"`
}
