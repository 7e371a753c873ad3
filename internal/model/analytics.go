package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Analytics is the sales/returns report returned by /sales/analytics/
type Analytics struct {
	Summary          AnalyticsSummary   `json:"summary"`
	PaymentBreakdown []PaymentBreakdown `json:"payment_breakdown"`
	TopProducts      []ProductRanking   `json:"top_products"`
	RecentSales      []Sale             `json:"recent_sales"`
	RecentReturns    []RecentReturn     `json:"recent_returns"`
	MonthlyData      []MonthlyTrend     `json:"monthly_data"`
}

type AnalyticsSummary struct {
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	TotalRefunds decimal.Decimal `json:"total_refunds"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	TotalSales   int             `json:"total_sales"`
	TotalItems   int             `json:"total_items"`
	TotalReturns int             `json:"total_returns"`
	TotalGST     decimal.Decimal `json:"total_gst"`
	AverageSale  decimal.Decimal `json:"average_sale"`
	PeriodDays   int             `json:"period_days"`
	StartDate    *time.Time      `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
}

type PaymentBreakdown struct {
	PaymentMode string          `json:"payment_mode"`
	Count       int             `json:"count"`
	Total       decimal.Decimal `json:"total"`
}

// ProductRanking represents a top-selling variant for the period
type ProductRanking struct {
	ProductName   string          `json:"product_name"`
	VariantSize   string          `json:"variant_size"`
	VariantColor  string          `json:"variant_color"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

type RecentReturn struct {
	ID              int64           `json:"id"`
	ReturnNumber    string          `json:"return_number"`
	OriginalInvoice string          `json:"original_sale__invoice_number"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	Reason          string          `json:"reason"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MonthlyTrend is one calendar-month row of the revenue trend
type MonthlyTrend struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Refunds decimal.Decimal `json:"refunds"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}
