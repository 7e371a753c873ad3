package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode constants
const (
	PaymentModeCash = "CASH"
	PaymentModeCard = "CARD"
	PaymentModeUPI  = "UPI"
)

// WalkInCustomer is the customer label used when the cashier enters none
const WalkInCustomer = "Walk-in Customer"

// ValidPaymentMode reports whether mode is one the till accepts
func ValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeCard, PaymentModeUPI:
		return true
	}
	return false
}

// Sale is a completed transaction as recorded by the backend.
// TotalAmount is fixed at creation and must never be recomputed from live prices.
type Sale struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	GSTTotal      decimal.Decimal `json:"gst_total"`
	PaymentMode   string          `json:"payment_mode"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []SaleItem      `json:"items"`
}

// SaleItem snapshots the variant display fields and price at sale time
type SaleItem struct {
	ID           int64           `json:"id"`
	VariantID    int64           `json:"variant"`
	VariantName  string          `json:"variant_name"`
	VariantSize  string          `json:"variant_size"`
	VariantColor string          `json:"variant_color"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// SaleItemRequest is one line of the sale-creation body
type SaleItemRequest struct {
	VariantID int64           `json:"variant"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is the body POSTed to /sales/
type CreateSaleRequest struct {
	CustomerName string            `json:"customer_name"`
	PaymentMode  string            `json:"payment_mode"`
	Items        []SaleItemRequest `json:"items"`
}
