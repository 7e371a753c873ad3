package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnReason enum constants
const (
	ReturnReasonDefect         = "DEFECT"
	ReturnReasonWrongSize      = "WRONG_SIZE"
	ReturnReasonWrongColor     = "WRONG_COLOR"
	ReturnReasonNotAsExpected  = "NOT_AS_EXPECTED"
	ReturnReasonCustomerChange = "CUSTOMER_CHANGE"
	ReturnReasonOther          = "OTHER"
)

// ValidReturnReason reports whether reason belongs to the closed reason set
func ValidReturnReason(reason string) bool {
	switch reason {
	case ReturnReasonDefect, ReturnReasonWrongSize, ReturnReasonWrongColor,
		ReturnReasonNotAsExpected, ReturnReasonCustomerChange, ReturnReasonOther:
		return true
	}
	return false
}

// Return is a post-sale reversal recorded by the backend
type Return struct {
	ID              int64           `json:"id"`
	ReturnNumber    string          `json:"return_number"`
	OriginalSaleID  int64           `json:"original_sale"`
	OriginalInvoice string          `json:"original_invoice"`
	Reason          string          `json:"reason"`
	Notes           string          `json:"notes"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	RefundGST       decimal.Decimal `json:"refund_gst"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []ReturnItem    `json:"items"`
}

type ReturnItem struct {
	ID          int64           `json:"id"`
	SaleItemID  int64           `json:"sale_item"`
	Quantity    int             `json:"quantity"`
	RefundPrice decimal.Decimal `json:"refund_price"`
	ProductName string          `json:"product_name"`
}

type ReturnItemRequest struct {
	SaleItemID int64 `json:"sale_item"`
	Quantity   int   `json:"quantity"`
}

// CreateReturnRequest is the body POSTed to /returns/
type CreateReturnRequest struct {
	OriginalSaleID int64               `json:"original_sale"`
	Reason         string              `json:"reason"`
	Notes          string              `json:"notes"`
	Items          []ReturnItemRequest `json:"items"`
}

// ReturnedQuantities sums returned quantities per sale item across returns of one sale
func ReturnedQuantities(saleID int64, returns []Return) map[int64]int {
	totals := make(map[int64]int)
	for _, r := range returns {
		if r.OriginalSaleID != saleID {
			continue
		}
		for _, item := range r.Items {
			totals[item.SaleItemID] += item.Quantity
		}
	}
	return totals
}
