// Package cart holds the in-progress checkout transaction and computes its totals.
package cart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrLineNotFound       = errors.New("variant is not in the cart")
	ErrInvalidPaymentMode = errors.New("payment mode must be CASH, CARD or UPI")
)

var hundred = decimal.NewFromInt(100)

// Line is one cart row. Price and tax rate are captured when the variant is first added.
type Line struct {
	VariantID     int64           `json:"variant_id"`
	ProductName   string          `json:"product_name"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Barcode       string          `json:"barcode"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Quantity      int             `json:"quantity"`
	StockQuantity int             `json:"stock_quantity"`
}

// Subtotal is unit price times quantity, before tax
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Tax is the line's GST amount
func (l Line) Tax() decimal.Decimal {
	return l.Subtotal().Mul(l.TaxRate).Div(hundred)
}

// Total is subtotal plus tax
func (l Line) Total() decimal.Decimal {
	return l.Subtotal().Add(l.Tax())
}

// ExceedsStock reports whether the line asks for more units than the snapshot had on hand.
// The add itself is never blocked; stock is enforced by the backend at checkout.
func (l Line) ExceedsStock() bool {
	return l.Quantity > l.StockQuantity
}

// Totals is the presentation summary of a cart
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Ledger accumulates scanned variants into lines. It is not safe for concurrent use.
type Ledger struct {
	lines []Line
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) indexOf(variantID int64) int {
	for i := range l.lines {
		if l.lines[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// AddVariant increments the variant's line by one, or appends a new line with quantity 1.
func (l *Ledger) AddVariant(v model.Variant) Line {
	if i := l.indexOf(v.ID); i >= 0 {
		l.lines[i].Quantity++
		return l.lines[i]
	}

	line := Line{
		VariantID:     v.ID,
		ProductName:   v.ProductName,
		Size:          v.Size,
		Color:         v.Color,
		Barcode:       v.Barcode,
		UnitPrice:     v.PriceRetail,
		TaxRate:       v.GSTRate,
		Quantity:      1,
		StockQuantity: v.StockQuantity,
	}
	l.lines = append(l.lines, line)
	return line
}

// SetQuantity sets a line's quantity. Zero removes the line.
func (l *Ledger) SetQuantity(variantID int64, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	i := l.indexOf(variantID)
	if i < 0 {
		return ErrLineNotFound
	}

	if quantity == 0 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
		return nil
	}
	l.lines[i].Quantity = quantity
	return nil
}

// Lines returns a copy of the cart rows in insertion order
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Len() int {
	return len(l.lines)
}

// ComputeTotal sums subtotal and tax over all lines without rounding.
func (l *Ledger) ComputeTotal() decimal.Decimal {
	return l.Totals().Total
}

func (l *Ledger) Totals() Totals {
	t := Totals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, line := range l.lines {
		t.Subtotal = t.Subtotal.Add(line.Subtotal())
		t.Tax = t.Tax.Add(line.Tax())
		t.ItemCount += line.Quantity
	}
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// OverStock lists the lines whose quantity exceeds the snapshotted stock
func (l *Ledger) OverStock() []Line {
	var out []Line
	for _, line := range l.lines {
		if line.ExceedsStock() {
			out = append(out, line)
		}
	}
	return out
}

// ToSalePayload builds the sale-creation body from the current lines.
func (l *Ledger) ToSalePayload(customerName, paymentMode string) (model.CreateSaleRequest, error) {
	if len(l.lines) == 0 {
		return model.CreateSaleRequest{}, ErrEmptyCart
	}

	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = model.WalkInCustomer
	}
	if paymentMode == "" {
		paymentMode = model.PaymentModeCash
	}
	paymentMode = strings.ToUpper(paymentMode)
	if !model.ValidPaymentMode(paymentMode) {
		return model.CreateSaleRequest{}, ErrInvalidPaymentMode
	}

	items := make([]model.SaleItemRequest, 0, len(l.lines))
	for _, line := range l.lines {
		items = append(items, model.SaleItemRequest{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	return model.CreateSaleRequest{
		CustomerName: customerName,
		PaymentMode:  paymentMode,
		Items:        items,
	}, nil
}

// Clear empties the cart after a completed checkout
func (l *Ledger) Clear() {
	l.lines = nil
}
