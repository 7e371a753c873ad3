// Package returns validates and prices a customer return against the original sale.
package returns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

var (
	ErrNoItemsSelected     = errors.New("select at least one item to return")
	ErrExceedsSoldQuantity = errors.New("return quantity exceeds the quantity still returnable")
	ErrInvalidQuantity     = errors.New("return quantity must not be negative")
	ErrInvalidReason       = errors.New("unrecognized return reason")
	ErrUnknownSaleItem     = errors.New("item does not belong to this sale")
)

var hundred = decimal.NewFromInt(100)

// Candidate is one sale line offered for return.
type Candidate struct {
	SaleItem      model.SaleItem `json:"sale_item"`
	Proposed      int            `json:"proposed"`
	MaxReturnable int            `json:"max_returnable"`
}

// Proposal maps sale item id to the quantity the customer is returning
type Proposal map[int64]int

// InitReturnCandidates lists every sale line with a proposed quantity of 0.
// alreadyReturned holds the quantities recorded by earlier returns, keyed by sale item id.
func InitReturnCandidates(sale model.Sale, alreadyReturned map[int64]int) []Candidate {
	out := make([]Candidate, 0, len(sale.Items))
	for _, item := range sale.Items {
		remaining := item.Quantity - alreadyReturned[item.ID]
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, Candidate{SaleItem: item, MaxReturnable: remaining})
	}
	return out
}

func find(candidates []Candidate, saleItemID int64) (Candidate, bool) {
	for _, c := range candidates {
		if c.SaleItem.ID == saleItemID {
			return c, true
		}
	}
	return Candidate{}, false
}

// ValidateLine checks a single proposed quantity against its candidate
func ValidateLine(c Candidate, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, c.SaleItem.VariantName)
	}
	if quantity > c.MaxReturnable {
		return fmt.Errorf("%w: %s (requested %d, returnable %d)",
			ErrExceedsSoldQuantity, c.SaleItem.VariantName, quantity, c.MaxReturnable)
	}
	return nil
}

// Validate rejects negative or over-limit lines, then an all-zero selection.
func Validate(candidates []Candidate, proposed Proposal) error {
	for id := range proposed {
		if _, ok := find(candidates, id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownSaleItem, id)
		}
	}

	selected := 0
	for _, c := range candidates {
		qty := proposed[c.SaleItem.ID]
		if err := ValidateLine(c, qty); err != nil {
			return err
		}
		if qty > 0 {
			selected++
		}
	}
	if selected == 0 {
		return ErrNoItemsSelected
	}
	return nil
}

// ComputeRefund prices the selected lines with the sale's own unit price and tax rate.
func ComputeRefund(candidates []Candidate, proposed Proposal) decimal.Decimal {
	refund := decimal.Zero
	for _, c := range candidates {
		qty := proposed[c.SaleItem.ID]
		if qty <= 0 {
			continue
		}
		base := c.SaleItem.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		refund = refund.Add(base.Add(base.Mul(c.SaleItem.GSTRate).Div(hundred)))
	}
	return refund
}

// BuildReturnPayload emits the backend body, keeping only lines with a positive quantity in sale order.
func BuildReturnPayload(saleID int64, reason, notes string, candidates []Candidate, proposed Proposal) (model.CreateReturnRequest, error) {
	reason = strings.ToUpper(strings.TrimSpace(reason))
	if !model.ValidReturnReason(reason) {
		return model.CreateReturnRequest{}, fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}

	items := make([]model.ReturnItemRequest, 0, len(proposed))
	for _, c := range candidates {
		if qty := proposed[c.SaleItem.ID]; qty > 0 {
			items = append(items, model.ReturnItemRequest{SaleItemID: c.SaleItem.ID, Quantity: qty})
		}
	}

	return model.CreateReturnRequest{
		OriginalSaleID: saleID,
		Reason:         reason,
		Notes:          notes,
		Items:          items,
	}, nil
}
