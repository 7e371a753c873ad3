package returns

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

func sale() model.Sale {
	return model.Sale{
		ID:            42,
		InvoiceNumber: "INV-1A2B3C4D",
		Items: []model.SaleItem{
			{ID: 1, VariantID: 10, VariantName: "Silk Saree", Quantity: 4, UnitPrice: decimal.NewFromInt(500), GSTRate: decimal.NewFromInt(5)},
			{ID: 2, VariantID: 20, VariantName: "Cotton Kurti", Quantity: 2, UnitPrice: decimal.RequireFromString("899.50"), GSTRate: decimal.NewFromInt(12)},
		},
	}
}

func TestInitReturnCandidates(t *testing.T) {
	candidates := InitReturnCandidates(sale(), map[int64]int{1: 1, 2: 5})

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Proposed != 0 || candidates[0].MaxReturnable != 3 {
		t.Errorf("unexpected first candidate %+v", candidates[0])
	}
	if candidates[1].MaxReturnable != 0 {
		t.Errorf("over-returned line must clamp to 0, got %d", candidates[1].MaxReturnable)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		returned map[int64]int
		proposed Proposal
		wantErr  error
	}{
		{name: "nothing selected", proposed: Proposal{1: 0, 2: 0}, wantErr: ErrNoItemsSelected},
		{name: "empty proposal", proposed: Proposal{}, wantErr: ErrNoItemsSelected},
		{name: "exceeds sold", proposed: Proposal{2: 3}, wantErr: ErrExceedsSoldQuantity},
		{name: "exceeds remaining", returned: map[int64]int{1: 1}, proposed: Proposal{1: 4}, wantErr: ErrExceedsSoldQuantity},
		{name: "negative", proposed: Proposal{1: -1, 2: 1}, wantErr: ErrInvalidQuantity},
		{name: "unknown item", proposed: Proposal{99: 1}, wantErr: ErrUnknownSaleItem},
		{name: "valid partial", returned: map[int64]int{1: 1}, proposed: Proposal{1: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := InitReturnCandidates(sale(), tt.returned)
			err := Validate(candidates, tt.proposed)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestComputeRefundUsesSalePrice(t *testing.T) {
	candidates := InitReturnCandidates(sale(), map[int64]int{1: 1})
	proposed := Proposal{1: 3}

	if err := Validate(candidates, proposed); err != nil {
		t.Fatal(err)
	}
	refund := ComputeRefund(candidates, proposed)
	if refund.StringFixed(2) != "1575.00" {
		t.Errorf("expected 1575.00, got %s", refund.StringFixed(2))
	}
}

func TestComputeRefundMultipleLines(t *testing.T) {
	candidates := InitReturnCandidates(sale(), nil)
	refund := ComputeRefund(candidates, Proposal{1: 1, 2: 1})
	// 500*1.05 + 899.50*1.12
	if refund.StringFixed(2) != "1532.44" {
		t.Errorf("expected 1532.44, got %s", refund.StringFixed(2))
	}
}

func TestBuildReturnPayload(t *testing.T) {
	candidates := InitReturnCandidates(sale(), nil)

	payload, err := BuildReturnPayload(42, "wrong_size", "too small", candidates, Proposal{1: 0, 2: 1})
	if err != nil {
		t.Fatal(err)
	}
	if payload.OriginalSaleID != 42 || payload.Reason != model.ReturnReasonWrongSize || payload.Notes != "too small" {
		t.Errorf("unexpected header %+v", payload)
	}
	if len(payload.Items) != 1 || payload.Items[0].SaleItemID != 2 || payload.Items[0].Quantity != 1 {
		t.Errorf("zero-quantity lines must be omitted, got %+v", payload.Items)
	}

	if _, err := BuildReturnPayload(42, "BORED", "", candidates, Proposal{2: 1}); !errors.Is(err, ErrInvalidReason) {
		t.Errorf("expected ErrInvalidReason, got %v", err)
	}
}

func TestDraftLifecycle(t *testing.T) {
	d := NewDraft(sale(), map[int64]int{1: 1})
	if d.Status != StatusDraft {
		t.Fatalf("expected DRAFT, got %s", d.Status)
	}

	if err := d.Propose(1, 4); !errors.Is(err, ErrExceedsSoldQuantity) {
		t.Fatalf("expected ErrExceedsSoldQuantity, got %v", err)
	}
	if _, err := d.Submit(model.ReturnReasonDefect, ""); !errors.Is(err, ErrNoItemsSelected) {
		t.Fatalf("expected ErrNoItemsSelected, got %v", err)
	}

	if err := d.Propose(1, 3); err != nil {
		t.Fatal(err)
	}
	if d.Refund().StringFixed(2) != "1575.00" {
		t.Errorf("unexpected refund %s", d.Refund().StringFixed(2))
	}

	payload, err := d.Submit(model.ReturnReasonDefect, "torn")
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != StatusSubmitted || len(payload.Items) != 1 {
		t.Fatalf("unexpected state %s / %+v", d.Status, payload)
	}
	if err := d.Propose(1, 1); !errors.Is(err, ErrNotEditable) {
		t.Errorf("submitted draft must not be editable, got %v", err)
	}

	d.Reject()
	if d.Proposed[1] != 3 {
		t.Errorf("rejection must keep selections")
	}
	if _, err := d.Submit(model.ReturnReasonDefect, "torn"); err != nil {
		t.Fatalf("retry after rejection failed: %v", err)
	}

	d.Accept(model.Return{ID: 5, ReturnNumber: "RET-0001"})
	if d.Status != StatusAccepted || d.Result.ReturnNumber != "RET-0001" {
		t.Errorf("unexpected accepted state %+v", d)
	}
	if _, err := d.Submit(model.ReturnReasonDefect, ""); !errors.Is(err, ErrNotEditable) {
		t.Errorf("accepted draft must not resubmit, got %v", err)
	}
}

func TestDraftProposeZeroClears(t *testing.T) {
	d := NewDraft(sale(), nil)
	_ = d.Propose(2, 2)
	_ = d.Propose(2, 0)
	if _, ok := d.Proposed[2]; ok {
		t.Error("zero proposal must clear the selection")
	}
	if err := d.Propose(7, 1); !errors.Is(err, ErrUnknownSaleItem) {
		t.Errorf("expected ErrUnknownSaleItem, got %v", err)
	}
}
