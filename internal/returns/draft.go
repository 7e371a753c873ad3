package returns

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

// Status of a return as seen from the till. Only DRAFT and SUBMITTED are owned locally.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
)

var ErrNotEditable = errors.New("return is no longer editable")

// Draft is a return being composed against one sale.
type Draft struct {
	Sale       model.Sale
	Candidates []Candidate
	Proposed   Proposal
	Status     Status
	Result     *model.Return
}

func NewDraft(sale model.Sale, alreadyReturned map[int64]int) *Draft {
	return &Draft{
		Sale:       sale,
		Candidates: InitReturnCandidates(sale, alreadyReturned),
		Proposed:   make(Proposal),
		Status:     StatusDraft,
	}
}

func (d *Draft) editable() bool {
	return d.Status == StatusDraft || d.Status == StatusRejected
}

// Propose records the quantity for one sale item; zero clears the selection.
func (d *Draft) Propose(saleItemID int64, quantity int) error {
	if !d.editable() {
		return ErrNotEditable
	}
	idx := -1
	for i := range d.Candidates {
		if d.Candidates[i].SaleItem.ID == saleItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownSaleItem
	}
	if err := ValidateLine(d.Candidates[idx], quantity); err != nil {
		return err
	}

	d.Candidates[idx].Proposed = quantity
	if quantity == 0 {
		delete(d.Proposed, saleItemID)
	} else {
		d.Proposed[saleItemID] = quantity
	}
	d.Status = StatusDraft
	return nil
}

func (d *Draft) Validate() error {
	return Validate(d.Candidates, d.Proposed)
}

func (d *Draft) Refund() decimal.Decimal {
	return ComputeRefund(d.Candidates, d.Proposed)
}

// Submit validates the draft, builds the payload and moves the draft to SUBMITTED.
func (d *Draft) Submit(reason, notes string) (model.CreateReturnRequest, error) {
	if !d.editable() {
		return model.CreateReturnRequest{}, ErrNotEditable
	}
	if err := d.Validate(); err != nil {
		return model.CreateReturnRequest{}, err
	}
	payload, err := BuildReturnPayload(d.Sale.ID, reason, notes, d.Candidates, d.Proposed)
	if err != nil {
		return model.CreateReturnRequest{}, err
	}
	d.Status = StatusSubmitted
	return payload, nil
}

// Accept records the backend's confirmation
func (d *Draft) Accept(ret model.Return) {
	d.Status = StatusAccepted
	d.Result = &ret
}

// Reject marks the submission failed; selections are kept for a retry.
func (d *Draft) Reject() {
	d.Status = StatusRejected
}
