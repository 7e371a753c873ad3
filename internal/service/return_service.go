package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/returns"
)

// DTOs
type StartReturnRequest struct {
	SaleID int64 `json:"sale_id" binding:"required,gt=0"`
}

type ProposeReturnRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type SubmitReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

type DraftView struct {
	SaleID        int64               `json:"sale_id"`
	InvoiceNumber string              `json:"invoice_number"`
	CustomerName  string              `json:"customer_name"`
	Status        returns.Status      `json:"status"`
	Candidates    []returns.Candidate `json:"candidates"`
	Refund        string              `json:"refund"`
	Result        *model.Return       `json:"result,omitempty"`
}

var ErrNoDraft = errors.New("no return in progress")

type ReturnService interface {
	StartDraft(ctx context.Context, sessionID string, saleID int64) (*DraftView, error)
	GetDraft(sessionID string) (*DraftView, error)
	ProposeItem(sessionID string, saleItemID int64, quantity int) (*DraftView, error)
	Submit(ctx context.Context, sessionID string, req SubmitReturnRequest) (*DraftView, error)
	Discard(sessionID string) error
}

type returnService struct {
	sessions  SessionStore
	publisher Publisher
	logger    *zap.Logger
}

func NewReturnService(sessions SessionStore, publisher Publisher, logger *zap.Logger) ReturnService {
	return &returnService{
		sessions:  sessions,
		publisher: publisherOrNoop(publisher),
		logger:    logger,
	}
}

// StartDraft opens a return against a sale, replacing any draft in progress.
// Quantities returned earlier are subtracted from what may still be returned.
func (s *returnService) StartDraft(ctx context.Context, sessionID string, saleID int64) (*DraftView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sale, err := sess.Backend.Sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	previous, err := sess.Backend.Returns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous returns: %w", err)
	}

	// sale lines carry no tax rate; the refund uses the variant's current rate
	if idx, err := ensureCatalog(ctx, sess); err == nil {
		for i := range sale.Items {
			item := &sale.Items[i]
			if !item.GSTRate.IsZero() {
				continue
			}
			if v, ok := idx.Variant(item.VariantID); ok {
				item.GSTRate = v.GSTRate
			}
		}
	} else {
		s.logger.Warn("catalog unavailable, refunding without tax", zap.Int64("sale_id", saleID), zap.Error(err))
	}

	sess.draft = returns.NewDraft(*sale, model.ReturnedQuantities(sale.ID, previous))
	sess.returnKey.Reset()
	s.logger.Info("return started", zap.String("session_id", sess.ID), zap.String("invoice_number", sale.InvoiceNumber))
	return newDraftView(sess.draft), nil
}

func (s *returnService) GetDraft(sessionID string) (*DraftView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.draft == nil {
		return nil, ErrNoDraft
	}
	return newDraftView(sess.draft), nil
}

func (s *returnService) ProposeItem(sessionID string, saleItemID int64, quantity int) (*DraftView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.draft == nil {
		return nil, ErrNoDraft
	}
	if err := sess.draft.Propose(saleItemID, quantity); err != nil {
		return nil, err
	}
	sess.returnKey.Reset()
	return newDraftView(sess.draft), nil
}

// Submit sends the draft to the backend. A failed submission leaves the draft REJECTED with its
// selections intact; retrying the same payload reuses the idempotency key.
func (s *returnService) Submit(ctx context.Context, sessionID string, req SubmitReturnRequest) (*DraftView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	draft := sess.draft
	if draft == nil {
		return nil, ErrNoDraft
	}

	payload, err := draft.Submit(req.Reason, req.Notes)
	if err != nil {
		return nil, err
	}
	key := sess.returnKey.For(payload)

	ret, err := sess.Backend.Returns.Create(ctx, payload, key)
	if err != nil {
		draft.Reject()
		returnsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("return submission failed",
			zap.String("session_id", sess.ID),
			zap.Int64("sale_id", payload.OriginalSaleID),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to submit return: %w", err)
	}

	draft.Accept(*ret)
	sess.returnKey.Reset()
	returnsTotal.WithLabelValues("success").Inc()
	s.logger.Info("return completed",
		zap.String("session_id", sess.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("refund", ret.RefundAmount.StringFixed(2)),
	)

	if _, err := refreshCatalog(ctx, sess); err != nil {
		s.logger.Warn("catalog refresh after return failed", zap.String("session_id", sess.ID), zap.Error(err))
	}
	s.publisher.Publish(sess.ID, EventReturnCompleted, ret)
	return newDraftView(draft), nil
}

func (s *returnService) Discard(sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.draft == nil {
		return ErrNoDraft
	}
	sess.draft = nil
	sess.returnKey.Reset()
	return nil
}

func newDraftView(d *returns.Draft) *DraftView {
	candidates := make([]returns.Candidate, len(d.Candidates))
	copy(candidates, d.Candidates)
	return &DraftView{
		SaleID:        d.Sale.ID,
		InvoiceNumber: d.Sale.InvoiceNumber,
		CustomerName:  d.Sale.CustomerName,
		Status:        d.Status,
		Candidates:    candidates,
		Refund:        d.Refund().StringFixed(2),
		Result:        d.Result,
	}
}
