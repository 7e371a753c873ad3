package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/cart"
	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/search"
)

// DTOs
type ScanRequest struct {
	Query string `json:"query" binding:"required"`
	Color string `json:"color"`
	Size  string `json:"size"`
}

type AddItemRequest struct {
	VariantID int64 `json:"variant_id" binding:"required,gt=0"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	CustomerName string `json:"customer_name"`
	PaymentMode  string `json:"payment_mode"`
}

type CartLineView struct {
	cart.Line
	LineTotal    string `json:"line_total"`
	ExceedsStock bool   `json:"exceeds_stock"`
}

type CartView struct {
	Lines     []CartLineView `json:"lines"`
	Subtotal  string         `json:"subtotal"`
	Tax       string         `json:"tax"`
	Total     string         `json:"total"`
	ItemCount int            `json:"item_count"`
	Warnings  []string       `json:"warnings,omitempty"`
}

type CheckoutResult struct {
	Sale           *model.Sale `json:"sale"`
	IdempotencyKey string      `json:"idempotency_key"`
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidVariant  = errors.New("variant is not in the catalog")
)

type CheckoutService interface {
	RefreshCatalog(ctx context.Context, sessionID string) (CatalogSummary, error)
	Search(ctx context.Context, sessionID, query, color, size string) ([]search.Suggestion, error)
	Filters(ctx context.Context, sessionID string) (search.FilterOptions, error)
	GetCart(sessionID string) (CartView, error)
	Scan(ctx context.Context, sessionID string, req ScanRequest) (CartView, error)
	AddItem(ctx context.Context, sessionID string, variantID int64) (CartView, error)
	SetQuantity(sessionID string, variantID int64, quantity int) (CartView, error)
	ClearCart(sessionID string) (CartView, error)
	Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	sessions  SessionStore
	publisher Publisher
	logger    *zap.Logger
}

func NewCheckoutService(sessions SessionStore, publisher Publisher, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		sessions:  sessions,
		publisher: publisherOrNoop(publisher),
		logger:    logger,
	}
}

func (s *checkoutService) RefreshCatalog(ctx context.Context, sessionID string) (CatalogSummary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return CatalogSummary{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, err := refreshCatalog(ctx, sess); err != nil {
		return CatalogSummary{}, err
	}
	return catalogSummary(sess), nil
}

func (s *checkoutService) Search(ctx context.Context, sessionID, query, color, size string) ([]search.Suggestion, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	return idx.Collect(query, color, size), nil
}

func (s *checkoutService) Filters(ctx context.Context, sessionID string) (search.FilterOptions, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return search.FilterOptions{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return search.FilterOptions{}, err
	}
	return idx.FilterOptions(), nil
}

func (s *checkoutService) GetCart(sessionID string) (CartView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return newCartView(sess.cart), nil
}

// Scan adds the exact barcode/name match from the snapshot, falling back to a backend barcode lookup.
func (s *checkoutService) Scan(ctx context.Context, sessionID string, req ScanRequest) (CartView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	query := strings.TrimSpace(req.Query)
	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return CartView{}, err
	}

	var variant model.Variant
	if suggestion, ok := idx.Resolve(query, req.Color, req.Size); ok {
		variant, err = search.Select(suggestion)
		if err != nil {
			scansTotal.WithLabelValues("no_variants").Inc()
			return CartView{}, fmt.Errorf("%w: %s", err, suggestion.ProductName)
		}
		scansTotal.WithLabelValues("matched").Inc()
	} else {
		hits, err := sess.Backend.Variants.List(ctx, query)
		if err != nil {
			return CartView{}, fmt.Errorf("failed to look up barcode: %w", err)
		}
		if len(hits) == 0 {
			scansTotal.WithLabelValues("not_found").Inc()
			return CartView{}, fmt.Errorf("%w: %s", ErrProductNotFound, query)
		}
		variant = hits[0]
		scansTotal.WithLabelValues("fallback").Inc()
	}

	return s.add(sess, variant), nil
}

func (s *checkoutService) AddItem(ctx context.Context, sessionID string, variantID int64) (CartView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return CartView{}, err
	}
	variant, ok := idx.Variant(variantID)
	if !ok {
		return CartView{}, fmt.Errorf("%w: %d", ErrInvalidVariant, variantID)
	}
	return s.add(sess, variant), nil
}

// add is called with sess.mu held
func (s *checkoutService) add(sess *Session, variant model.Variant) CartView {
	line := sess.cart.AddVariant(variant)
	sess.checkoutKey.Reset()
	s.logger.Debug("added to cart",
		zap.String("session_id", sess.ID),
		zap.Int64("variant_id", line.VariantID),
		zap.Int("quantity", line.Quantity),
	)
	return s.cartChanged(sess)
}

func (s *checkoutService) SetQuantity(sessionID string, variantID int64, quantity int) (CartView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.cart.SetQuantity(variantID, quantity); err != nil {
		return CartView{}, err
	}
	sess.checkoutKey.Reset()
	return s.cartChanged(sess), nil
}

func (s *checkoutService) ClearCart(sessionID string) (CartView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.Clear()
	sess.checkoutKey.Reset()
	return s.cartChanged(sess), nil
}

// Checkout submits the cart as a sale. On failure the cart and its idempotency key are kept for a retry.
func (s *checkoutService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	payload, err := sess.cart.ToSalePayload(req.CustomerName, req.PaymentMode)
	if err != nil {
		return nil, err
	}
	key := sess.checkoutKey.For(payload)

	sale, err := sess.Backend.Sales.Create(ctx, payload, key)
	if err != nil {
		checkoutsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("checkout failed",
			zap.String("session_id", sess.ID),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to complete sale: %w", err)
	}

	checkoutsTotal.WithLabelValues("success").Inc()
	salesAmountTotal.Add(sale.TotalAmount.InexactFloat64())
	s.logger.Info("sale completed",
		zap.String("session_id", sess.ID),
		zap.String("invoice_number", sale.InvoiceNumber),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)

	sess.cart.Clear()
	sess.checkoutKey.Reset()

	// stock moved on the backend; a stale snapshot only affects the advisory warnings
	if _, err := refreshCatalog(ctx, sess); err != nil {
		s.logger.Warn("catalog refresh after sale failed", zap.String("session_id", sess.ID), zap.Error(err))
	}

	s.publisher.Publish(sess.ID, EventSaleCompleted, sale)
	s.cartChanged(sess)
	return &CheckoutResult{Sale: sale, IdempotencyKey: key}, nil
}

func (s *checkoutService) cartChanged(sess *Session) CartView {
	view := newCartView(sess.cart)
	s.publisher.Publish(sess.ID, EventCartUpdated, view)
	return view
}

func newCartView(ledger *cart.Ledger) CartView {
	totals := ledger.Totals()
	lines := ledger.Lines()
	view := CartView{
		Lines:     make([]CartLineView, 0, len(lines)),
		Subtotal:  totals.Subtotal.StringFixed(2),
		Tax:       totals.Tax.StringFixed(2),
		Total:     totals.Total.StringFixed(2),
		ItemCount: totals.ItemCount,
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, CartLineView{
			Line:         l,
			LineTotal:    l.Total().StringFixed(2),
			ExceedsStock: l.ExceedsStock(),
		})
	}
	for _, l := range ledger.OverStock() {
		view.Warnings = append(view.Warnings,
			fmt.Sprintf("%s (%s/%s): %d in cart, %d in stock", l.ProductName, l.Size, l.Color, l.Quantity, l.StockQuantity))
	}
	return view
}
