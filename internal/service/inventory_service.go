package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/repository"
	"github.com/sumanshinde/cloth-pos/internal/search"
)

// DTOs
type SizeStock struct {
	Size          string `json:"size" binding:"required"`
	StockQuantity int    `json:"stock_quantity"`
	Barcode       string `json:"barcode"`
}

// CreateVariantsRequest adds one variant per size for a product/color pair
type CreateVariantsRequest struct {
	ProductID   int64           `json:"product" binding:"required,gt=0"`
	Color       string          `json:"color" binding:"required"`
	PriceRetail decimal.Decimal `json:"price_retail"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Sizes       []SizeStock     `json:"sizes" binding:"required,min=1,dive"`
}

type CreateProductResult struct {
	Product *model.Product `json:"product"`
	Existed bool           `json:"existed"`
}

const (
	barcodePrefix   = "ABHA"
	suggestionLimit = 10
	barcodeAttempts = 100
)

var (
	ErrInvalidVariantData = errors.New("price, tax rate and stock must not be negative")
	ErrDuplicateBarcode   = errors.New("barcode is already assigned to another variant")
	ErrDuplicateSize      = errors.New("size listed more than once")
	ErrInvalidProduct     = errors.New("product name and category are required")
	ErrInvalidCategory    = errors.New("category name is required")
)

type InventoryService interface {
	ListVariants(ctx context.Context, sessionID, filter string) ([]model.Variant, error)
	ProductSuggestions(ctx context.Context, sessionID, query string) ([]model.Product, error)
	CreateProduct(ctx context.Context, sessionID string, req model.ProductRequest) (*CreateProductResult, error)
	CreateVariants(ctx context.Context, sessionID string, req CreateVariantsRequest) ([]model.Variant, error)
	UpdateVariant(ctx context.Context, sessionID string, id int64, req model.VariantRequest) (*model.Variant, error)
	DeleteVariant(ctx context.Context, sessionID string, id int64) error
	ListCategories(ctx context.Context, sessionID string) ([]model.Category, error)
	CreateCategory(ctx context.Context, sessionID string, req model.CategoryRequest) (*model.Category, error)
	GenerateBarcode(ctx context.Context, sessionID string) (string, error)
}

type inventoryService struct {
	sessions SessionStore
	logger   *zap.Logger
}

func NewInventoryService(sessions SessionStore, logger *zap.Logger) InventoryService {
	return &inventoryService{sessions: sessions, logger: logger}
}

// ListVariants returns the live variant list, filtered on product name, size, color or barcode.
func (s *inventoryService) ListVariants(ctx context.Context, sessionID, filter string) ([]model.Variant, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	variants, err := sess.Backend.Variants.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return variants, nil
	}
	out := make([]model.Variant, 0, len(variants))
	for _, v := range variants {
		for _, field := range []string{v.ProductName, v.Size, v.Color, v.Barcode} {
			if strings.Contains(strings.ToLower(field), filter) {
				out = append(out, v)
				break
			}
		}
	}
	return out, nil
}

func (s *inventoryService) ProductSuggestions(ctx context.Context, sessionID, query string) ([]model.Product, error) {
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

	query = strings.ToLower(strings.TrimSpace(query))
	out := []model.Product{}
	if query == "" {
		return out, nil
	}
	for _, p := range idx.Products() {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
			if len(out) == suggestionLimit {
				break
			}
		}
	}
	return out, nil
}

// CreateProduct creates a product; when the backend refuses a duplicate name the existing product is returned instead.
func (s *inventoryService) CreateProduct(ctx context.Context, sessionID string, req model.ProductRequest) (*CreateProductResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.CategoryID <= 0 {
		return nil, ErrInvalidProduct
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	product, err := sess.Backend.Products.Create(ctx, req)
	if err == nil {
		s.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
		s.invalidateCatalog(ctx, sess)
		return &CreateProductResult{Product: product}, nil
	}

	var apiErr *repository.APIError
	if !errors.As(err, &apiErr) || !strings.Contains(strings.ToLower(apiErr.Message), "already exists") {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	candidates, lookupErr := sess.Backend.Products.List(ctx, req.Name)
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	for i := range candidates {
		if strings.EqualFold(candidates[i].Name, req.Name) {
			s.logger.Info("product already exists, reusing it", zap.Int64("product_id", candidates[i].ID))
			return &CreateProductResult{Product: &candidates[i], Existed: true}, nil
		}
	}
	return nil, fmt.Errorf("failed to create product: %w", err)
}

// CreateVariants creates one variant per requested size. If any creation fails the ones already created are deleted.
func (s *inventoryService) CreateVariants(ctx context.Context, sessionID string, req CreateVariantsRequest) ([]model.Variant, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if req.PriceRetail.IsNegative() || req.GSTRate.IsNegative() {
		return nil, ErrInvalidVariantData
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return nil, err
	}

	reserved := map[string]bool{}
	seenSizes := map[string]bool{}
	requests := make([]model.VariantRequest, 0, len(req.Sizes))
	for _, entry := range req.Sizes {
		size := canonicalSize(entry.Size)
		if size == "" {
			return nil, fmt.Errorf("%w: size is required", ErrInvalidVariantData)
		}
		if seenSizes[strings.ToLower(size)] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSize, size)
		}
		seenSizes[strings.ToLower(size)] = true
		if entry.StockQuantity < 0 {
			return nil, ErrInvalidVariantData
		}

		barcode := strings.TrimSpace(entry.Barcode)
		if barcode == "" {
			barcode, err = uniqueBarcode(idx, reserved)
			if err != nil {
				return nil, err
			}
		} else if idx.BarcodeTaken(barcode, 0) || reserved[barcode] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBarcode, barcode)
		}
		reserved[barcode] = true

		requests = append(requests, model.VariantRequest{
			ProductID:     req.ProductID,
			Size:          size,
			Color:         strings.TrimSpace(req.Color),
			Barcode:       barcode,
			PriceRetail:   req.PriceRetail,
			GSTRate:       req.GSTRate,
			StockQuantity: entry.StockQuantity,
		})
	}

	created := make([]model.Variant, 0, len(requests))
	err = repository.RunBatch(ctx, func(ctx context.Context, b *repository.Batch) error {
		for _, vr := range requests {
			v, err := sess.Backend.Variants.Create(ctx, vr)
			if err != nil {
				return fmt.Errorf("failed to create size %s: %w", vr.Size, err)
			}
			created = append(created, *v)
			id := v.ID
			b.OnRollback(func(ctx context.Context) error {
				return sess.Backend.Variants.Delete(ctx, id)
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("variant batch failed and was rolled back",
			zap.Int64("product_id", req.ProductID),
			zap.Int("created_before_failure", len(created)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("variants created", zap.Int64("product_id", req.ProductID), zap.Int("count", len(created)))
	s.invalidateCatalog(ctx, sess)
	return created, nil
}

func (s *inventoryService) UpdateVariant(ctx context.Context, sessionID string, id int64, req model.VariantRequest) (*model.Variant, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := validateVariantRequest(req); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	if req.Barcode != "" && idx.BarcodeTaken(req.Barcode, id) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBarcode, req.Barcode)
	}

	variant, err := sess.Backend.Variants.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}
	s.logger.Info("variant updated", zap.Int64("variant_id", id))
	s.invalidateCatalog(ctx, sess)
	return variant, nil
}

func (s *inventoryService) DeleteVariant(ctx context.Context, sessionID string, id int64) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Backend.Variants.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}
	s.logger.Info("variant deleted", zap.Int64("variant_id", id))
	s.invalidateCatalog(ctx, sess)
	return nil
}

func (s *inventoryService) ListCategories(ctx context.Context, sessionID string) ([]model.Category, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	categories, err := sess.Backend.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

func (s *inventoryService) CreateCategory(ctx context.Context, sessionID string, req model.CategoryRequest) (*model.Category, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrInvalidCategory
	}
	category, err := sess.Backend.Categories.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// GenerateBarcode returns an ABHA-prefixed code not present in the session snapshot
func (s *inventoryService) GenerateBarcode(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := ensureCatalog(ctx, sess)
	if err != nil {
		return "", err
	}
	return uniqueBarcode(idx, nil)
}

// invalidateCatalog reloads the snapshot after a write. Caller holds sess.mu.
func (s *inventoryService) invalidateCatalog(ctx context.Context, sess *Session) {
	if _, err := refreshCatalog(ctx, sess); err != nil {
		sess.catalog = nil
		s.logger.Warn("catalog refresh after inventory change failed", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func validateVariantRequest(req model.VariantRequest) error {
	if req.PriceRetail.IsNegative() || req.GSTRate.IsNegative() || req.StockQuantity < 0 {
		return ErrInvalidVariantData
	}
	if req.ProductID <= 0 || strings.TrimSpace(req.Size) == "" {
		return fmt.Errorf("%w: product and size are required", ErrInvalidVariantData)
	}
	return nil
}

func uniqueBarcode(idx *search.Index, reserved map[string]bool) (string, error) {
	limit := big.NewInt(1_000_000)
	for range barcodeAttempts {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate barcode: %w", err)
		}
		code := fmt.Sprintf("%s%06d", barcodePrefix, n.Int64())
		if !idx.BarcodeTaken(code, 0) && !reserved[code] {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique barcode")
}

// canonicalSize maps "xl" to "XL" and "free size" to "Free Size"; other sizes pass through trimmed.
func canonicalSize(size string) string {
	size = strings.TrimSpace(size)
	if i := slices.IndexFunc(model.StandardSizes, func(s string) bool { return strings.EqualFold(s, size) }); i >= 0 {
		return model.StandardSizes[i]
	}
	return size
}
