package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/repository"
)

var errBackendDown = errors.New("connection refused")

type fakeBackend struct {
	categories []model.Category
	products   []model.Product
	variants   []model.Variant
	sales      []model.Sale
	returns    []model.Return
	analytics  model.Analytics

	nextID int64

	saleErr        error
	returnErr      error
	productErr     error
	failVariantAt  int // 1-based create call that fails; 0 never
	variantCreates int

	saleKeys      []string
	returnKeys    []string
	salePayloads  []model.CreateSaleRequest
	deleted       []int64
	lastPeriod    repository.Period
	variantSearch []string
}

func (f *fakeBackend) id() int64 {
	f.nextID++
	return 1000 + f.nextID
}

func (f *fakeBackend) backend() *repository.Backend {
	return &repository.Backend{
		Categories: fakeCategories{f},
		Products:   fakeProducts{f},
		Variants:   fakeVariants{f},
		Sales:      fakeSales{f},
		Returns:    fakeReturns{f},
		Analytics:  fakeAnalytics{f},
	}
}

type fakeCategories struct{ f *fakeBackend }

func (r fakeCategories) List(ctx context.Context) ([]model.Category, error) {
	return r.f.categories, nil
}

func (r fakeCategories) Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	c := model.Category{ID: r.f.id(), Name: req.Name}
	r.f.categories = append(r.f.categories, c)
	return &c, nil
}

type fakeProducts struct{ f *fakeBackend }

func (r fakeProducts) List(ctx context.Context, search string) ([]model.Product, error) {
	if search == "" {
		return r.f.products, nil
	}
	var out []model.Product
	for _, p := range r.f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeProducts) Create(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	if r.f.productErr != nil {
		return nil, r.f.productErr
	}
	p := model.Product{ID: r.f.id(), Name: req.Name, CategoryID: req.CategoryID}
	r.f.products = append(r.f.products, p)
	return &p, nil
}

type fakeVariants struct{ f *fakeBackend }

func (r fakeVariants) List(ctx context.Context, search string) ([]model.Variant, error) {
	if search == "" {
		return r.f.variants, nil
	}
	r.f.variantSearch = append(r.f.variantSearch, search)
	var out []model.Variant
	for _, v := range r.f.variants {
		if strings.Contains(v.Barcode, search) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r fakeVariants) Create(ctx context.Context, req model.VariantRequest) (*model.Variant, error) {
	r.f.variantCreates++
	if r.f.failVariantAt == r.f.variantCreates {
		return nil, &repository.APIError{StatusCode: 400, Message: "barcode: variant with this barcode already exists."}
	}
	v := model.Variant{
		ID:            r.f.id(),
		ProductID:     req.ProductID,
		Size:          req.Size,
		Color:         req.Color,
		Barcode:       req.Barcode,
		PriceRetail:   req.PriceRetail,
		GSTRate:       req.GSTRate,
		StockQuantity: req.StockQuantity,
	}
	r.f.variants = append(r.f.variants, v)
	return &v, nil
}

func (r fakeVariants) Update(ctx context.Context, id int64, req model.VariantRequest) (*model.Variant, error) {
	for i := range r.f.variants {
		if r.f.variants[i].ID == id {
			r.f.variants[i].Size = req.Size
			r.f.variants[i].Barcode = req.Barcode
			r.f.variants[i].StockQuantity = req.StockQuantity
			v := r.f.variants[i]
			return &v, nil
		}
	}
	return nil, &repository.APIError{StatusCode: 404, Message: "Not found."}
}

func (r fakeVariants) Delete(ctx context.Context, id int64) error {
	r.f.deleted = append(r.f.deleted, id)
	for i := range r.f.variants {
		if r.f.variants[i].ID == id {
			r.f.variants = append(r.f.variants[:i], r.f.variants[i+1:]...)
			return nil
		}
	}
	return &repository.APIError{StatusCode: 404, Message: "Not found."}
}

type fakeSales struct{ f *fakeBackend }

func (r fakeSales) Create(ctx context.Context, req model.CreateSaleRequest, key string) (*model.Sale, error) {
	r.f.saleKeys = append(r.f.saleKeys, key)
	r.f.salePayloads = append(r.f.salePayloads, req)
	if r.f.saleErr != nil {
		return nil, r.f.saleErr
	}
	total := decimal.Zero
	for _, it := range req.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s := model.Sale{
		ID:            r.f.id(),
		InvoiceNumber: "INV-0000TEST",
		CustomerName:  req.CustomerName,
		PaymentMode:   req.PaymentMode,
		TotalAmount:   total,
		CreatedAt:     time.Now(),
	}
	r.f.sales = append(r.f.sales, s)
	return &s, nil
}

func (r fakeSales) FindByID(ctx context.Context, id int64) (*model.Sale, error) {
	for _, s := range r.f.sales {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, &repository.APIError{StatusCode: 404, Message: "Not found."}
}

func (r fakeSales) List(ctx context.Context) ([]model.Sale, error) {
	return r.f.sales, nil
}

type fakeReturns struct{ f *fakeBackend }

func (r fakeReturns) Create(ctx context.Context, req model.CreateReturnRequest, key string) (*model.Return, error) {
	r.f.returnKeys = append(r.f.returnKeys, key)
	if r.f.returnErr != nil {
		return nil, r.f.returnErr
	}
	ret := model.Return{ID: r.f.id(), ReturnNumber: "RET-0000TEST", OriginalSaleID: req.OriginalSaleID, Reason: req.Reason}
	for _, it := range req.Items {
		ret.Items = append(ret.Items, model.ReturnItem{SaleItemID: it.SaleItemID, Quantity: it.Quantity})
	}
	r.f.returns = append(r.f.returns, ret)
	return &ret, nil
}

func (r fakeReturns) List(ctx context.Context) ([]model.Return, error) {
	return r.f.returns, nil
}

type fakeAnalytics struct{ f *fakeBackend }

func (r fakeAnalytics) Get(ctx context.Context, period repository.Period) (*model.Analytics, error) {
	r.f.lastPeriod = period
	a := r.f.analytics
	a.Summary.PeriodDays = period.Days
	return &a, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(sessionID, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == event {
			n++
		}
	}
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seededBackend holds one stocked saree in three sizes and one product without variants
func seededBackend() *fakeBackend {
	return &fakeBackend{
		categories: []model.Category{{ID: 1, Name: "Sarees", Slug: "sarees"}},
		products: []model.Product{
			{ID: 1, Name: "Silk Saree", CategoryID: 1},
			{ID: 2, Name: "Cotton Dupatta", CategoryID: 1},
		},
		variants: []model.Variant{
			{ID: 11, ProductID: 1, Size: "Free Size", Color: "Red", Barcode: "ABHA000011", PriceRetail: dec("1000.00"), GSTRate: dec("5.00"), StockQuantity: 2},
			{ID: 12, ProductID: 1, Size: "Free Size", Color: "Blue", Barcode: "ABHA000012", PriceRetail: dec("1200.00"), GSTRate: dec("5.00"), StockQuantity: 0},
			{ID: 13, ProductID: 1, Size: "M", Color: "Green", Barcode: "ABHA000013", PriceRetail: dec("500.00"), GSTRate: dec("12.00"), StockQuantity: 4},
		},
	}
}

func newTestSession(t *testing.T, f *fakeBackend) (SessionStore, *Session) {
	t.Helper()
	store := NewSessionStore(time.Hour)
	sess := store.Create("cashier", f.backend())
	return store, sess
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
