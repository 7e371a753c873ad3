package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/repository"
)

func newInventory(t *testing.T, f *fakeBackend) (InventoryService, *Session) {
	t.Helper()
	store, sess := newTestSession(t, f)
	return NewInventoryService(store, testLogger()), sess
}

func variantsRequest(sizes ...SizeStock) CreateVariantsRequest {
	return CreateVariantsRequest{
		ProductID:   1,
		Color:       "Black",
		PriceRetail: dec("799.00"),
		GSTRate:     dec("5.00"),
		Sizes:       sizes,
	}
}

func TestCreateVariantsOnePerSize(t *testing.T) {
	f := seededBackend()
	svc, sess := newInventory(t, f)

	created, err := svc.CreateVariants(context.Background(), sess.ID, variantsRequest(
		SizeStock{Size: "m", StockQuantity: 3},
		SizeStock{Size: "L", StockQuantity: 1},
		SizeStock{Size: "free size", StockQuantity: 0, Barcode: "ABHA123456"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(created))
	}

	wantSizes := []string{"M", "L", "Free Size"}
	seen := map[string]bool{}
	for i, v := range created {
		if v.Size != wantSizes[i] {
			t.Errorf("expected size %q, got %q", wantSizes[i], v.Size)
		}
		if !strings.HasPrefix(v.Barcode, "ABHA") || len(v.Barcode) != 10 {
			t.Errorf("unexpected barcode %q", v.Barcode)
		}
		if seen[v.Barcode] {
			t.Errorf("barcode %q issued twice", v.Barcode)
		}
		seen[v.Barcode] = true
	}
	if created[2].Barcode != "ABHA123456" {
		t.Errorf("explicit barcode replaced: %q", created[2].Barcode)
	}
}

func TestCreateVariantsRejectsBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateVariantsRequest
		wantErr error
	}{
		{"barcode taken", variantsRequest(SizeStock{Size: "M", Barcode: "ABHA000011"}), ErrDuplicateBarcode},
		{"barcode repeated in batch", variantsRequest(SizeStock{Size: "M", Barcode: "X1"}, SizeStock{Size: "L", Barcode: "X1"}), ErrDuplicateBarcode},
		{"size repeated", variantsRequest(SizeStock{Size: "M"}, SizeStock{Size: "m"}), ErrDuplicateSize},
		{"negative stock", variantsRequest(SizeStock{Size: "M", StockQuantity: -1}), ErrInvalidVariantData},
		{"negative price", CreateVariantsRequest{ProductID: 1, Color: "Red", PriceRetail: dec("-1"), Sizes: []SizeStock{{Size: "M"}}}, ErrInvalidVariantData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := seededBackend()
			svc, sess := newInventory(t, f)

			_, err := svc.CreateVariants(context.Background(), sess.ID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if f.variantCreates != 0 {
				t.Errorf("expected no backend writes, got %d", f.variantCreates)
			}
		})
	}
}

func TestCreateVariantsRollsBackOnFailure(t *testing.T) {
	f := seededBackend()
	f.failVariantAt = 2
	svc, sess := newInventory(t, f)

	_, err := svc.CreateVariants(context.Background(), sess.ID, variantsRequest(
		SizeStock{Size: "S", StockQuantity: 1},
		SizeStock{Size: "M", StockQuantity: 1},
		SizeStock{Size: "L", StockQuantity: 1},
	))

	var apiErr *repository.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(f.deleted) != 1 {
		t.Errorf("expected the first variant to be deleted, got %v", f.deleted)
	}
	if len(f.variants) != 3 {
		t.Errorf("catalog should be back to its original 3 variants, got %d", len(f.variants))
	}
}

func TestCreateProductReusesExisting(t *testing.T) {
	f := seededBackend()
	f.productErr = &repository.APIError{StatusCode: 400, Message: "name: product with this name already exists."}
	svc, sess := newInventory(t, f)

	res, err := svc.CreateProduct(context.Background(), sess.ID, model.ProductRequest{Name: " silk saree ", CategoryID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Existed || res.Product.ID != 1 {
		t.Errorf("expected existing product 1, got %+v", res)
	}
}

func TestCreateProduct(t *testing.T) {
	f := seededBackend()
	svc, sess := newInventory(t, f)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, sess.ID, model.ProductRequest{Name: "  "}); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got %v", err)
	}

	res, err := svc.CreateProduct(ctx, sess.ID, model.ProductRequest{Name: "Linen Kurta", CategoryID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Existed || res.Product.Name != "Linen Kurta" {
		t.Errorf("unexpected result %+v", res)
	}

	f.productErr = &repository.APIError{StatusCode: 400, Message: "category: invalid pk"}
	if _, err := svc.CreateProduct(ctx, sess.ID, model.ProductRequest{Name: "Silk Saree", CategoryID: 1}); err == nil {
		t.Error("errors other than a duplicate name must surface")
	}
}

func TestListVariantsFilter(t *testing.T) {
	svc, sess := newInventory(t, seededBackend())

	got, err := svc.ListVariants(context.Background(), sess.ID, "GREEN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 13 {
		t.Errorf("unexpected variants %+v", got)
	}

	all, _ := svc.ListVariants(context.Background(), sess.ID, "")
	if len(all) != 3 {
		t.Errorf("expected all 3 variants, got %d", len(all))
	}
}

func TestProductSuggestions(t *testing.T) {
	svc, sess := newInventory(t, seededBackend())

	got, err := svc.ProductSuggestions(context.Background(), sess.ID, "SAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Silk Saree" {
		t.Errorf("unexpected suggestions %+v", got)
	}

	empty, _ := svc.ProductSuggestions(context.Background(), sess.ID, "")
	if len(empty) != 0 {
		t.Errorf("empty query must not suggest, got %+v", empty)
	}
}

func TestUpdateVariantBarcodeUniqueness(t *testing.T) {
	svc, sess := newInventory(t, seededBackend())
	ctx := context.Background()

	req := model.VariantRequest{ProductID: 1, Size: "M", Color: "Green", Barcode: "ABHA000011", PriceRetail: dec("500"), GSTRate: dec("12"), StockQuantity: 9}
	if _, err := svc.UpdateVariant(ctx, sess.ID, 13, req); !errors.Is(err, ErrDuplicateBarcode) {
		t.Errorf("expected ErrDuplicateBarcode, got %v", err)
	}

	req.Barcode = "ABHA000013"
	v, err := svc.UpdateVariant(ctx, sess.ID, 13, req)
	if err != nil {
		t.Fatalf("keeping its own barcode must succeed: %v", err)
	}
	if v.StockQuantity != 9 {
		t.Errorf("expected stock 9, got %d", v.StockQuantity)
	}

	req.StockQuantity = -2
	if _, err := svc.UpdateVariant(ctx, sess.ID, 13, req); !errors.Is(err, ErrInvalidVariantData) {
		t.Errorf("expected ErrInvalidVariantData, got %v", err)
	}
}

func TestGenerateBarcode(t *testing.T) {
	svc, sess := newInventory(t, seededBackend())

	code, err := svc.GenerateBarcode(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(code, "ABHA") || len(code) != 10 {
		t.Errorf("unexpected barcode %q", code)
	}
}

func TestCategories(t *testing.T) {
	svc, sess := newInventory(t, seededBackend())
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, sess.ID, model.CategoryRequest{Name: " "}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, sess.ID, model.CategoryRequest{Name: "Kurtis"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := svc.ListCategories(ctx, sess.ID)
	if len(list) != 2 {
		t.Errorf("expected 2 categories, got %d", len(list))
	}
}
