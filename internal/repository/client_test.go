package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sumanshinde/cloth-pos/internal/config"
	"github.com/sumanshinde/cloth-pos/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{BaseURL: srv.URL + "/api/", Timeout: time.Second}, "tok123", srv.Client())
}

func TestClientSendsTokenAuthorization(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	})

	if _, err := NewCategoryRepository(client).List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Token tok123" {
		t.Errorf("expected Token scheme header, got %q", gotAuth)
	}
	if gotPath != "/api/categories/" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestListAcceptsPaginatedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "ABHA1" {
			t.Errorf("search not forwarded: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":4,"product":2,"product_name":"Kurti","size":"M","color":"Blue","barcode":"ABHA1","price_retail":"799.00","gst_rate":"5.00","stock_quantity":3}]}`))
	})

	variants, err := NewVariantRepository(client).List(context.Background(), "ABHA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(variants))
	}
	if !variants[0].PriceRetail.Equal(decimal.RequireFromString("799")) {
		t.Errorf("decimal string not decoded: %s", variants[0].PriceRetail)
	}
}

func TestListEmptyBodyYieldsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":null}`))
	})

	sales, err := NewSaleRepository(client).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sales == nil || len(sales) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", sales)
	}
}

func TestSaleCreateSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var body model.CreateSaleRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(IdempotencyHeader)
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9,"invoice_number":"INV-ABCD1234","total_amount":"2100.00","payment_mode":"CASH","created_at":"2026-01-02T10:00:00Z","items":[]}`))
	})

	req := model.CreateSaleRequest{
		CustomerName: model.WalkInCustomer,
		PaymentMode:  model.PaymentModeCash,
		Items:        []model.SaleItemRequest{{VariantID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("1000.00")}},
	}
	sale, err := NewSaleRepository(client).Create(context.Background(), req, "key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "key-1" {
		t.Errorf("expected idempotency key, got %q", gotKey)
	}
	if sale.InvoiceNumber != "INV-ABCD1234" {
		t.Errorf("unexpected invoice %q", sale.InvoiceNumber)
	}
	if len(body.Items) != 1 || body.Items[0].VariantID != 1 {
		t.Errorf("payload not forwarded: %+v", body)
	}
}

func TestErrorBodiesSurfaceVerbatim(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error key", http.StatusBadRequest, `{"error":"Insufficient stock for Saree"}`, "Insufficient stock for Saree"},
		{"detail key", http.StatusNotFound, `{"detail":"Not found."}`, "Not found."},
		{"field map", http.StatusBadRequest, `{"name":["product with this name already exists."],"brand":["too long"]}`, "brand: too long; name: product with this name already exists."},
		{"plain text", http.StatusBadGateway, `upstream down`, "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewProductRepository(client).List(context.Background(), "")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Message != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, apiErr.Message)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewSaleRepository(client).FindByID(context.Background(), 42)
	if !IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestAuthenticateUsesRootWithoutToken(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	})

	token, err := NewAuthRepository(client).Authenticate(context.Background(), "cashier", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc" {
		t.Errorf("unexpected token %q", token)
	}
	if gotPath != "/api-token-auth/" {
		t.Errorf("expected token endpoint beside the api root, got %q", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("login must not send a token, got %q", gotAuth)
	}
}

func TestDeleteTolerantOfEmptyBody(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := NewVariantRepository(client).Delete(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/variants/5/" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestPeriodQuery(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		want   string
	}{
		{"default days", Period{}, "days=30"},
		{"explicit days", Period{Days: 7}, "days=7"},
		{"range wins", Period{Days: 7, Start: &start, End: &end}, "end_date=2026-03-31T23%3A59%3A59Z&start_date=2026-03-01T00%3A00%3A00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Query().Encode(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRunBatchCompensatesInReverse(t *testing.T) {
	var undone []string
	boom := errors.New("boom")

	err := RunBatch(context.Background(), func(ctx context.Context, b *Batch) error {
		for _, name := range []string{"a", "b"} {
			n := name
			b.OnRollback(func(ctx context.Context) error {
				undone = append(undone, n)
				return nil
			})
		}
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if strings.Join(undone, ",") != "b,a" {
		t.Errorf("expected reverse rollback order, got %v", undone)
	}
}

func TestRunBatchReportsRollbackFailure(t *testing.T) {
	boom := errors.New("boom")
	stuck := errors.New("delete failed")

	err := RunBatch(context.Background(), func(ctx context.Context, b *Batch) error {
		b.OnRollback(func(ctx context.Context) error { return stuck })
		return boom
	})

	if !errors.Is(err, boom) || !errors.Is(err, stuck) {
		t.Errorf("expected both errors wrapped, got %v", err)
	}
}

func TestRunBatchSuccessSkipsRollback(t *testing.T) {
	called := false
	err := RunBatch(context.Background(), func(ctx context.Context, b *Batch) error {
		b.OnRollback(func(ctx context.Context) error {
			called = true
			return nil
		})
		return nil
	})
	if err != nil || called {
		t.Errorf("expected clean success, err=%v rollback=%v", err, called)
	}
}
