package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

type SaleRepository interface {
	Create(ctx context.Context, req model.CreateSaleRequest, idempotencyKey string) (*model.Sale, error)
	FindByID(ctx context.Context, id int64) (*model.Sale, error)
	List(ctx context.Context) ([]model.Sale, error)
}

type saleRepository struct {
	client *Client
}

func NewSaleRepository(client *Client) SaleRepository {
	return &saleRepository{client: client}
}

func (r *saleRepository) Create(ctx context.Context, req model.CreateSaleRequest, idempotencyKey string) (*model.Sale, error) {
	var sale model.Sale
	if err := r.client.do(ctx, http.MethodPost, "/sales/", nil, req, &sale, withIdempotencyKey(idempotencyKey)); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByID(ctx context.Context, id int64) (*model.Sale, error) {
	var sale model.Sale
	if err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("/sales/%d/", id), nil, nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context) ([]model.Sale, error) {
	return list[model.Sale](ctx, r.client, "/sales/", nil)
}
