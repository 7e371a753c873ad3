package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

type ProductRepository interface {
	List(ctx context.Context, search string) ([]model.Product, error)
	Create(ctx context.Context, req model.ProductRequest) (*model.Product, error)
}

type productRepository struct {
	client *Client
}

func NewProductRepository(client *Client) ProductRepository {
	return &productRepository{client: client}
}

func (r *productRepository) List(ctx context.Context, search string) ([]model.Product, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}
	return list[model.Product](ctx, r.client, "/products/", query)
}

func (r *productRepository) Create(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	var product model.Product
	if err := r.client.do(ctx, http.MethodPost, "/products/", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
