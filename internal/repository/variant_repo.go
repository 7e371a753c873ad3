package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

type VariantRepository interface {
	List(ctx context.Context, search string) ([]model.Variant, error)
	Create(ctx context.Context, req model.VariantRequest) (*model.Variant, error)
	Update(ctx context.Context, id int64, req model.VariantRequest) (*model.Variant, error)
	Delete(ctx context.Context, id int64) error
}

type variantRepository struct {
	client *Client
}

func NewVariantRepository(client *Client) VariantRepository {
	return &variantRepository{client: client}
}

// List matches search against barcode and product name on the backend
func (r *variantRepository) List(ctx context.Context, search string) ([]model.Variant, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}
	return list[model.Variant](ctx, r.client, "/variants/", query)
}

func (r *variantRepository) Create(ctx context.Context, req model.VariantRequest) (*model.Variant, error) {
	var variant model.Variant
	if err := r.client.do(ctx, http.MethodPost, "/variants/", nil, req, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) Update(ctx context.Context, id int64, req model.VariantRequest) (*model.Variant, error) {
	var variant model.Variant
	if err := r.client.do(ctx, http.MethodPut, fmt.Sprintf("/variants/%d/", id), nil, req, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) Delete(ctx context.Context, id int64) error {
	return r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/variants/%d/", id), nil, nil, nil)
}
