package repository

import (
	"context"
	"net/http"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
}

type categoryRepository struct {
	client *Client
}

func NewCategoryRepository(client *Client) CategoryRepository {
	return &categoryRepository{client: client}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	return list[model.Category](ctx, r.client, "/categories/", nil)
}

func (r *categoryRepository) Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	var category model.Category
	if err := r.client.do(ctx, http.MethodPost, "/categories/", nil, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}
