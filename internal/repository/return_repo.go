package repository

import (
	"context"
	"net/http"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

type ReturnRepository interface {
	Create(ctx context.Context, req model.CreateReturnRequest, idempotencyKey string) (*model.Return, error)
	List(ctx context.Context) ([]model.Return, error)
}

type returnRepository struct {
	client *Client
}

func NewReturnRepository(client *Client) ReturnRepository {
	return &returnRepository{client: client}
}

func (r *returnRepository) Create(ctx context.Context, req model.CreateReturnRequest, idempotencyKey string) (*model.Return, error) {
	var ret model.Return
	if err := r.client.do(ctx, http.MethodPost, "/returns/", nil, req, &ret, withIdempotencyKey(idempotencyKey)); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *returnRepository) List(ctx context.Context) ([]model.Return, error) {
	return list[model.Return](ctx, r.client, "/returns/", nil)
}
