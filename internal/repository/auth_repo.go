package repository

import (
	"context"
	"errors"
	"net/http"
)

type AuthRepository interface {
	// Authenticate exchanges credentials for a backend token
	Authenticate(ctx context.Context, username, password string) (string, error)
}

type authRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) Authenticate(ctx context.Context, username, password string) (string, error) {
	req := map[string]string{"username": username, "password": password}
	var res struct {
		Token string `json:"token"`
	}
	anonymous := r.client.WithToken("")
	if err := anonymous.do(ctx, http.MethodPost, anonymous.rootURL()+"/api-token-auth/", nil, req, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", errors.New("backend returned an empty token")
	}
	return res.Token, nil
}
