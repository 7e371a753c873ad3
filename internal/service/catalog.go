package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sumanshinde/cloth-pos/internal/search"
)

type CatalogSummary struct {
	Products    int       `json:"products"`
	Variants    int       `json:"variants"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// refreshCatalog replaces the session snapshot. Caller holds sess.mu.
func refreshCatalog(ctx context.Context, sess *Session) (*search.Index, error) {
	products, err := sess.Backend.Products.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	variants, err := sess.Backend.Variants.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}

	sess.catalog = search.NewIndex(products, variants)
	sess.catalogAt = time.Now()
	return sess.catalog, nil
}

// ensureCatalog loads the snapshot on first use. Caller holds sess.mu.
func ensureCatalog(ctx context.Context, sess *Session) (*search.Index, error) {
	if sess.catalog != nil {
		return sess.catalog, nil
	}
	return refreshCatalog(ctx, sess)
}

func catalogSummary(sess *Session) CatalogSummary {
	return CatalogSummary{
		Products:    len(sess.catalog.Products()),
		Variants:    len(sess.catalog.Variants()),
		RefreshedAt: sess.catalogAt,
	}
}
