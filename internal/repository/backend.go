package repository

// Backend bundles the repositories bound to one authenticated client
type Backend struct {
	Categories CategoryRepository
	Products   ProductRepository
	Variants   VariantRepository
	Sales      SaleRepository
	Returns    ReturnRepository
	Analytics  AnalyticsRepository
}

func NewBackend(client *Client) *Backend {
	return &Backend{
		Categories: NewCategoryRepository(client),
		Products:   NewProductRepository(client),
		Variants:   NewVariantRepository(client),
		Sales:      NewSaleRepository(client),
		Returns:    NewReturnRepository(client),
		Analytics:  NewAnalyticsRepository(client),
	}
}
