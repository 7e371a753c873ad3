package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StandardSizes is the size set offered by the inventory editor.
var StandardSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "Free Size"}

// Category groups products (e.g. Sarees, Kurtis)
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is the catalog entry that variants hang off
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CategoryID   int64     `json:"category"`
	CategoryName string    `json:"category_name,omitempty"`
	Brand        string    `json:"brand"`
	Description  string    `json:"description"`
	Variants     []Variant `json:"variants,omitempty"`
}

// Variant is a sellable size/color/barcode SKU of a Product
type Variant struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product"`
	ProductName   string          `json:"product_name"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Barcode       string          `json:"barcode"`
	PriceRetail   decimal.Decimal `json:"price_retail"`
	GSTRate       decimal.Decimal `json:"gst_rate"` // percent, e.g. 5.00
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
}

// --- Backend request bodies ---

type CategoryRequest struct {
	Name string `json:"name"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	CategoryID  int64  `json:"category"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
}

type VariantRequest struct {
	ProductID     int64           `json:"product"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Barcode       string          `json:"barcode"`
	PriceRetail   decimal.Decimal `json:"price_retail"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	StockQuantity int             `json:"stock_quantity"`
}
