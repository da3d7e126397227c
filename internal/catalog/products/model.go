package products

import "time"

// Product is a sellable item. Unit prices here are list prices; orders
// snapshot the price at ordering time, so later edits never rewrite history.
type Product struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	UnitPrice float64   `json:"unit_price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest carries input for creating a product.
type CreateProductRequest struct {
	SKU       string  `json:"sku" validate:"required,max=40"`
	Name      string  `json:"name" validate:"required,max=160"`
	Unit      string  `json:"unit" validate:"required,max=20"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// UpdateProductRequest carries partial updates; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=160"`
	Unit      *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Active    *bool    `json:"active,omitempty"`
}

// ListProductsRequest filters the product listing.
type ListProductsRequest struct {
	Search     *string
	ActiveOnly bool
	Limit      int
	Offset     int
}
