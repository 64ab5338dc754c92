package product

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"imageurl,omitempty"`
	ColorVariants []string `json:"color_variants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GetProductOptions struct {
	ProductID  string
	OnlyActive bool
}

type ProductQueryOptions struct {
	CategoryID *string
	Search     *string
	InStock    *bool
	SortField  string
	SortAsc    bool
	Limit      *int32
	Page       *int32
}

type NewProductInput struct {
	Name          string
	CategoryID    string
	Price         float64
	Stock         int
	Description   *string
	ImageURL      *string
	ColorVariants []string
}

type UpdateProductInput struct {
	ProductID     string
	Name          *string
	CategoryID    *string
	Price         *float64
	Stock         *int
	Status        *string
	Description   *string
	ImageURL      *string
	ColorVariants []string
}
