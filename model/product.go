package model

import "time"

// ProductEntity represents the products table. Prices are integer minor
// currency units.
type ProductEntity struct {
	ID             uint64    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description,omitempty"`
	Price          int64     `db:"price" json:"price"`
	Category       string    `db:"category" json:"category"`
	GenderCategory string    `db:"gender_category" json:"gender_category"`
	Color          string    `db:"color" json:"color,omitempty"`
	Size           string    `db:"size" json:"size,omitempty"`
	ImageURL       string    `db:"image_url" json:"image_url,omitempty"`
	Stock          int64     `db:"stock" json:"stock"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ProductFilter narrows and orders the catalog listing. SortField and
// SortOrder must already be whitelisted by the caller.
type ProductFilter struct {
	Category  string
	Gender    string
	Color     string
	MinPrice  *int64
	MaxPrice  *int64
	SortField string
	SortOrder string
	Page      int
	PerPage   int
}

type ProductListResponse struct {
	Items      []ProductEntity `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
}

// CreateProductRequest is the admin payload for a new catalog entry.
type CreateProductRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Price          int64  `json:"price" validate:"required,gt=0"`
	Category       string `json:"category" validate:"required,oneof=formal casual ethnic"`
	GenderCategory string `json:"gender_category" validate:"required,oneof=men women unisex"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	ImageURL       string `json:"image_url"`
	Stock          int64  `json:"stock" validate:"gte=0"`
}

type CreateProductResponse struct {
	ProductID uint64 `json:"product_id"`
}

// UpdateProductRequest enumerates the mutable product fields explicitly.
// Nil fields are left untouched; at least one must be set.
type UpdateProductRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Price          *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category       *string `json:"category,omitempty" validate:"omitempty,oneof=formal casual ethnic"`
	GenderCategory *string `json:"gender_category,omitempty" validate:"omitempty,oneof=men women unisex"`
	Color          *string `json:"color,omitempty"`
	Size           *string `json:"size,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	Stock          *int64  `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// HasChanges reports whether any field is set.
func (r *UpdateProductRequest) HasChanges() bool {
	return r.Name != nil || r.Description != nil || r.Price != nil ||
		r.Category != nil || r.GenderCategory != nil || r.Color != nil ||
		r.Size != nil || r.ImageURL != nil || r.Stock != nil
}
