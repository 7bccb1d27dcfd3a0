package model

import "time"

// CartEntity represents the carts table. One cart per user, created lazily
// on the first cart operation.
type CartEntity struct {
	ID        uint64    `db:"id" json:"id"`
	UserID    uint64    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartItemEntity represents a cart_items row. SelectedDates is the
// JSON-serialized date list exactly as submitted; DailyPrice is the 1%
// per-day surcharge snapshotted when the item was added.
type CartItemEntity struct {
	ID            uint64 `db:"id"`
	CartID        uint64 `db:"cart_id"`
	ProductID     uint64 `db:"product_id"`
	Quantity      int    `db:"quantity"`
	SelectedDates string `db:"selected_dates"`
	DailyPrice    int64  `db:"daily_price"`
}

// CartItemRow is a cart item joined with live product columns for display.
type CartItemRow struct {
	CartItemEntity
	Name           string `db:"name"`
	Price          int64  `db:"price"`
	ImageURL       string `db:"image_url"`
	Category       string `db:"category"`
	GenderCategory string `db:"gender_category"`
	Color          string `db:"color"`
}

// AddToCartRequest adds a product with a set of rental dates. Dates are
// stored and counted as given: duplicates and ordering are preserved.
type AddToCartRequest struct {
	ProductID     uint64   `json:"product_id" validate:"required"`
	SelectedDates []string `json:"selected_dates" validate:"required,min=1,dive,datetime=2006-01-02"`
}

// CartItemView is a priced line item in the cart response. DailyCharge is
// the snapshotted daily price times the number of selected dates; ItemTotal
// adds the current product price on top.
type CartItemView struct {
	ID             uint64   `json:"id"`
	ProductID      uint64   `json:"product_id"`
	Name           string   `json:"name"`
	Price          int64    `json:"price"`
	ImageURL       string   `json:"image_url,omitempty"`
	Category       string   `json:"category"`
	GenderCategory string   `json:"gender_category"`
	Color          string   `json:"color,omitempty"`
	Quantity       int      `json:"quantity"`
	SelectedDates  []string `json:"selected_dates"`
	Days           int      `json:"days"`
	DailyPrice     int64    `json:"daily_price"`
	DailyCharge    int64    `json:"daily_charge"`
	ItemTotal      int64    `json:"item_total"`
}

type CartResponse struct {
	Items        []CartItemView `json:"items"`
	Subtotal     int64          `json:"subtotal"`
	DailyCharges int64          `json:"daily_charges"`
	Total        int64          `json:"total"`
}
