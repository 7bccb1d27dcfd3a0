package cart

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	cartrepo "github.com/blipwear/blip-server/repository/cart"
	productrepo "github.com/blipwear/blip-server/repository/product"
	"github.com/blipwear/blip-server/utils/errors"
	"github.com/blipwear/blip-server/utils/logger"
)

type CartApp interface {
	AddItem(ctx context.Context, userID uint64, req *model.AddToCartRequest) error
	GetCart(ctx context.Context, userID uint64) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uint64) error
}

type cartAppImpl struct {
	cartRepo    cartrepo.CartRepository
	productRepo productrepo.ProductRepository
}

func NewCartApp(cartRepo cartrepo.CartRepository, productRepo productrepo.ProductRepository) CartApp {
	return &cartAppImpl{cartRepo: cartRepo, productRepo: productRepo}
}

// AddItem puts a product with its rental dates into the user's cart. The
// product price must meet the minimum rental value; the per-day surcharge is
// 1% of the price at add-time and stays fixed on the line item afterwards.
// Dates are stored exactly as submitted.
func (s *cartAppImpl) AddItem(ctx context.Context, userID uint64, req *model.AddToCartRequest) error {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		logger.Error("[AddItem] err productRepo.GetByID", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if product == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	if product.Price < constant.MinimumRentalPriceMinor {
		return errors.SetCustomError(constant.ErrBelowMinimumValue)
	}

	dailyPrice := product.Price / constant.DailyPriceDivisor

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("[AddItem] err cartRepo.GetOrCreate", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	dates, err := json.Marshal(req.SelectedDates)
	if err != nil {
		logger.Error("[AddItem] err marshal dates", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	_, err = s.cartRepo.InsertItem(ctx, &model.CartItemEntity{
		CartID:        cart.ID,
		ProductID:     req.ProductID,
		Quantity:      1,
		SelectedDates: string(dates),
		DailyPrice:    dailyPrice,
	})
	if err != nil {
		logger.Error("[AddItem] err cartRepo.InsertItem", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	return nil
}

// GetCart prices the cart. The displayed base price is the product's
// current price while the daily charge uses the snapshot taken at add-time.
func (s *cartAppImpl) GetCart(ctx context.Context, userID uint64) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("[GetCart] err cartRepo.GetOrCreate", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	rows, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		logger.Error("[GetCart] err cartRepo.ListItems", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	items := make([]model.CartItemView, 0, len(rows))
	var subtotal, dailyCharges int64

	for _, row := range rows {
		view, err := PriceItem(&row)
		if err != nil {
			logger.Error("[GetCart] err pricing item", zap.Uint64("item_id", row.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}

		subtotal += view.Price
		dailyCharges += view.DailyCharge
		items = append(items, *view)
	}

	return &model.CartResponse{
		Items:        items,
		Subtotal:     subtotal,
		DailyCharges: dailyCharges,
		Total:        subtotal + dailyCharges,
	}, nil
}

// RemoveItem deletes a line item scoped to the caller's cart; items in other
// carts are reported as not found.
func (s *cartAppImpl) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("[RemoveItem] err cartRepo.GetOrCreate", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	found, err := s.cartRepo.DeleteItem(ctx, itemID, cart.ID)
	if err != nil {
		logger.Error("[RemoveItem] err cartRepo.DeleteItem", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if !found {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	return nil
}

// PriceItem computes the charges for one joined cart row: days is the raw
// length of the stored date list (duplicates count), dailyCharge multiplies
// the snapshotted daily price, itemTotal adds the current product price.
func PriceItem(row *model.CartItemRow) (*model.CartItemView, error) {
	var dates []string
	if err := json.Unmarshal([]byte(row.SelectedDates), &dates); err != nil {
		return nil, err
	}

	days := len(dates)
	dailyCharge := row.DailyPrice * int64(days)

	return &model.CartItemView{
		ID:             row.ID,
		ProductID:      row.ProductID,
		Name:           row.Name,
		Price:          row.Price,
		ImageURL:       row.ImageURL,
		Category:       row.Category,
		GenderCategory: row.GenderCategory,
		Color:          row.Color,
		Quantity:       row.Quantity,
		SelectedDates:  dates,
		Days:           days,
		DailyPrice:     row.DailyPrice,
		DailyCharge:    dailyCharge,
		ItemTotal:      row.Price + dailyCharge,
	}, nil
}
