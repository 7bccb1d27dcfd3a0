package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	appcart "github.com/blipwear/blip-server/application/cart"
	"github.com/blipwear/blip-server/cmd/config"
	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	cartrepo "github.com/blipwear/blip-server/repository/cart"
	orderrepo "github.com/blipwear/blip-server/repository/order"
	productrepo "github.com/blipwear/blip-server/repository/product"
	txrepo "github.com/blipwear/blip-server/repository/tx"
	"github.com/blipwear/blip-server/thirdparty/rabbitmq"
	"github.com/blipwear/blip-server/utils/errors"
	"github.com/blipwear/blip-server/utils/logger"
)

type OrderApp interface {
	Checkout(ctx context.Context, userID uint64, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
	ExpireOrder(ctx context.Context, orderID uint64) error
	ListOrders(ctx context.Context, userID uint64) (*model.OrderListResponse, error)
}

type orderAppImpl struct {
	config      *config.Config
	txRepo      txrepo.TxRepository
	orderRepo   orderrepo.OrderRepository
	cartRepo    cartrepo.CartRepository
	productRepo productrepo.ProductRepository
	publisher   *rabbitmq.Publisher
}

func NewOrderApp(config *config.Config, txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, cartRepo cartrepo.CartRepository, productRepo productrepo.ProductRepository, publisher *rabbitmq.Publisher) OrderApp {
	return &orderAppImpl{
		config:      config,
		txRepo:      txRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// Checkout converts the user's cart into a pending order in one
// transaction: stock is taken per item, the cart's priced lines become
// order_items snapshots and the cart is emptied. An expiration message is
// scheduled for unpaid orders.
func (s *orderAppImpl) Checkout(ctx context.Context, userID uint64, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("[Checkout] err cartRepo.GetOrCreate", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Checkout] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	rows, err := s.cartRepo.ListItemsTx(ctx, tx, cart.ID)
	if err != nil {
		logger.Error("[Checkout] err cartRepo.ListItemsTx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if len(rows) == 0 {
		return nil, errors.SetCustomError(constant.ErrEmptyCart)
	}

	items := make([]model.OrderItemEntity, 0, len(rows))
	var total int64
	for _, row := range rows {
		view, err := appcart.PriceItem(&row)
		if err != nil {
			logger.Error("[Checkout] err pricing item", zap.Uint64("item_id", row.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}

		taken, err := s.productRepo.DecrementStockTx(ctx, tx, row.ProductID, row.Quantity)
		if err != nil {
			logger.Error("[Checkout] err productRepo.DecrementStockTx", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if !taken {
			logger.Info("[Checkout] insufficient stock", zap.Uint64("product_id", row.ProductID), zap.Int("need", row.Quantity))
			return nil, errors.SetCustomError(constant.ErrInsufficientStock)
		}

		total += view.ItemTotal
		items = append(items, model.OrderItemEntity{
			ProductID:     row.ProductID,
			Quantity:      row.Quantity,
			Price:         view.Price,
			SelectedDates: row.SelectedDates,
			DailyPrice:    row.DailyPrice,
		})
	}

	orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, &model.InsertOrderTxItem{
		UserID:          userID,
		TotalAmount:     total,
		Status:          constant.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		logger.Error("[Checkout] insert order", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.orderRepo.InsertOrderItemsTx(ctx, tx, orderID, items); err != nil {
		logger.Error("[Checkout] insert items", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.cartRepo.ClearTx(ctx, tx, cart.ID); err != nil {
		logger.Error("[Checkout] clear cart", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Checkout] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	expiresAt := time.Now().Add(s.config.Order.OrderExpiration)
	if s.publisher != nil {
		msg := rabbitmq.OrderExpirationMessage{
			OrderID:   orderID,
			UserID:    userID,
			ExpiresAt: expiresAt,
		}
		if err := s.publisher.PublishOrderExpiration(msg); err != nil {
			logger.Error("[Checkout] publish order expiration", zap.String("error", err.Error()))
		}
	}

	return &model.CheckoutResponse{
		OrderID:     orderID,
		TotalAmount: total,
		ExpiresAt:   expiresAt,
	}, nil
}

// ExpireOrder cancels a still-pending order and returns its stock. Orders
// already paid or cancelled are left alone.
func (s *orderAppImpl) ExpireOrder(ctx context.Context, orderID uint64) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[ExpireOrder] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderForUpdateTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ExpireOrder] get order", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	if order.Status != constant.OrderStatusPending {
		return nil
	}

	items, err := s.orderRepo.ListOrderItemsTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ExpireOrder] list items", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	for _, it := range items {
		if err := s.productRepo.IncrementStockTx(ctx, tx, it.ProductID, it.Quantity); err != nil {
			logger.Error("[ExpireOrder] restock", zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, constant.OrderStatusCancelled); err != nil {
		logger.Error("[ExpireOrder] update status", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ExpireOrder] commit tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed = true
	return nil
}

func (s *orderAppImpl) ListOrders(ctx context.Context, userID uint64) (*model.OrderListResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("[ListOrders] err orderRepo.ListByUser", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.OrderListResponse{Orders: orders}, nil
}
