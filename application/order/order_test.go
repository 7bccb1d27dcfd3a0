package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	apporder "github.com/blipwear/blip-server/application/order"
	"github.com/blipwear/blip-server/cmd/config"
	"github.com/blipwear/blip-server/constant"
	cartmocks "github.com/blipwear/blip-server/mocks/repository/cart"
	ordermocks "github.com/blipwear/blip-server/mocks/repository/order"
	productmocks "github.com/blipwear/blip-server/mocks/repository/product"
	txmocks "github.com/blipwear/blip-server/mocks/repository/tx"
	"github.com/blipwear/blip-server/model"
	cerr "github.com/blipwear/blip-server/utils/errors"
)

func cartRow(id, productID uint64, price, dailyPrice int64, dates string) model.CartItemRow {
	return model.CartItemRow{
		CartItemEntity: model.CartItemEntity{
			ID:            id,
			CartID:        1,
			ProductID:     productID,
			Quantity:      1,
			SelectedDates: dates,
			DailyPrice:    dailyPrice,
		},
		Name:  "Denim Jacket",
		Price: price,
	}
}

func TestOrderApp_Checkout(t *testing.T) {
	type fields struct {
		config      *config.Config
		txRepo      *txmocks.TxRepository
		orderRepo   *ordermocks.OrderRepository
		cartRepo    *cartmocks.CartRepository
		productRepo *productmocks.ProductRepository
	}
	type args struct {
		ctx    context.Context
		userID uint64
		req    *model.CheckoutRequest
	}
	tests := []struct {
		name      string
		fields    fields
		args      args
		mockCall  func(f fields)
		wantTotal int64
		wantErr   bool
		errCode   constant.ErrorType
	}{
		{
			name: "success: one priced line, stock taken, cart cleared",
			fields: fields{
				config: &config.Config{
					Order: config.OrderConfig{OrderExpiration: 30 * time.Minute},
				},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				userID: 1,
				req:    &model.CheckoutRequest{ShippingAddress: "12 MG Road"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.cartRepo.On("GetOrCreate", mock.Anything, uint64(1)).Return(&model.CartEntity{ID: 1, UserID: 1}, nil).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.cartRepo.On("ListItemsTx", mock.Anything, tx, uint64(1)).Return([]model.CartItemRow{
					cartRow(10, 3, 200000, 2000, `["2025-01-10","2025-01-11","2025-01-12"]`),
				}, nil).Once()

				f.productRepo.On("DecrementStockTx", mock.Anything, tx, uint64(3), 1).Return(true, nil).Once()

				// 200000 base + 2000/day over 3 days
				f.orderRepo.On("InsertOrderTx", mock.Anything, tx, mock.MatchedBy(func(req *model.InsertOrderTxItem) bool {
					return req.UserID == 1 && req.TotalAmount == 206000 && req.Status == constant.OrderStatusPending && req.ShippingAddress == "12 MG Road"
				})).Return(uint64(7), nil).Once()

				f.orderRepo.On("InsertOrderItemsTx", mock.Anything, tx, uint64(7), mock.MatchedBy(func(items []model.OrderItemEntity) bool {
					return len(items) == 1 && items[0].ProductID == 3 && items[0].Price == 200000 && items[0].DailyPrice == 2000
				})).Return(nil).Once()

				f.cartRepo.On("ClearTx", mock.Anything, tx, uint64(1)).Return(nil).Once()
			},
			wantTotal: 206000,
			wantErr:   false,
		},
		{
			name: "error: empty cart",
			fields: fields{
				config: &config.Config{
					Order: config.OrderConfig{OrderExpiration: 30 * time.Minute},
				},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				userID: 1,
				req:    &model.CheckoutRequest{},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.cartRepo.On("GetOrCreate", mock.Anything, uint64(1)).Return(&model.CartEntity{ID: 1, UserID: 1}, nil).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.cartRepo.On("ListItemsTx", mock.Anything, tx, uint64(1)).Return([]model.CartItemRow{}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrEmptyCart,
		},
		{
			name: "error: insufficient stock rolls everything back",
			fields: fields{
				config: &config.Config{
					Order: config.OrderConfig{OrderExpiration: 30 * time.Minute},
				},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				userID: 1,
				req:    &model.CheckoutRequest{},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.cartRepo.On("GetOrCreate", mock.Anything, uint64(1)).Return(&model.CartEntity{ID: 1, UserID: 1}, nil).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.cartRepo.On("ListItemsTx", mock.Anything, tx, uint64(1)).Return([]model.CartItemRow{
					cartRow(10, 3, 200000, 2000, `["2025-01-10"]`),
				}, nil).Once()

				f.productRepo.On("DecrementStockTx", mock.Anything, tx, uint64(3), 1).Return(false, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInsufficientStock,
		},
		{
			name: "error: BeginTx returns error",
			fields: fields{
				config: &config.Config{
					Order: config.OrderConfig{OrderExpiration: 30 * time.Minute},
				},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				userID: 1,
				req:    &model.CheckoutRequest{},
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetOrCreate", mock.Anything, uint64(1)).Return(&model.CartEntity{ID: 1, UserID: 1}, nil).Once()
				f.txRepo.On("BeginTx", mock.Anything).Return(nil, errors.New("tx error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := apporder.NewOrderApp(tt.fields.config, tt.fields.txRepo, tt.fields.orderRepo, tt.fields.cartRepo, tt.fields.productRepo, nil)

			got, err := app.Checkout(tt.args.ctx, tt.args.userID, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Checkout() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				return
			}

			if got.TotalAmount != tt.wantTotal {
				t.Fatalf("Checkout() TotalAmount = %d, want %d", got.TotalAmount, tt.wantTotal)
			}
			if got.OrderID == 0 {
				t.Fatal("Checkout() OrderID should not be zero")
			}
			if got.ExpiresAt.IsZero() {
				t.Fatal("Checkout() ExpiresAt should not be zero")
			}
		})
	}
}

func TestOrderApp_ExpireOrder(t *testing.T) {
	type fields struct {
		config      *config.Config
		txRepo      *txmocks.TxRepository
		orderRepo   *ordermocks.OrderRepository
		cartRepo    *cartmocks.CartRepository
		productRepo *productmocks.ProductRepository
	}
	type args struct {
		ctx     context.Context
		orderID uint64
	}
	tests := []struct {
		name     string
		fields   fields
		args     args
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: pending order cancelled and restocked",
			fields: fields{
				config:      &config.Config{},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				orderID: 7,
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderForUpdateTx", mock.Anything, tx, uint64(7)).Return(&model.OrderEntity{
					ID:     7,
					UserID: 1,
					Status: constant.OrderStatusPending,
				}, nil).Once()

				f.orderRepo.On("ListOrderItemsTx", mock.Anything, tx, uint64(7)).Return([]model.OrderItemEntity{
					{ProductID: 3, Quantity: 1},
					{ProductID: 5, Quantity: 2},
				}, nil).Once()

				f.productRepo.On("IncrementStockTx", mock.Anything, tx, uint64(3), 1).Return(nil).Once()
				f.productRepo.On("IncrementStockTx", mock.Anything, tx, uint64(5), 2).Return(nil).Once()

				f.orderRepo.On("UpdateOrderStatusTx", mock.Anything, tx, uint64(7), constant.OrderStatusCancelled).Return(nil).Once()
			},
			wantErr: false,
		},
		{
			name: "no-op: order already completed",
			fields: fields{
				config:      &config.Config{},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				orderID: 7,
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderForUpdateTx", mock.Anything, tx, uint64(7)).Return(&model.OrderEntity{
					ID:     7,
					UserID: 1,
					Status: constant.OrderStatusCompleted,
				}, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "error: order not found",
			fields: fields{
				config:      &config.Config{},
				txRepo:      txmocks.NewTxRepository(t),
				orderRepo:   ordermocks.NewOrderRepository(t),
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				orderID: 999,
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderForUpdateTx", mock.Anything, tx, uint64(999)).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := apporder.NewOrderApp(tt.fields.config, tt.fields.txRepo, tt.fields.orderRepo, tt.fields.cartRepo, tt.fields.productRepo, nil)

			err := app.ExpireOrder(tt.args.ctx, tt.args.orderID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpireOrder() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
			}
		})
	}
}

func TestOrderApp_ListOrders(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	orderRepo := ordermocks.NewOrderRepository(t)
	cartRepo := cartmocks.NewCartRepository(t)
	productRepo := productmocks.NewProductRepository(t)

	orderRepo.On("ListByUser", mock.Anything, uint64(1)).Return([]model.OrderEntity{
		{ID: 7, UserID: 1, TotalAmount: 206000, Status: constant.OrderStatusPending},
	}, nil).Once()

	app := apporder.NewOrderApp(&config.Config{}, txRepo, orderRepo, cartRepo, productRepo, nil)

	got, err := app.ListOrders(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(got.Orders) != 1 || got.Orders[0].ID != 7 {
		t.Fatalf("ListOrders() = %+v, want one order with ID 7", got.Orders)
	}
}
