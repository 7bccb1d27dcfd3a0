package order

import (
	"context"
	"database/sql"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error)
	InsertOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.OrderItemEntity) error
	GetOrderForUpdateTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderEntity, error)
	UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status constant.OrderStatus) error
	ListOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderItemEntity, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.OrderEntity, error)
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, total_amount, status, shipping_address) VALUES (?, ?, ?, ?)",
		req.UserID, req.TotalAmount, req.Status, req.ShippingAddress)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) InsertOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.OrderItemEntity) error {
	q := "INSERT INTO order_items (order_id, product_id, quantity, price, selected_dates, daily_price) VALUES (?, ?, ?, ?, ?, ?)"
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, q, orderID, it.ProductID, it.Quantity, it.Price, it.SelectedDates, it.DailyPrice); err != nil {
			return err
		}
	}
	return nil
}

// GetOrderForUpdateTx locks the order row so status transitions are
// serialized. Returns nil when the order does not exist.
func (r *SQL) GetOrderForUpdateTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderEntity, error) {
	var entity model.OrderEntity
	row := tx.QueryRowxContext(ctx,
		"SELECT id, user_id, total_amount, status, COALESCE(shipping_address, '') AS shipping_address, payment_status, created_at FROM orders WHERE id = ? FOR UPDATE",
		orderID)
	if err := row.StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (r *SQL) UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status constant.OrderStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, orderID)
	return err
}

func (r *SQL) ListOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderItemEntity, error) {
	rows, err := tx.QueryxContext(ctx,
		"SELECT id, order_id, product_id, quantity, price, selected_dates, daily_price FROM order_items WHERE order_id = ?",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrderItemEntity, 0)
	for rows.Next() {
		var it model.OrderItemEntity
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SQL) ListByUser(ctx context.Context, userID uint64) ([]model.OrderEntity, error) {
	rows, err := r.conn.QueryxContext(ctx,
		"SELECT id, user_id, total_amount, status, COALESCE(shipping_address, '') AS shipping_address, payment_status, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.OrderEntity, 0)
	for rows.Next() {
		var o model.OrderEntity
		if err := rows.StructScan(&o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
