package cart

import (
	"context"

	"github.com/blipwear/blip-server/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uint64) (*model.CartEntity, error)
	InsertItem(ctx context.Context, item *model.CartItemEntity) (uint64, error)
	ListItems(ctx context.Context, cartID uint64) ([]model.CartItemRow, error)
	ListItemsTx(ctx context.Context, tx *sqlx.Tx, cartID uint64) ([]model.CartItemRow, error)
	DeleteItem(ctx context.Context, itemID, cartID uint64) (bool, error)
	ClearTx(ctx context.Context, tx *sqlx.Tx, cartID uint64) error
}

func NewCartRepository(conn *sqlx.DB) CartRepository {
	return &SQL{conn: conn}
}

const listItemsQuery = `SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.selected_dates, ci.daily_price,
p.name, p.price, p.image_url, p.category, p.gender_category, p.color
FROM cart_items ci
JOIN products p ON ci.product_id = p.id
WHERE ci.cart_id = ?
ORDER BY ci.id`

// GetOrCreate returns the user's cart, inserting it on first use. The
// unique key on user_id plus LAST_INSERT_ID(id) makes concurrent first
// calls converge on a single row.
func (s *SQL) GetOrCreate(ctx context.Context, userID uint64) (*model.CartEntity, error) {
	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO carts (user_id) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)",
		userID)
	if err != nil {
		return nil, err
	}

	cartID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.CartEntity{ID: uint64(cartID), UserID: userID}, nil
}

func (s *SQL) InsertItem(ctx context.Context, item *model.CartItemEntity) (uint64, error) {
	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO cart_items (cart_id, product_id, quantity, selected_dates, daily_price) VALUES (?, ?, ?, ?, ?)",
		item.CartID, item.ProductID, item.Quantity, item.SelectedDates, item.DailyPrice)
	if err != nil {
		return 0, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(lastID), nil
}

func (s *SQL) ListItems(ctx context.Context, cartID uint64) ([]model.CartItemRow, error) {
	rows, err := s.conn.QueryxContext(ctx, listItemsQuery, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItemRows(rows)
}

func (s *SQL) ListItemsTx(ctx context.Context, tx *sqlx.Tx, cartID uint64) ([]model.CartItemRow, error) {
	rows, err := tx.QueryxContext(ctx, listItemsQuery, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItemRows(rows)
}

// DeleteItem removes a line item scoped to the given cart, so one account
// can never delete another account's items. Returns false when nothing
// matched.
func (s *SQL) DeleteItem(ctx context.Context, itemID, cartID uint64) (bool, error) {
	result, err := s.conn.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = ? AND cart_id = ?", itemID, cartID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQL) ClearTx(ctx context.Context, tx *sqlx.Tx, cartID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", cartID)
	return err
}

func scanItemRows(rows *sqlx.Rows) ([]model.CartItemRow, error) {
	items := make([]model.CartItemRow, 0)
	for rows.Next() {
		var it model.CartItemRow
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
