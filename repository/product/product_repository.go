package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/blipwear/blip-server/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type ProductRepository interface {
	List(ctx context.Context, filter *model.ProductFilter) ([]model.ProductEntity, int64, error)
	GetByID(ctx context.Context, id uint64) (*model.ProductEntity, error)
	Create(ctx context.Context, req *model.CreateProductRequest) (uint64, error)
	Update(ctx context.Context, id uint64, req *model.UpdateProductRequest) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	DecrementStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, quantity int) (bool, error)
	IncrementStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, quantity int) error
}

func NewProductRepository(conn *sqlx.DB) ProductRepository {
	return &SQL{conn: conn}
}

const productColumns = `id, name, description, price, category, gender_category, color, size, image_url, stock, created_at`

// buildConditions translates the filter into a WHERE tail plus args, shared
// by the listing and count queries.
func buildConditions(filter *model.ProductFilter) (string, []any) {
	var conditions []string
	args := make([]any, 0, 5)

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Gender != "" {
		conditions = append(conditions, "gender_category = ?")
		args = append(args, filter.Gender)
	}
	if filter.Color != "" {
		conditions = append(conditions, "color = ?")
		args = append(args, filter.Color)
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *SQL) List(ctx context.Context, filter *model.ProductFilter) ([]model.ProductEntity, int64, error) {
	where, args := buildConditions(filter)

	// SortField and SortOrder come from caller-side whitelists, never from
	// raw request input.
	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s %s LIMIT ? OFFSET ?",
		productColumns, where, filter.SortField, filter.SortOrder)
	listArgs := append(append([]any{}, args...), filter.PerPage, offset)

	rows, err := s.conn.QueryxContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.ProductEntity, 0)
	for rows.Next() {
		var it model.ProductEntity
		if err := rows.StructScan(&it); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM products"+where, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.ProductEntity, error) {
	var entity model.ProductEntity
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns)
	if err := s.conn.QueryRowxContext(ctx, query, id).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) Create(ctx context.Context, req *model.CreateProductRequest) (uint64, error) {
	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO products (name, description, price, category, gender_category, color, size, image_url, stock, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		req.Name, req.Description, req.Price, req.Category, req.GenderCategory, req.Color, req.Size, req.ImageURL, req.Stock)
	if err != nil {
		return 0, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(lastID), nil
}

// Update applies only the fields set on the request. Returns false when the
// product does not exist.
func (s *SQL) Update(ctx context.Context, id uint64, req *model.UpdateProductRequest) (bool, error) {
	var setClauses []string
	args := make([]any, 0, 9)

	appendSet := func(column string, value any) {
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}

	if req.Name != nil {
		appendSet("name", *req.Name)
	}
	if req.Description != nil {
		appendSet("description", *req.Description)
	}
	if req.Price != nil {
		appendSet("price", *req.Price)
	}
	if req.Category != nil {
		appendSet("category", *req.Category)
	}
	if req.GenderCategory != nil {
		appendSet("gender_category", *req.GenderCategory)
	}
	if req.Color != nil {
		appendSet("color", *req.Color)
	}
	if req.Size != nil {
		appendSet("size", *req.Size)
	}
	if req.ImageURL != nil {
		appendSet("image_url", *req.ImageURL)
	}
	if req.Stock != nil {
		appendSet("stock", *req.Stock)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ?", strings.Join(setClauses, ", "))

	result, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQL) Delete(ctx context.Context, id uint64) (bool, error) {
	result, err := s.conn.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DecrementStockTx takes stock for an order item; the stock >= quantity
// guard in SQL makes concurrent checkouts safe. Returns false when stock is
// insufficient.
func (s *SQL) DecrementStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, quantity int) (bool, error) {
	result, err := tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
		quantity, productID, quantity)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQL) IncrementStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, quantity int) error {
	_, err := tx.ExecContext(ctx, "UPDATE products SET stock = stock + ? WHERE id = ?", quantity, productID)
	return err
}
