package user

import (
	"context"
	"database/sql"

	"github.com/blipwear/blip-server/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type UserRepository interface {
	Create(ctx context.Context, req *model.UserEntity) (*model.UserEntity, error)
	Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	AdminExists(ctx context.Context) (bool, error)
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	insertUserQuery = `INSERT INTO users (name, email, phone, password, verified, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?, NOW())`
	getUserBase     = `SELECT id, name, email, phone, password, verified, is_admin, created_at FROM users WHERE true`
)

func (s *SQL) Create(ctx context.Context, data *model.UserEntity) (*model.UserEntity, error) {
	result, err := s.conn.ExecContext(ctx, insertUserQuery, data.Name, data.Email, data.Phone, data.PasswordHash, data.Verified, data.IsAdmin)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	data.ID = uint64(lastID)
	return data, nil
}

func (s *SQL) Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error) {
	query := getUserBase
	args := make([]any, 0, 2)

	if filter.ID != 0 {
		query += " AND id = ?"
		args = append(args, filter.ID)
	}
	if filter.Identifier != "" {
		query += " AND (email = ? OR phone = ?)"
		args = append(args, filter.Identifier, filter.Identifier)
	}

	var entity model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, query, args...).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE users SET password = ? WHERE id = ?", passwordHash, id)
	return err
}

func (s *SQL) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.conn.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE is_admin = TRUE)"); err != nil {
		return false, err
	}
	return exists, nil
}
