package otp

import (
	"context"
	"database/sql"

	"github.com/blipwear/blip-server/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

// OTPRepository persists one-time codes. The Tx variants exist because both
// issuance (delete-then-insert) and verification (match-then-delete) must be
// atomic against concurrent requests for the same identifier.
type OTPRepository interface {
	ReplaceTx(ctx context.Context, tx *sqlx.Tx, entity *model.OTPEntity) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, emailOrPhone, code string) (*model.OTPEntity, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id uint64) error
}

func NewOTPRepository(conn *sqlx.DB) OTPRepository {
	return &SQL{conn: conn}
}

// ReplaceTx removes every code stored for the identifier and inserts the new
// one, so the identifier ends with exactly one active code.
func (s *SQL) ReplaceTx(ctx context.Context, tx *sqlx.Tx, entity *model.OTPEntity) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM otps WHERE email_or_phone = ?", entity.EmailOrPhone); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO otps (email_or_phone, otp, expires_at, created_at) VALUES (?, ?, ?, NOW())",
		entity.EmailOrPhone, entity.Code, entity.ExpiresAt)
	if err != nil {
		return err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entity.ID = uint64(lastID)
	return nil
}

// GetForUpdateTx locks the row matching identifier and code so that two
// concurrent verify calls cannot both observe it. Returns nil when no row
// matches.
func (s *SQL) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, emailOrPhone, code string) (*model.OTPEntity, error) {
	var entity model.OTPEntity
	err := tx.QueryRowxContext(ctx,
		"SELECT id, email_or_phone, otp, expires_at, created_at FROM otps WHERE email_or_phone = ? AND otp = ? FOR UPDATE",
		emailOrPhone, code).StructScan(&entity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) DeleteTx(ctx context.Context, tx *sqlx.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM otps WHERE id = ?", id)
	return err
}
