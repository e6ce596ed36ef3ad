package otp

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	// Replace deletes any live record for the email and inserts a fresh one,
	// keeping at most one active OTP per email per purpose.
	Replace(ctx context.Context, purpose Purpose, email, code string, expiresAt time.Time) error
	Find(ctx context.Context, purpose Purpose, email, code string) (*Record, error)
	Delete(ctx context.Context, purpose Purpose, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Replace(ctx context.Context, purpose Purpose, email, code string, expiresAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE email = $1`, purpose.table()),
		email,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (email, otp, expires_at) VALUES ($1, $2, $3)`, purpose.table()),
		email, code, expiresAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Find(ctx context.Context, purpose Purpose, email, code string) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT id, email, otp, expires_at
		FROM %s
		WHERE email = $1 AND otp = $2
	`, purpose.table())

	var rec Record
	err := r.db.QueryRowContext(ctx, query, email, code).
		Scan(&rec.ID, &rec.Email, &rec.Code, &rec.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) Delete(ctx context.Context, purpose Purpose, id int64) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, purpose.table()),
		id,
	)
	return err
}
