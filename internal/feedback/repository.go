package feedback

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	ListByProduct(ctx context.Context, productID int64) ([]*Feedback, error)
	ListByRetailer(ctx context.Context, retailerID int64) ([]*Feedback, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (product_id, customer_id, rating, comment)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, f.ProductID, f.CustomerID, f.Rating, f.Comment).Scan(&f.ID, &f.CreatedAt)
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]*Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.product_id, f.customer_id, f.rating, f.comment, f.created_at, c.name
		FROM feedback f
		JOIN customers c ON c.id = f.customer_id
		WHERE f.product_id = $1
		ORDER BY f.created_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Feedback
	for rows.Next() {
		var f Feedback
		err := rows.Scan(&f.ID, &f.ProductID, &f.CustomerID, &f.Rating,
			&f.Comment, &f.CreatedAt, &f.CustomerName)
		if err != nil {
			return nil, err
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

func (r *repository) ListByRetailer(ctx context.Context, retailerID int64) ([]*Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.product_id, f.customer_id, f.rating, f.comment, f.created_at,
		       c.name, p.name
		FROM feedback f
		JOIN customers c ON c.id = f.customer_id
		JOIN products p ON p.id = f.product_id
		WHERE p.retailer_id = $1
		ORDER BY f.created_at DESC
	`, retailerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Feedback
	for rows.Next() {
		var f Feedback
		err := rows.Scan(&f.ID, &f.ProductID, &f.CustomerID, &f.Rating,
			&f.Comment, &f.CreatedAt, &f.CustomerName, &f.ProductName)
		if err != nil {
			return nil, err
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
