package product

import (
	"context"
	"database/sql"
	"fmt"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListByRetailer(ctx context.Context, retailerID int64) ([]*Product, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, id int64) error
	UpdateImageURL(ctx context.Context, id int64, imageURL string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, retailer_id, category_id, name, description,
	price, stock, image_url, source_wholesale_product_id
`

func scanProduct(s interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := s.Scan(
		&p.ID, &p.RetailerID, &p.CategoryID, &p.Name, &p.Description,
		&p.Price, &p.Stock, &p.ImageURL, &p.SourceWholesaleProductID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Search != nil && *filter.Search != "" {
		query += fmt.Sprintf(
			" AND (name ILIKE $%d OR description ILIKE $%d)",
			argIndex, argIndex,
		)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIndex)
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	switch filter.SortBy {
	case "price_low":
		query += " ORDER BY price ASC"
	case "price_high":
		query += " ORDER BY price DESC"
	default:
		query += " ORDER BY id DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ListByRetailer(ctx context.Context, retailerID int64) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE retailer_id = $1 ORDER BY id DESC`,
		retailerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*Product, error) {
	p := &Product{
		RetailerID:  params.RetailerID,
		CategoryID:  params.CategoryID,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Stock:       params.Stock,
		ImageURL:    params.ImageURL,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (retailer_id, category_id, name, description, price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		params.RetailerID, params.CategoryID, params.Name, params.Description,
		params.Price, params.Stock, params.ImageURL,
	).Scan(&p.ID)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	query := `
		UPDATE products SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			category_id = COALESCE($3, category_id),
			price = COALESCE($4, price),
			stock = COALESCE($5, stock),
			image_url = COALESCE($6, image_url)
		WHERE id = $7
		RETURNING ` + productColumns

	row := r.db.QueryRowContext(ctx, query,
		params.Name, params.Description, params.CategoryID,
		params.Price, params.Stock, params.ImageURL, id,
	)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) UpdateImageURL(ctx context.Context, id int64, imageURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET image_url = $1 WHERE id = $2`, imageURL, id)
	return err
}
