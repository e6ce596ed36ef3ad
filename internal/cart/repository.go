package cart

import (
	"context"
	"database/sql"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetCartByCustomer(ctx context.Context, customerID int64) (*Cart, error)
	CreateCart(ctx context.Context, customerID int64) (*Cart, error)

	GetItem(ctx context.Context, cartID, productID int64) (*CartItem, error)
	CreateItem(ctx context.Context, cartID, productID int64, quantity int) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error)
	DeleteItem(ctx context.Context, itemID int64) error

	GetDetailedItems(ctx context.Context, cartID int64) ([]DetailedItem, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCartByCustomer(ctx context.Context, customerID int64) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer_id FROM carts WHERE customer_id = $1`, customerID).
		Scan(&c.ID, &c.CustomerID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateCart(ctx context.Context, customerID int64) (*Cart, error) {
	c := &Cart{CustomerID: customerID}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carts (customer_id) VALUES ($1) RETURNING id`, customerID).
		Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) GetItem(ctx context.Context, cartID, productID int64) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cart_id, product_id, quantity
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, cartID, productID int64, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItem"),
		zap.Int64("cart_id", cartID),
		zap.Int64("product_id", productID),
	)

	item := &CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`, cartID, productID, quantity).Scan(&item.ID)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	return item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $1
		WHERE id = $2
		RETURNING id, cart_id, product_id, quantity
	`, quantity, itemID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) DeleteItem(ctx context.Context, itemID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	return err
}

func (r *repository) GetDetailedItems(ctx context.Context, cartID int64) ([]DetailedItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			ci.id, ci.quantity,
			p.id, p.retailer_id, p.category_id, p.name, p.description,
			p.price, p.stock, p.image_url, p.source_wholesale_product_id
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DetailedItem
	for rows.Next() {
		var d DetailedItem
		if err := rows.Scan(
			&d.CartItemID, &d.Quantity,
			&d.Product.ID, &d.Product.RetailerID, &d.Product.CategoryID,
			&d.Product.Name, &d.Product.Description,
			&d.Product.Price, &d.Product.Stock, &d.Product.ImageURL,
			&d.Product.SourceWholesaleProductID,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}

	return items, rows.Err()
}
