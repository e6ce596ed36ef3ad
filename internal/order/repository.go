package order

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	Checkout(ctx context.Context, params CheckoutParams) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error)
	ListByRetailer(ctx context.Context, retailerID int64) ([]*Order, error)
	GetByID(ctx context.Context, orderID int64) (*Order, error)
	RetailerOwnsOrder(ctx context.Context, retailerID, orderID int64) (bool, error)
	UpdateStatus(ctx context.Context, orderID int64, status *Status, paymentStatus *PaymentStatus) error
	GetCustomerContact(ctx context.Context, orderID int64) (*CustomerContact, error)
	CustomerHistory(ctx context.Context, retailerID int64) ([]HistoryEntry, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Checkout turns the customer's cart into an order inside a single
// transaction. Stock is re-checked against live rows and decremented with
// a guarded update, so two concurrent checkouts can never oversell.
func (r *repository) Checkout(ctx context.Context, params CheckoutParams) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Find the customer's cart
	var cartID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM carts WHERE customer_id = $1`, params.CustomerID,
	).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil, ErrCartEmpty
	}
	if err != nil {
		return nil, err
	}

	// 2. Load cart lines
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM cart_items
		WHERE cart_id = $1
	`, cartID)
	if err != nil {
		return nil, err
	}
	type line struct {
		productID int64
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	// 3. Re-read each product, verify stock and freeze prices
	var total float64
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		var (
			name  string
			price float64
			stock int
		)
		err = tx.QueryRowContext(ctx,
			`SELECT name, price, stock FROM products WHERE id = $1`, l.productID,
		).Scan(&name, &price, &stock)
		if err == sql.ErrNoRows {
			return nil, ErrProductGone
		}
		if err != nil {
			return nil, err
		}
		if stock < l.quantity {
			return nil, fmt.Errorf("%w for %s. Available: %d", ErrInsufficientStock, name, stock)
		}
		total += price * float64(l.quantity)
		items = append(items, OrderItem{
			ProductID:       l.productID,
			Quantity:        l.quantity,
			PriceAtPurchase: price,
			ProductName:     name,
		})
	}

	// 4. Create the order
	o := &Order{
		CustomerID:      params.CustomerID,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMode:     params.PaymentMode,
		ShippingAddress: params.ShippingAddress,
		ShippingCity:    params.ShippingCity,
		ShippingPincode: params.ShippingPincode,
		TotalPrice:      total,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_id, status, payment_status, payment_mode,
			shipping_address, shipping_city, shipping_pincode, total_price
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, order_date
	`,
		o.CustomerID, o.Status, o.PaymentStatus, o.PaymentMode,
		o.ShippingAddress, o.ShippingCity, o.ShippingPincode, o.TotalPrice,
	).Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return nil, err
	}

	// 5. Insert order items and deduct stock
	for i := range items {
		items[i].OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
			VALUES ($1,$2,$3,$4)
			RETURNING id
		`, o.ID, items[i].ProductID, items[i].Quantity, items[i].PriceAtPurchase,
		).Scan(&items[i].ID)
		if err != nil {
			return nil, err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, items[i].Quantity, items[i].ProductID)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, fmt.Errorf("%w for %s. Available: 0", ErrInsufficientStock, items[i].ProductName)
		}
	}

	// 6. Clear the cart
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID,
	); err != nil {
		return nil, err
	}

	// 7. Bump the customer's purchase counter
	if _, err := tx.ExecContext(ctx,
		`UPDATE customers SET no_of_purchases = no_of_purchases + 1 WHERE id = $1`,
		params.CustomerID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	o.Items = items
	return o, nil
}

const orderColumns = `
	o.id, o.customer_id, o.order_date, o.status, o.payment_status,
	o.payment_mode, o.shipping_address, o.shipping_city, o.shipping_pincode,
	o.total_price
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.PaymentStatus,
		&o.PaymentMode, &o.ShippingAddress, &o.ShippingCity, &o.ShippingPincode,
		&o.TotalPrice,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.customer_id = $1
		ORDER BY o.order_date DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.itemsForOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

// ListByRetailer returns orders that contain at least one of the
// retailer's products.
func (r *repository) ListByRetailer(ctx context.Context, retailerID int64) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT `+orderColumns+`
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.retailer_id = $1
		ORDER BY o.order_date DESC
	`, retailerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.itemsForOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *repository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) itemsForOrder(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase, p.name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase, &it.ProductName)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) RetailerOwnsOrder(ctx context.Context, retailerID, orderID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = $1 AND p.retailer_id = $2
		)
	`, orderID, retailerID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status *Status, paymentStatus *PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = COALESCE($1, status),
		    payment_status = COALESCE($2, payment_status)
		WHERE id = $3
	`, status, paymentStatus, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) GetCustomerContact(ctx context.Context, orderID int64) (*CustomerContact, error) {
	var c CustomerContact
	err := r.db.QueryRowContext(ctx, `
		SELECT c.name, c.email
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE o.id = $1
	`, orderID).Scan(&c.Name, &c.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CustomerHistory(ctx context.Context, retailerID int64) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.order_date, c.name, c.email, p.name, oi.quantity,
		       oi.quantity * oi.price_at_purchase
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN customers c ON c.id = o.customer_id
		JOIN products p ON p.id = oi.product_id
		WHERE p.retailer_id = $1
		ORDER BY o.order_date DESC
	`, retailerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		err := rows.Scan(&e.OrderID, &e.Date, &e.CustomerName, &e.CustomerEmail,
			&e.ProductName, &e.Quantity, &e.TotalPaid)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
