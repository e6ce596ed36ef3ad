package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutParams() CheckoutParams {
	return CheckoutParams{
		CustomerID:      1,
		ShippingAddress: "12 Market Road",
		ShippingCity:    "Pune",
		ShippingPincode: "411001",
		PaymentMode:     "COD",
	}
}

func TestRepository_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM carts WHERE customer_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`SELECT product_id, quantity\s+FROM cart_items`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow(10, 3))
		mock.ExpectQuery(`SELECT name, price, stock FROM products WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "price", "stock"}).
				AddRow("Basmati Rice", 120.0, 5))
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(int64(1), StatusPending, PaymentPending, "COD",
				"12 Market Road", "Pune", "411001", 360.0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).
				AddRow(42, time.Now()))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(int64(42), int64(10), 3, 120.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
		mock.ExpectExec(`UPDATE products\s+SET stock = stock - \$1\s+WHERE id = \$2 AND stock >= \$1`).
			WithArgs(3, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM cart_items WHERE cart_id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE customers SET no_of_purchases = no_of_purchases \+ 1`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		o, err := repo.Checkout(ctx, checkoutParams())
		require.NoError(t, err)
		assert.Equal(t, int64(42), o.ID)
		assert.Equal(t, 360.0, o.TotalPrice)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 120.0, o.Items[0].PriceAtPurchase)
		assert.Equal(t, "Basmati Rice", o.Items[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyCart", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM carts WHERE customer_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`SELECT product_id, quantity\s+FROM cart_items`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}))
		mock.ExpectRollback()

		_, err = repo.Checkout(ctx, checkoutParams())
		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoCart", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM carts WHERE customer_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err = repo.Checkout(ctx, checkoutParams())
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM carts WHERE customer_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`SELECT product_id, quantity\s+FROM cart_items`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow(10, 3))
		mock.ExpectQuery(`SELECT name, price, stock FROM products WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "price", "stock"}).
				AddRow("Basmati Rice", 120.0, 2))
		mock.ExpectRollback()

		_, err = repo.Checkout(ctx, checkoutParams())
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Basmati Rice")
		assert.Contains(t, err.Error(), "Available: 2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConcurrentDecrementLost", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM carts WHERE customer_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`SELECT product_id, quantity\s+FROM cart_items`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow(10, 3))
		mock.ExpectQuery(`SELECT name, price, stock FROM products WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "price", "stock"}).
				AddRow("Basmati Rice", 120.0, 5))
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).
				AddRow(42, time.Now()))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
		// Guarded update matches no rows: someone else took the stock first
		mock.ExpectExec(`UPDATE products\s+SET stock = stock - \$1`).
			WithArgs(3, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err = repo.Checkout(ctx, checkoutParams())
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		status := StatusShipped
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(&status, nil, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.UpdateStatus(ctx, 42, &status, nil)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		status := StatusShipped
		mock.ExpectExec(`UPDATE orders`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateStatus(ctx, 42, &status, nil)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_RetailerOwnsOrder(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(42), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	owns, err := repo.RetailerOwnsOrder(ctx, 3, 42)
	require.NoError(t, err)
	assert.True(t, owns)

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("db error"))
	_, err = repo.RetailerOwnsOrder(ctx, 3, 42)
	assert.Error(t, err)
}

func TestRepository_ListByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	placed := time.Date(2025, 5, 10, 11, 0, 0, 0, time.UTC)

	orderRows := sqlmock.NewRows([]string{
		"id", "customer_id", "order_date", "status", "payment_status",
		"payment_mode", "shipping_address", "shipping_city", "shipping_pincode",
		"total_price",
	}).AddRow(int64(5), int64(7), placed, string(StatusPending), string(PaymentPending),
		"COD", "14 Lake View", "Pune", "411001", 360.0)

	mock.ExpectQuery(`FROM orders o\s+WHERE o.customer_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(orderRows)

	// The line total comes from the stored snapshot column, never from the
	// live products table. The product has since been repriced to 150.
	itemRows := sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "quantity", "price_at_purchase", "name",
	}).AddRow(int64(1), int64(5), int64(10), 3, 120.0, "Basmati Rice")

	mock.ExpectQuery(`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase, p.name\s+FROM order_items oi`).
		WithArgs(int64(5)).
		WillReturnRows(itemRows)

	orders, err := repo.ListByCustomer(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 120.0, orders[0].Items[0].PriceAtPurchase)
	assert.NotEqual(t, 150.0, orders[0].Items[0].PriceAtPurchase)
	assert.Equal(t, 360.0, orders[0].TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
