package wholesale

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"livemart-be/internal/category"
)

type Repository interface {
	CreateProduct(ctx context.Context, wholesalerID int64, params CreateProductParams) (*Product, error)
	ListByWholesaler(ctx context.Context, wholesalerID int64) ([]*Product, error)
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	UpdateProduct(ctx context.Context, productID int64, params UpdateProductParams) (*Product, error)
	UpdateProductImage(ctx context.Context, productID int64, imageURL string) error
	Market(ctx context.Context) ([]*MarketProduct, error)

	PlaceOrder(ctx context.Context, retailerID, productID int64, quantity int) (*Order, error)
	ListOrders(ctx context.Context, wholesalerID int64, statuses []Status) ([]*Order, error)
	ListOrdersByRetailer(ctx context.Context, retailerID int64) ([]*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error
	Ship(ctx context.Context, orderID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, wholesaler_id, name, price, stock, min_qty, image_url`

func scanProduct(row interface{ Scan(dest ...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.WholesalerID, &p.Name, &p.Price, &p.Stock, &p.MinQty, &p.ImageURL)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreateProduct(ctx context.Context, wholesalerID int64, params CreateProductParams) (*Product, error) {
	p := &Product{
		WholesalerID: wholesalerID,
		Name:         params.Name,
		Price:        params.Price,
		Stock:        params.Stock,
		MinQty:       params.MinQty,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO wholesaler_products (wholesaler_id, name, price, stock, min_qty)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, wholesalerID, params.Name, params.Price, params.Stock, params.MinQty).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ListByWholesaler(ctx context.Context, wholesalerID int64) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM wholesaler_products
		WHERE wholesaler_id = $1
		ORDER BY id DESC
	`, wholesalerID)
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

func (r *repository) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM wholesaler_products
		WHERE id = $1
	`, productID)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, productID int64, params UpdateProductParams) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE wholesaler_products
		SET price = COALESCE($1, price),
		    stock = COALESCE($2, stock),
		    min_qty = COALESCE($3, min_qty)
		WHERE id = $4
		RETURNING `+productColumns+`
	`, params.Price, params.Stock, params.MinQty, productID)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) UpdateProductImage(ctx context.Context, productID int64, imageURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wholesaler_products SET image_url = $1 WHERE id = $2
	`, imageURL, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Market(ctx context.Context) ([]*MarketProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT wp.id, wp.wholesaler_id, wp.name, wp.price, wp.stock, wp.min_qty,
		       wp.image_url, w.business_name
		FROM wholesaler_products wp
		JOIN wholesalers w ON w.id = wp.wholesaler_id
		WHERE wp.stock > 0
		ORDER BY wp.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*MarketProduct
	for rows.Next() {
		var p MarketProduct
		err := rows.Scan(&p.ID, &p.WholesalerID, &p.Name, &p.Price, &p.Stock,
			&p.MinQty, &p.ImageURL, &p.WholesalerName)
		if err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// PlaceOrder creates a retailer's wholesale order for a single product
// inside one transaction, decrementing wholesale stock with a guarded
// update.
func (r *repository) PlaceOrder(ctx context.Context, retailerID, productID int64, quantity int) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Load the wholesale product
	var (
		wholesalerID int64
		name         string
		price        float64
		stock        int
		minQty       int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT wholesaler_id, name, price, stock, min_qty
		FROM wholesaler_products
		WHERE id = $1
	`, productID).Scan(&wholesalerID, &name, &price, &stock, &minQty)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if quantity < minQty {
		return nil, fmt.Errorf("%w: minimum is %d", ErrBelowMinQuantity, minQty)
	}
	if stock < quantity {
		return nil, fmt.Errorf("%w for %s. Available: %d", ErrInsufficientStock, name, stock)
	}

	// 2. Deduct wholesale stock
	res, err := tx.ExecContext(ctx, `
		UPDATE wholesaler_products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`, quantity, productID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w for %s. Available: 0", ErrInsufficientStock, name)
	}

	// 3. Delivery goes to the retailer's registered address
	var address, city, pincode string
	err = tx.QueryRowContext(ctx, `
		SELECT address, city, pincode FROM retailers WHERE id = $1
	`, retailerID).Scan(&address, &city, &pincode)
	if err != nil {
		return nil, err
	}
	delivery := fmt.Sprintf("%s, %s - %s", address, city, pincode)

	// 4. Create the order with its single item
	o := &Order{
		RetailerID:      retailerID,
		WholesalerID:    wholesalerID,
		Status:          StatusPending,
		TotalPrice:      price * float64(quantity),
		DeliveryAddress: delivery,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO wholesale_orders (retailer_id, wholesaler_id, status, total_price, delivery_address)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, order_date
	`, o.RetailerID, o.WholesalerID, o.Status, o.TotalPrice, o.DeliveryAddress,
	).Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return nil, err
	}

	item := OrderItem{
		WholesaleOrderID:    o.ID,
		WholesalerProductID: productID,
		Quantity:            quantity,
		PricePerUnit:        price,
		ProductName:         name,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO wholesale_order_items (wholesale_order_id, wholesaler_product_id, quantity, price_per_unit)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, item.WholesaleOrderID, item.WholesalerProductID, item.Quantity, item.PricePerUnit,
	).Scan(&item.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	o.Items = []OrderItem{item}
	return o, nil
}

const orderColumns = `
	wo.id, wo.retailer_id, wo.wholesaler_id, wo.status, wo.total_price,
	wo.delivery_address, wo.order_date
`

func (r *repository) ListOrders(ctx context.Context, wholesalerID int64, statuses []Status) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`, rt.business_name
		FROM wholesale_orders wo
		JOIN retailers rt ON rt.id = wo.retailer_id
		WHERE wo.wholesaler_id = $1 AND wo.status = ANY($2)
		ORDER BY wo.order_date DESC
	`, wholesalerID, statusArray(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.RetailerID, &o.WholesalerID, &o.Status,
			&o.TotalPrice, &o.DeliveryAddress, &o.OrderDate, &o.RetailerName)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
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

func (r *repository) ListOrdersByRetailer(ctx context.Context, retailerID int64) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM wholesale_orders wo
		WHERE wo.retailer_id = $1
		ORDER BY wo.order_date DESC
	`, retailerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.RetailerID, &o.WholesalerID, &o.Status,
			&o.TotalPrice, &o.DeliveryAddress, &o.OrderDate)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
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

func (r *repository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM wholesale_orders wo
		WHERE wo.id = $1
	`, orderID).Scan(&o.ID, &o.RetailerID, &o.WholesalerID, &o.Status,
		&o.TotalPrice, &o.DeliveryAddress, &o.OrderDate)
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
	return &o, nil
}

func (r *repository) itemsForOrder(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT woi.id, woi.wholesale_order_id, woi.wholesaler_product_id,
		       woi.quantity, woi.price_per_unit, wp.name
		FROM wholesale_order_items woi
		JOIN wholesaler_products wp ON wp.id = woi.wholesaler_product_id
		WHERE woi.wholesale_order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		err := rows.Scan(&it.ID, &it.WholesaleOrderID, &it.WholesalerProductID,
			&it.Quantity, &it.PricePerUnit, &it.ProductName)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wholesale_orders SET status = $1 WHERE id = $2
	`, status, orderID)
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

// Ship marks the order Shipped and restocks the ordering retailer's
// inventory in the same transaction. The status guard makes re-shipping
// a stock no-op.
func (r *repository) Ship(ctx context.Context, orderID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Flip the status, guarded against double shipping
	res, err := tx.ExecContext(ctx, `
		UPDATE wholesale_orders
		SET status = $1
		WHERE id = $2 AND status <> $1
	`, StatusShipped, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tx.Commit()
	}

	var retailerID int64
	err = tx.QueryRowContext(ctx,
		`SELECT retailer_id FROM wholesale_orders WHERE id = $1`, orderID,
	).Scan(&retailerID)
	if err != nil {
		return err
	}

	// 2. Restock the retailer for every shipped line
	rows, err := tx.QueryContext(ctx, `
		SELECT woi.wholesaler_product_id, woi.quantity, woi.price_per_unit, wp.name
		FROM wholesale_order_items woi
		JOIN wholesaler_products wp ON wp.id = woi.wholesaler_product_id
		WHERE woi.wholesale_order_id = $1
	`, orderID)
	if err != nil {
		return err
	}
	type line struct {
		productID int64
		quantity  int
		unitPrice float64
		name      string
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity, &l.unitPrice, &l.name); err != nil {
			rows.Close()
			return err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		if err := r.restockLine(ctx, tx, retailerID, l.productID, l.quantity, l.unitPrice, l.name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// restockLine increments the matching retail product, preferring the
// source link over a name match, and creates the product when neither
// exists.
func (r *repository) restockLine(ctx context.Context, tx *sql.Tx, retailerID, wsProductID int64, quantity int, unitPrice float64, name string) error {
	var productID int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM products
		WHERE retailer_id = $1 AND source_wholesale_product_id = $2
	`, retailerID, wsProductID).Scan(&productID)
	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM products
			WHERE retailer_id = $1 AND name = $2
			ORDER BY id
			LIMIT 1
		`, retailerID, name).Scan(&productID)
	}
	if err == nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET stock = stock + $1 WHERE id = $2
		`, quantity, productID)
		return err
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (retailer_id, category_id, name, description, price, stock, source_wholesale_product_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, retailerID, category.DefaultCategoryID, name, "Restocked from wholesale",
		unitPrice*restockMarkup, quantity, wsProductID)
	return err
}

func statusArray(statuses []Status) interface{} {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return pq.Array(out)
}
