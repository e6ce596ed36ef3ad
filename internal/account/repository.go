package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) (*Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	FindCustomerByID(ctx context.Context, id int64) (*Customer, error)
	UpdateCustomerName(ctx context.Context, id int64, name string) error
	UpdateCustomerProfilePic(ctx context.Context, id int64, path string) error

	CreateBusiness(ctx context.Context, role Role, b *Business) (*Business, error)
	FindBusinessByEmail(ctx context.Context, role Role, email string) (*Business, error)
	ListRetailerLocations(ctx context.Context) ([]*RetailerLocation, error)

	// MarkVerified flips is_verified on every role table holding the email
	// and reports whether any row was touched.
	MarkVerified(ctx context.Context, email string) (bool, error)
	// UpdatePasswordByEmail rehashes across every role table holding the email.
	UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func tableFor(role Role) (string, error) {
	switch role {
	case RoleRetailer:
		return "retailers", nil
	case RoleWholesaler:
		return "wholesalers", nil
	default:
		return "", ErrRoleUnknown
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

func (r *repository) CreateCustomer(ctx context.Context, c *Customer) (*Customer, error) {
	query := `
		INSERT INTO customers (
			name, email, hashed_password, profile_pic,
			delivery_address, city, state, pincode, phone_number, lat, lon
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, date_joined, no_of_purchases, is_verified
	`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Email, c.HashedPassword, c.ProfilePic,
		c.DeliveryAddress, c.City, c.State, c.Pincode, c.PhoneNumber, c.Lat, c.Lon,
	).Scan(&c.ID, &c.DateJoined, &c.NoOfPurchases, &c.IsVerified)

	if isUniqueViolation(err) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

const customerColumns = `
	id, name, email, hashed_password, profile_pic, date_joined,
	delivery_address, city, state, pincode, lat, lon,
	phone_number, no_of_purchases, is_verified
`

func scanCustomer(row *sql.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.HashedPassword, &c.ProfilePic, &c.DateJoined,
		&c.DeliveryAddress, &c.City, &c.State, &c.Pincode, &c.Lat, &c.Lon,
		&c.PhoneNumber, &c.NoOfPurchases, &c.IsVerified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
	return scanCustomer(row)
}

func (r *repository) FindCustomerByID(ctx context.Context, id int64) (*Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

func (r *repository) UpdateCustomerName(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateCustomerProfilePic(ctx context.Context, id int64, path string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET profile_pic = $1 WHERE id = $2`, path, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CreateBusiness(ctx context.Context, role Role, b *Business) (*Business, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			name, email, hashed_password, profile_pic,
			business_name, business_description, phone_number, tax_id,
			address, city, state, pincode, lat, lon
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, date_joined, is_active, is_verified
	`, table)

	err = r.db.QueryRowContext(ctx, query,
		b.Name, b.Email, b.HashedPassword, b.ProfilePic,
		b.BusinessName, b.BusinessDescription, b.PhoneNumber, b.TaxID,
		b.Address, b.City, b.State, b.Pincode, b.Lat, b.Lon,
	).Scan(&b.ID, &b.DateJoined, &b.IsActive, &b.IsVerified)

	if isUniqueViolation(err) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (r *repository) FindBusinessByEmail(ctx context.Context, role Role, email string) (*Business, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			id, name, email, hashed_password, profile_pic, date_joined,
			business_name, business_description, phone_number, tax_id,
			address, city, state, pincode, lat, lon,
			is_active, is_verified
		FROM %s
		WHERE email = $1
	`, table)

	var b Business
	err = r.db.QueryRowContext(ctx, query, email).Scan(
		&b.ID, &b.Name, &b.Email, &b.HashedPassword, &b.ProfilePic, &b.DateJoined,
		&b.BusinessName, &b.BusinessDescription, &b.PhoneNumber, &b.TaxID,
		&b.Address, &b.City, &b.State, &b.Pincode, &b.Lat, &b.Lon,
		&b.IsActive, &b.IsVerified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListRetailerLocations(ctx context.Context) ([]*RetailerLocation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, business_name, lat, lon, address
		FROM retailers
		WHERE lat IS NOT NULL AND lon IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*RetailerLocation
	for rows.Next() {
		var l RetailerLocation
		if err := rows.Scan(&l.ID, &l.Name, &l.Lat, &l.Lon, &l.Address); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *repository) MarkVerified(ctx context.Context, email string) (bool, error) {
	touched := false
	for _, table := range []string{"customers", "retailers", "wholesalers"} {
		res, err := r.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET is_verified = TRUE WHERE email = $1`, table), email)
		if err != nil {
			return false, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			touched = true
		}
	}
	return touched, nil
}

func (r *repository) UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) (bool, error) {
	touched := false
	for _, table := range []string{"customers", "retailers", "wholesalers"} {
		res, err := r.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET hashed_password = $1 WHERE email = $2`, table),
			hashedPassword, email)
		if err != nil {
			return false, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			touched = true
		}
	}
	return touched, nil
}
