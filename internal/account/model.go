package account

import "time"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRetailer   Role = "retailer"
	RoleWholesaler Role = "wholesaler"
)

type Customer struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	ProfilePic     *string   `json:"profile_pic,omitempty"`
	DateJoined     time.Time `json:"date_joined"`

	DeliveryAddress *string  `json:"delivery_address,omitempty"`
	City            *string  `json:"city,omitempty"`
	State           *string  `json:"state,omitempty"`
	Pincode         *string  `json:"pincode,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lon             *float64 `json:"lon,omitempty"`

	PhoneNumber   *string `json:"phone_number,omitempty"`
	NoOfPurchases int     `json:"no_of_purchases"`
	IsVerified    bool    `json:"is_verified"`
}

// Business holds the shared shape of retailer and wholesaler accounts.
type Business struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	ProfilePic     *string   `json:"profile_pic,omitempty"`
	DateJoined     time.Time `json:"date_joined"`

	BusinessName        string  `json:"business_name"`
	BusinessDescription *string `json:"business_description,omitempty"`
	PhoneNumber         *string `json:"phone_number,omitempty"`
	TaxID               *string `json:"tax_id,omitempty"`

	Address string   `json:"address"`
	City    string   `json:"city"`
	State   string   `json:"state"`
	Pincode string   `json:"pincode"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`

	IsActive   bool `json:"is_active"`
	IsVerified bool `json:"is_verified"`
}

type Retailer = Business
type Wholesaler = Business

// RetailerLocation is the map pin payload for stores with coordinates.
type RetailerLocation struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}
