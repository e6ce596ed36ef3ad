package wholesale

import "time"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusApproved   Status = "Approved"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusRejected   Status = "Rejected"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusProcessing, StatusShipped, StatusRejected},
	StatusApproved:   {StatusProcessing, StatusShipped},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusRejected:   {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Product struct {
	ID           int64   `json:"id"`
	WholesalerID int64   `json:"wholesaler_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	MinQty       int     `json:"min_qty"`
	ImageURL     *string `json:"image_url,omitempty"`
}

// MarketProduct is a wholesaler product as retailers see it on the
// wholesale market, with the supplier attached.
type MarketProduct struct {
	Product
	WholesalerName string `json:"wholesaler_name"`
}

type Order struct {
	ID              int64     `json:"id"`
	RetailerID      int64     `json:"retailer_id"`
	WholesalerID    int64     `json:"wholesaler_id"`
	Status          Status    `json:"status"`
	TotalPrice      float64   `json:"total_price"`
	DeliveryAddress string    `json:"delivery_address"`
	OrderDate       time.Time `json:"order_date"`

	RetailerName string      `json:"retailer_name,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID                  int64   `json:"id"`
	WholesaleOrderID    int64   `json:"wholesale_order_id"`
	WholesalerProductID int64   `json:"wholesaler_product_id"`
	Quantity            int     `json:"quantity"`
	PricePerUnit        float64 `json:"price_per_unit"`

	ProductName string `json:"product_name,omitempty"`
}

type CreateProductParams struct {
	Name   string
	Price  float64
	Stock  int
	MinQty int
}

type UpdateProductParams struct {
	Price  *float64
	Stock  *int
	MinQty *int
}

// restockMarkup is applied to the wholesale unit price when shipping
// creates a retail product that did not exist before.
const restockMarkup = 1.2
