package product

type Product struct {
	ID          int64   `json:"id"`
	RetailerID  int64   `json:"retailer_id"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url,omitempty"`

	// Set when the product was created from (or merged with) a wholesale
	// shipment line, so later shipments restock instead of duplicating.
	SourceWholesaleProductID *int64 `json:"source_wholesale_product_id,omitempty"`
}

type Filter struct {
	Search     *string
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string // newest | price_low | price_high
}

type CreateParams struct {
	RetailerID  int64
	CategoryID  *int64
	Name        string
	Description *string
	Price       float64
	Stock       int
	ImageURL    *string
}

type UpdateParams struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Price       *float64
	Stock       *int
	ImageURL    *string
}
