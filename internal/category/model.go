package category

type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// DefaultCategoryID is assigned to products created automatically, e.g. when
// a wholesale shipment lands in a retailer catalog that has no match.
const DefaultCategoryID int64 = 1
