package cart

import "livemart-be/internal/product"

type Cart struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customer_id"`
}

type CartItem struct {
	ID        int64 `json:"id"`
	CartID    int64 `json:"cart_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// DetailedItem is a cart line joined with its product.
type DetailedItem struct {
	CartItemID int64           `json:"cart_item_id"`
	Quantity   int             `json:"quantity"`
	Product    product.Product `json:"product"`
}
