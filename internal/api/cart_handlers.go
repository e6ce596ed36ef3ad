package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"livemart-be/internal/cart"
	"livemart-be/internal/logger"
	"livemart-be/internal/transport"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	_, items, totalSize, err := s.carts.GetCart(r.Context(), c.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("get cart", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load cart")
		return
	}
	if items == nil {
		items = []cart.DetailedItem{}
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"total_size": totalSize,
	})
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// handleAddToCart takes a signed quantity delta; a negative value
// shrinks or removes the line.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == 0 || req.Quantity == 0 {
		transport.WriteError(w, http.StatusBadRequest, "product_id and a non-zero quantity are required")
		return
	}

	item, err := s.carts.AddItem(r.Context(), c.ID, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		transport.WriteError(w, http.StatusNotFound, "product not found")
		return
	case errors.Is(err, cart.ErrInsufficientStock):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("add to cart", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not update cart")
		return
	}

	if item == nil {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}
