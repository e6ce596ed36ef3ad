package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"livemart-be/internal/account"
	"livemart-be/internal/logger"
	"livemart-be/internal/transport"
	"livemart-be/internal/wholesale"
)

func (s *Server) handleCreateWholesaleProduct(w http.ResponseWriter, r *http.Request) {
	wholesaler, ok := s.currentBusiness(w, r, account.RoleWholesaler)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	name := r.FormValue("name")
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, stockErr := strconv.Atoi(r.FormValue("stock"))
	minQty, minQtyErr := strconv.Atoi(r.FormValue("min_qty"))
	if name == "" || priceErr != nil || stockErr != nil || minQtyErr != nil {
		transport.WriteError(w, http.StatusBadRequest, "name, price, stock and min_qty are required")
		return
	}
	if price < 0 || stock < 0 || minQty < 1 {
		transport.WriteError(w, http.StatusBadRequest, "invalid price, stock or min_qty")
		return
	}

	p, err := s.wholesale.AddProduct(r.Context(), wholesaler.ID, wholesale.CreateProductParams{
		Name:   name,
		Price:  price,
		Stock:  stock,
		MinQty: minQty,
	})
	if err != nil {
		logger.FromCtx(r.Context()).Error("create wholesale product", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not create product")
		return
	}

	// Product row is already committed; a failed upload only drops the image.
	if url, upErr := saveUpload(r, "image", s.cfg.ProductImageDir, "/product_images"); upErr != nil {
		logger.FromCtx(r.Context()).Warn("save wholesale product image", zap.Error(upErr))
	} else if url != nil {
		if err := s.wholesale.SetProductImage(r.Context(), wholesaler.ID, p.ID, *url); err != nil {
			logger.FromCtx(r.Context()).Warn("attach wholesale product image", zap.Error(err))
		} else {
			p.ImageURL = url
		}
	}

	transport.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) handleWholesaleProducts(w http.ResponseWriter, r *http.Request) {
	wholesaler, ok := s.currentBusiness(w, r, account.RoleWholesaler)
	if !ok {
		return
	}

	products, err := s.wholesale.ListProducts(r.Context(), wholesaler.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list wholesale products", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if products == nil {
		products = []*wholesale.Product{}
	}
	transport.WriteJSON(w, http.StatusOK, products)
}

type updateWholesaleProductRequest struct {
	Price  *float64 `json:"price"`
	Stock  *int     `json:"stock"`
	MinQty *int     `json:"min_qty"`
}

func (s *Server) handleUpdateWholesaleProduct(w http.ResponseWriter, r *http.Request) {
	wholesaler, ok := s.currentBusiness(w, r, account.RoleWholesaler)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateWholesaleProductRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		transport.WriteError(w, http.StatusBadRequest, "price must be non-negative")
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		transport.WriteError(w, http.StatusBadRequest, "stock must be non-negative")
		return
	}
	if req.MinQty != nil && *req.MinQty < 1 {
		transport.WriteError(w, http.StatusBadRequest, "min_qty must be at least 1")
		return
	}

	p, err := s.wholesale.UpdateProduct(r.Context(), wholesaler.ID, id, wholesale.UpdateProductParams{
		Price:  req.Price,
		Stock:  req.Stock,
		MinQty: req.MinQty,
	})
	switch {
	case errors.Is(err, wholesale.ErrProductNotFound):
		transport.WriteError(w, http.StatusNotFound, "product not found")
		return
	case errors.Is(err, wholesale.ErrNotOwner):
		transport.WriteError(w, http.StatusForbidden, "you do not own this product")
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("update wholesale product", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not update product")
		return
	}
	transport.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleWholesaleMarket(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentBusiness(w, r, account.RoleRetailer); !ok {
		return
	}

	products, err := s.wholesale.Market(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Error("wholesale market", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load market")
		return
	}
	if products == nil {
		products = []*wholesale.MarketProduct{}
	}
	transport.WriteJSON(w, http.StatusOK, products)
}

type placeWholesaleOrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) handlePlaceWholesaleOrder(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	var req placeWholesaleOrderRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == 0 || req.Quantity <= 0 {
		transport.WriteError(w, http.StatusBadRequest, "product_id and a positive quantity are required")
		return
	}

	o, err := s.wholesale.PlaceOrder(r.Context(), retailer.ID, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, wholesale.ErrProductNotFound):
		transport.WriteError(w, http.StatusNotFound, "wholesale product not found")
		return
	case errors.Is(err, wholesale.ErrBelowMinQuantity),
		errors.Is(err, wholesale.ErrInsufficientStock):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("place wholesale order", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not place order")
		return
	}

	transport.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) handleRetailerWholesaleOrders(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	orders, err := s.wholesale.OrdersByRetailer(r.Context(), retailer.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list retailer wholesale orders", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []*wholesale.Order{}
	}
	transport.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) handleWholesaleOrders(w http.ResponseWriter, r *http.Request) {
	wholesaler, ok := s.currentBusiness(w, r, account.RoleWholesaler)
	if !ok {
		return
	}

	orders, err := s.wholesale.ListOrders(r.Context(), wholesaler.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list wholesale orders", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []*wholesale.Order{}
	}
	transport.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) handleWholesaleHistory(w http.ResponseWriter, r *http.Request) {
	wholesaler, ok := s.currentBusiness(w, r, account.RoleWholesaler)
	if !ok {
		return
	}

	orders, err := s.wholesale.History(r.Context(), wholesaler.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("wholesale history", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	if orders == nil {
		orders = []*wholesale.Order{}
	}
	transport.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) handleUpdateWholesaleOrderStatus(w http.ResponseWriter, r *http.Request) {
	wholesaler, ok := s.currentBusiness(w, r, account.RoleWholesaler)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := s.wholesale.UpdateOrderStatus(r.Context(), wholesaler.ID, id, wholesale.Status(req.Status))
	switch {
	case errors.Is(err, wholesale.ErrOrderNotFound):
		transport.WriteError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, wholesale.ErrNotOwner):
		transport.WriteError(w, http.StatusForbidden, "order does not belong to you")
		return
	case errors.Is(err, wholesale.ErrInvalidStatus), errors.Is(err, wholesale.ErrInvalidTransition):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("update wholesale order status", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not update order")
		return
	}

	transport.WriteJSON(w, http.StatusOK, o)
}
