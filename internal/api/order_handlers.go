package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"livemart-be/internal/account"
	"livemart-be/internal/logger"
	"livemart-be/internal/order"
	"livemart-be/internal/transport"
)

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingPincode string `json:"shipping_pincode"`
	PaymentMode     string `json:"payment_mode"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ShippingAddress == "" || req.ShippingCity == "" || req.ShippingPincode == "" {
		transport.WriteError(w, http.StatusBadRequest, "shipping address, city and pincode are required")
		return
	}
	if req.PaymentMode == "" {
		req.PaymentMode = "COD"
	}

	o, err := s.orders.Checkout(r.Context(),
		order.CustomerContact{Name: c.Name, Email: c.Email},
		order.CheckoutParams{
			CustomerID:      c.ID,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingPincode: req.ShippingPincode,
			PaymentMode:     req.PaymentMode,
		})
	switch {
	case errors.Is(err, order.ErrCartEmpty):
		transport.WriteError(w, http.StatusBadRequest, "cart is empty")
		return
	case errors.Is(err, order.ErrProductGone):
		transport.WriteError(w, http.StatusNotFound, "a product in your cart no longer exists")
		return
	case errors.Is(err, order.ErrInsufficientStock):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("checkout", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not place order")
		return
	}

	transport.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) handleCustomerOrders(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	orders, err := s.orders.ListByCustomer(r.Context(), c.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list customer orders", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	transport.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) handleRetailerOrders(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	orders, err := s.orders.ListByRetailer(r.Context(), retailer.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list retailer orders", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	transport.WriteJSON(w, http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var status *order.Status
	if req.Status != nil {
		v := order.Status(*req.Status)
		status = &v
	}
	var paymentStatus *order.PaymentStatus
	if req.PaymentStatus != nil {
		v := order.PaymentStatus(*req.PaymentStatus)
		paymentStatus = &v
	}

	o, err := s.orders.UpdateStatus(r.Context(), retailer.ID, id, status, paymentStatus)
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		transport.WriteError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, order.ErrNotOwner):
		transport.WriteError(w, http.StatusForbidden, "order does not contain your products")
		return
	case errors.Is(err, order.ErrInvalidStatus), errors.Is(err, order.ErrInvalidTransition):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("update order status", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not update order")
		return
	}

	transport.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) handleCustomerHistory(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	entries, err := s.orders.CustomerHistory(r.Context(), retailer.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("customer history", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	if entries == nil {
		entries = []order.HistoryEntry{}
	}
	transport.WriteJSON(w, http.StatusOK, entries)
}
