package wholesale

import (
	"context"

	"go.uber.org/zap"

	"livemart-be/internal/logger"
)

type Service interface {
	AddProduct(ctx context.Context, wholesalerID int64, params CreateProductParams) (*Product, error)
	ListProducts(ctx context.Context, wholesalerID int64) ([]*Product, error)
	UpdateProduct(ctx context.Context, wholesalerID, productID int64, params UpdateProductParams) (*Product, error)
	SetProductImage(ctx context.Context, wholesalerID, productID int64, imageURL string) error
	Market(ctx context.Context) ([]*MarketProduct, error)

	PlaceOrder(ctx context.Context, retailerID, productID int64, quantity int) (*Order, error)
	ListOrders(ctx context.Context, wholesalerID int64) ([]*Order, error)
	History(ctx context.Context, wholesalerID int64) ([]*Order, error)
	OrdersByRetailer(ctx context.Context, retailerID int64) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, wholesalerID, orderID int64, status Status) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddProduct(ctx context.Context, wholesalerID int64, params CreateProductParams) (*Product, error) {
	if params.MinQty < 1 {
		params.MinQty = 1
	}
	return s.repo.CreateProduct(ctx, wholesalerID, params)
}

func (s *service) ListProducts(ctx context.Context, wholesalerID int64) ([]*Product, error) {
	return s.repo.ListByWholesaler(ctx, wholesalerID)
}

func (s *service) UpdateProduct(ctx context.Context, wholesalerID, productID int64, params UpdateProductParams) (*Product, error) {
	if err := s.requireOwner(ctx, wholesalerID, productID); err != nil {
		return nil, err
	}
	return s.repo.UpdateProduct(ctx, productID, params)
}

func (s *service) SetProductImage(ctx context.Context, wholesalerID, productID int64, imageURL string) error {
	if err := s.requireOwner(ctx, wholesalerID, productID); err != nil {
		return err
	}
	return s.repo.UpdateProductImage(ctx, productID, imageURL)
}

func (s *service) requireOwner(ctx context.Context, wholesalerID, productID int64) error {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if p.WholesalerID != wholesalerID {
		return ErrNotOwner
	}
	return nil
}

func (s *service) Market(ctx context.Context) ([]*MarketProduct, error) {
	return s.repo.Market(ctx)
}

func (s *service) PlaceOrder(ctx context.Context, retailerID, productID int64, quantity int) (*Order, error) {
	o, err := s.repo.PlaceOrder(ctx, retailerID, productID, quantity)
	if err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("wholesale order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("retailer_id", retailerID),
		zap.Int64("wholesaler_id", o.WholesalerID),
	)
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, wholesalerID int64) ([]*Order, error) {
	return s.repo.ListOrders(ctx, wholesalerID, []Status{StatusPending, StatusProcessing})
}

func (s *service) History(ctx context.Context, wholesalerID int64) ([]*Order, error) {
	return s.repo.ListOrders(ctx, wholesalerID, []Status{StatusApproved, StatusShipped, StatusDelivered})
}

func (s *service) OrdersByRetailer(ctx context.Context, retailerID int64) ([]*Order, error) {
	return s.repo.ListOrdersByRetailer(ctx, retailerID)
}

// UpdateOrderStatus applies a wholesaler-side status change. Moving an
// order to Shipped also restocks the ordering retailer atomically.
func (s *service) UpdateOrderStatus(ctx context.Context, wholesalerID, orderID int64, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if o.WholesalerID != wholesalerID {
		return nil, ErrNotOwner
	}
	if status != o.Status && !o.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if status == StatusShipped {
		if err := s.repo.Ship(ctx, orderID); err != nil {
			return nil, err
		}
		logger.FromCtx(ctx).Info("wholesale order shipped",
			zap.Int64("order_id", orderID),
			zap.Int64("retailer_id", o.RetailerID),
		)
	} else if err := s.repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	o.Status = status
	return o, nil
}
