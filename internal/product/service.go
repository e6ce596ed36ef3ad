package product

import (
	"context"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter Filter) ([]*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	ListByRetailer(ctx context.Context, retailerID int64) ([]*Product, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, retailerID, productID int64, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, retailerID, productID int64) error
	SetImage(ctx context.Context, productID int64, imageURL string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) ListByRetailer(ctx context.Context, retailerID int64) ([]*Product, error) {
	return s.repo.ListByRetailer(ctx, retailerID)
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	p, err := s.repo.Create(ctx, params)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create product",
			zap.Int64("retailer_id", params.RetailerID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.Int64("product_id", p.ID),
		zap.Int64("retailer_id", p.RetailerID),
	)
	return p, nil
}

// requireOwner loads the product and checks the retailer owns it.
func (s *service) requireOwner(ctx context.Context, retailerID, productID int64) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if p.RetailerID != retailerID {
		return ErrNotOwner
	}
	return nil
}

func (s *service) Update(ctx context.Context, retailerID, productID int64, params UpdateParams) (*Product, error) {
	if err := s.requireOwner(ctx, retailerID, productID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, productID, params)
}

func (s *service) Delete(ctx context.Context, retailerID, productID int64) error {
	if err := s.requireOwner(ctx, retailerID, productID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, productID)
}

func (s *service) SetImage(ctx context.Context, productID int64, imageURL string) error {
	return s.repo.UpdateImageURL(ctx, productID, imageURL)
}
