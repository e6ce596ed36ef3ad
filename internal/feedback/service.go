package feedback

import (
	"context"

	"livemart-be/internal/product"
)

type Service interface {
	Add(ctx context.Context, customerID, productID int64, rating int, comment string) (*Feedback, error)
	ListByProduct(ctx context.Context, productID int64) ([]*Feedback, error)
	ListByRetailer(ctx context.Context, retailerID int64) ([]*Feedback, error)
}

type service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) Service {
	return &service{repo: repo, products: products}
}

func (s *service) Add(ctx context.Context, customerID, productID int64, rating int, comment string) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	f := &Feedback{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) ListByProduct(ctx context.Context, productID int64) ([]*Feedback, error) {
	return s.repo.ListByProduct(ctx, productID)
}

func (s *service) ListByRetailer(ctx context.Context, retailerID int64) ([]*Feedback, error) {
	return s.repo.ListByRetailer(ctx, retailerID)
}
