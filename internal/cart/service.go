package cart

import (
	"context"
	"fmt"

	"livemart-be/internal/logger"
	"livemart-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	// GetCart returns the customer's cart with detailed lines, lazily
	// creating the cart row on first access.
	GetCart(ctx context.Context, customerID int64) (*Cart, []DetailedItem, int, error)
	// AddItem applies a signed quantity delta to a cart line. A resulting
	// quantity of zero or less removes the line and returns nil.
	AddItem(ctx context.Context, customerID, productID int64, quantity int) (*CartItem, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) getOrCreateCart(ctx context.Context, customerID int64) (*Cart, error) {
	c, err := s.repo.GetCartByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	return s.repo.CreateCart(ctx, customerID)
}

func (s *service) GetCart(ctx context.Context, customerID int64) (*Cart, []DetailedItem, int, error) {
	c, err := s.getOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, nil, 0, err
	}

	items, err := s.repo.GetDetailedItems(ctx, c.ID)
	if err != nil {
		return nil, nil, 0, err
	}

	totalSize := 0
	for _, item := range items {
		totalSize += item.Quantity
	}

	return c, items, totalSize, nil
}

func (s *service) AddItem(ctx context.Context, customerID, productID int64, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("customer_id", customerID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	c, err := s.getOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetItem(ctx, c.ID, productID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}

	// A decrement past zero removes the line entirely.
	if existing != nil && newQuantity <= 0 {
		if err := s.repo.DeleteItem(ctx, existing.ID); err != nil {
			return nil, err
		}
		log.Info("cart line removed")
		return nil, nil
	}

	if p.Stock < newQuantity {
		return nil, fmt.Errorf("%w for %s. Available: %d", ErrInsufficientStock, p.Name, p.Stock)
	}

	if existing != nil {
		return s.repo.UpdateItemQuantity(ctx, existing.ID, newQuantity)
	}

	if quantity <= 0 {
		// Nothing to decrement; mirror the removal contract.
		return nil, nil
	}

	item, err := s.repo.CreateItem(ctx, c.ID, productID, quantity)
	if err != nil {
		return nil, err
	}

	log.Info("cart line added", zap.Int64("cart_item_id", item.ID))
	return item, nil
}
