package order

import (
	"context"

	"go.uber.org/zap"

	"livemart-be/internal/logger"
	"livemart-be/internal/mail"
)

type Service interface {
	Checkout(ctx context.Context, contact CustomerContact, params CheckoutParams) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error)
	ListByRetailer(ctx context.Context, retailerID int64) ([]*Order, error)
	GetForRetailer(ctx context.Context, retailerID, orderID int64) (*Order, error)
	UpdateStatus(ctx context.Context, retailerID, orderID int64, status *Status, paymentStatus *PaymentStatus) (*Order, error)
	CustomerHistory(ctx context.Context, retailerID int64) ([]HistoryEntry, error)
}

type service struct {
	repo   Repository
	mailer mail.Dispatcher
}

func NewService(repo Repository, mailer mail.Dispatcher) Service {
	return &service{repo: repo, mailer: mailer}
}

func (s *service) Checkout(ctx context.Context, contact CustomerContact, params CheckoutParams) (*Order, error) {
	log := logger.FromCtx(ctx)

	o, err := s.repo.Checkout(ctx, params)
	if err != nil {
		return nil, err
	}

	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("customer_id", o.CustomerID),
		zap.Float64("total_price", o.TotalPrice),
	)

	// Confirmation goes out only after the transaction committed.
	items := make([]mail.ConfirmationItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, mail.ConfirmationItem{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    it.PriceAtPurchase,
		})
	}
	s.mailer.Send(
		contact.Email,
		mail.OrderConfirmationSubject(o.ID),
		mail.OrderConfirmationBody(contact.Name, o.ID, o.TotalPrice, items, o.ShippingAddress),
	)

	return o, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListByRetailer(ctx context.Context, retailerID int64) ([]*Order, error) {
	return s.repo.ListByRetailer(ctx, retailerID)
}

func (s *service) GetForRetailer(ctx context.Context, retailerID, orderID int64) (*Order, error) {
	owns, err := s.repo.RetailerOwnsOrder(ctx, retailerID, orderID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrNotOwner
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// UpdateStatus applies a retailer's status or payment-status change and,
// when the order status actually changed, notifies the customer.
func (s *service) UpdateStatus(ctx context.Context, retailerID, orderID int64, status *Status, paymentStatus *PaymentStatus) (*Order, error) {
	if status == nil && paymentStatus == nil {
		return nil, ErrInvalidStatus
	}
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if paymentStatus != nil && !paymentStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	owns, err := s.repo.RetailerOwnsOrder(ctx, retailerID, orderID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrNotOwner
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrOrderNotFound
	}

	statusChanged := false
	if status != nil && *status != current.Status {
		if !current.Status.CanTransitionTo(*status) {
			return nil, ErrInvalidTransition
		}
		statusChanged = true
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status, paymentStatus); err != nil {
		return nil, err
	}

	if statusChanged {
		if contact, err := s.repo.GetCustomerContact(ctx, orderID); err != nil {
			logger.FromCtx(ctx).Error("look up order customer",
				zap.Int64("order_id", orderID),
				zap.Error(err),
			)
		} else if contact != nil {
			s.mailer.Send(
				contact.Email,
				mail.StatusUpdateSubject(orderID, string(*status)),
				mail.StatusUpdateBody(contact.Name, orderID, string(*status)),
			)
		}
	}

	updated := *current
	if status != nil {
		updated.Status = *status
	}
	if paymentStatus != nil {
		updated.PaymentStatus = *paymentStatus
	}
	return &updated, nil
}

func (s *service) CustomerHistory(ctx context.Context, retailerID int64) ([]HistoryEntry, error) {
	return s.repo.CustomerHistory(ctx, retailerID)
}
