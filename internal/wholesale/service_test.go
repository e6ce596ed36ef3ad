package wholesale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProduct(ctx context.Context, wholesalerID int64, params CreateProductParams) (*Product, error) {
	args := m.Called(ctx, wholesalerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) ListByWholesaler(ctx context.Context, wholesalerID int64) ([]*Product, error) {
	args := m.Called(ctx, wholesalerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) UpdateProduct(ctx context.Context, productID int64, params UpdateProductParams) (*Product, error) {
	args := m.Called(ctx, productID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) UpdateProductImage(ctx context.Context, productID int64, imageURL string) error {
	args := m.Called(ctx, productID, imageURL)
	return args.Error(0)
}

func (m *MockRepository) Market(ctx context.Context) ([]*MarketProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*MarketProduct), args.Error(1)
}

func (m *MockRepository) PlaceOrder(ctx context.Context, retailerID, productID int64, quantity int) (*Order, error) {
	args := m.Called(ctx, retailerID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListOrders(ctx context.Context, wholesalerID int64, statuses []Status) ([]*Order, error) {
	args := m.Called(ctx, wholesalerID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListOrdersByRetailer(ctx context.Context, retailerID int64) ([]*Order, error) {
	args := m.Called(ctx, retailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockRepository) Ship(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func TestService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	pendingOrder := func() *Order {
		return &Order{ID: 9, RetailerID: 3, WholesalerID: 5, Status: StatusPending}
	}

	t.Run("ShipRunsRestock", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetOrder", ctx, int64(9)).Return(pendingOrder(), nil)
		mockRepo.On("Ship", ctx, int64(9)).Return(nil)

		o, err := svc.UpdateOrderStatus(ctx, 5, 9, StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, StatusShipped, o.Status)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NonShipStatusPlainUpdate", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetOrder", ctx, int64(9)).Return(pendingOrder(), nil)
		mockRepo.On("UpdateOrderStatus", ctx, int64(9), StatusProcessing).Return(nil)

		o, err := svc.UpdateOrderStatus(ctx, 5, 9, StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, o.Status)
		mockRepo.AssertNotCalled(t, "Ship", mock.Anything, mock.Anything)
	})

	t.Run("ReShipIsAllowed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		shipped := &Order{ID: 9, WholesalerID: 5, Status: StatusShipped}
		mockRepo.On("GetOrder", ctx, int64(9)).Return(shipped, nil)
		mockRepo.On("Ship", ctx, int64(9)).Return(nil)

		_, err := svc.UpdateOrderStatus(ctx, 5, 9, StatusShipped)
		assert.NoError(t, err)
	})

	t.Run("NotOwner", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetOrder", ctx, int64(9)).Return(pendingOrder(), nil)

		_, err := svc.UpdateOrderStatus(ctx, 99, 9, StatusShipped)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetOrder", ctx, int64(9)).Return(nil, nil)

		_, err := svc.UpdateOrderStatus(ctx, 5, 9, StatusShipped)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.UpdateOrderStatus(ctx, 5, 9, Status("Lost"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("IllegalTransition", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		delivered := &Order{ID: 9, WholesalerID: 5, Status: StatusDelivered}
		mockRepo.On("GetOrder", ctx, int64(9)).Return(delivered, nil)

		_, err := svc.UpdateOrderStatus(ctx, 5, 9, StatusPending)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_ProductOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdateRejectsForeignProduct", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetProduct", ctx, int64(20)).
			Return(&Product{ID: 20, WholesalerID: 5}, nil)

		newPrice := 1800.0
		_, err := svc.UpdateProduct(ctx, 99, 20, UpdateProductParams{Price: &newPrice})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("UpdateMissingProduct", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetProduct", ctx, int64(20)).Return(nil, nil)

		_, err := svc.UpdateProduct(ctx, 5, 20, UpdateProductParams{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("AddDefaultsMinQty", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		expected := CreateProductParams{Name: "Rice", Price: 2000, Stock: 100, MinQty: 1}
		mockRepo.On("CreateProduct", ctx, int64(5), expected).
			Return(&Product{ID: 20, WholesalerID: 5, MinQty: 1}, nil)

		p, err := svc.AddProduct(ctx, 5, CreateProductParams{Name: "Rice", Price: 2000, Stock: 100})
		require.NoError(t, err)
		assert.Equal(t, 1, p.MinQty)
	})
}

func TestService_OrderListings(t *testing.T) {
	ctx := context.Background()

	t.Run("ListOrdersUsesOpenStatuses", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("ListOrders", ctx, int64(5), []Status{StatusPending, StatusProcessing}).
			Return([]*Order{{ID: 9}}, nil)

		orders, err := svc.ListOrders(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("HistoryUsesClosedStatuses", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("ListOrders", ctx, int64(5), []Status{StatusApproved, StatusShipped, StatusDelivered}).
			Return([]*Order{}, nil)

		_, err := svc.History(ctx, 5)
		assert.NoError(t, err)
	})
}
