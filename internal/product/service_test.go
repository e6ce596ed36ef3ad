package product

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

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) ListByRetailer(ctx context.Context, retailerID int64) ([]*Product, error) {
	args := m.Called(ctx, retailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UpdateImageURL(ctx context.Context, id int64, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.Get(ctx, 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	owned := &Product{ID: 1, RetailerID: 3, Name: "Basmati Rice"}

	t.Run("UpdateByOwner", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		newPrice := 130.0
		params := UpdateParams{Price: &newPrice}
		mockRepo.On("GetByID", ctx, int64(1)).Return(owned, nil)
		mockRepo.On("Update", ctx, int64(1), params).
			Return(&Product{ID: 1, RetailerID: 3, Price: 130}, nil)

		p, err := svc.Update(ctx, 3, 1, params)
		require.NoError(t, err)
		assert.Equal(t, 130.0, p.Price)
	})

	t.Run("UpdateByStranger", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetByID", ctx, int64(1)).Return(owned, nil)

		_, err := svc.Update(ctx, 99, 1, UpdateParams{})
		assert.ErrorIs(t, err, ErrNotOwner)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DeleteByStranger", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetByID", ctx, int64(1)).Return(owned, nil)

		err := svc.Delete(ctx, 99, 1)
		assert.ErrorIs(t, err, ErrNotOwner)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		err := svc.Delete(ctx, 3, 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}
