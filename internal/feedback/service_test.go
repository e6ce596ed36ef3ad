package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"livemart-be/internal/product"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, f *Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockRepository) ListByProduct(ctx context.Context, productID int64) ([]*Feedback, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Feedback), args.Error(1)
}

func (m *MockRepository) ListByRetailer(ctx context.Context, retailerID int64) ([]*Feedback, error) {
	args := m.Called(ctx, retailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Feedback), args.Error(1)
}

// MockProductRepository mocks product.Repository for existence checks
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter product.Filter) ([]*product.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) ListByRetailer(ctx context.Context, retailerID int64) ([]*product.Product, error) {
	args := m.Called(ctx, retailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id int64, params product.UpdateParams) (*product.Product, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateImageURL(ctx context.Context, id int64, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)

		products.On("GetByID", ctx, int64(10)).Return(&product.Product{ID: 10, Name: "Basmati Rice"}, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*feedback.Feedback")).Return(nil)

		f, err := svc.Add(ctx, 7, 10, 4, "Good quality")
		require.NoError(t, err)
		assert.Equal(t, int64(10), f.ProductID)
		assert.Equal(t, int64(7), f.CustomerID)
		assert.Equal(t, 4, f.Rating)
		assert.Equal(t, "Good quality", f.Comment)

		repo.AssertExpectations(t)
		products.AssertExpectations(t)
	})

	t.Run("RatingTooLow", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)

		_, err := svc.Add(ctx, 7, 10, 0, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
		products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("RatingTooHigh", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)

		_, err := svc.Add(ctx, 7, 10, 6, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)

		products.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.Add(ctx, 7, 99, 3, "where is it")
		assert.ErrorIs(t, err, ErrProductNotFound)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)

		products.On("GetByID", ctx, int64(10)).Return(&product.Product{ID: 10}, nil)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := svc.Add(ctx, 7, 10, 5, "great")
		assert.Error(t, err)
	})
}
