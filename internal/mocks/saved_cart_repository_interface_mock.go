// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/basketly/price-service/internal/domain/model"
)

type MockSavedCartRepositoryInterface struct {
	mock.Mock
}

func (m *MockSavedCartRepositoryInterface) Create(ctx context.Context, cart *model.SavedCart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockSavedCartRepositoryInterface) FindByID(ctx context.Context, id primitive.ObjectID) (*model.SavedCart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedCart), args.Error(1)
}

func (m *MockSavedCartRepositoryInterface) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.SavedCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SavedCart), args.Error(1)
}

func (m *MockSavedCartRepositoryInterface) Update(ctx context.Context, cart *model.SavedCart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockSavedCartRepositoryInterface) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
