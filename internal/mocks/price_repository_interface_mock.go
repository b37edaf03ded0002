// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/basketly/price-service/internal/domain/model"
)

type MockPriceRepositoryInterface struct {
	mock.Mock
}

func (m *MockPriceRepositoryInterface) BranchesInCity(ctx context.Context, city string) ([]model.Branch, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Branch), args.Error(1)
}

func (m *MockPriceRepositoryInterface) SearchCity(ctx context.Context, city, query string, limit int64) ([]model.PriceRecord, error) {
	args := m.Called(ctx, city, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceRecord), args.Error(1)
}

func (m *MockPriceRepositoryInterface) SearchBranch(ctx context.Context, branch model.Branch, line model.CartLine) ([]model.PriceRecord, error) {
	args := m.Called(ctx, branch, line)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceRecord), args.Error(1)
}

func (m *MockPriceRepositoryInterface) PricesByItemCode(ctx context.Context, city, itemCode string) ([]model.PriceRecord, error) {
	args := m.Called(ctx, city, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceRecord), args.Error(1)
}

func (m *MockPriceRepositoryInterface) Cities(ctx context.Context) ([]model.CityStores, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CityStores), args.Error(1)
}
