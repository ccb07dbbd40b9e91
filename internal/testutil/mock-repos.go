package testutil

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
)

// MockModelAssetRepo is a mock of ModelAssetRepository.
type MockModelAssetRepo struct {
	mock.Mock
}

func (m *MockModelAssetRepo) Create(ctx context.Context, asset *domain.ModelAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockModelAssetRepo) GetByID(ctx context.Context, id int64) (*domain.ModelAsset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelAsset), args.Error(1)
}

// Update applies fn to the record returned by the expectation, as a real
// store would to its locked row.
func (m *MockModelAssetRepo) Update(ctx context.Context, id int64, fn ports.UpdateFunc) (*domain.ModelAsset, error) {
	args := m.Called(ctx, id, fn)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	asset := args.Get(0).(*domain.ModelAsset)
	if err := fn(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (m *MockModelAssetRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModelAssetRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.ModelAsset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ModelAsset), args.Error(1)
}

func (m *MockModelAssetRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBlobStorage is a mock of BlobStorage. Put drains the reader so callers
// see the same byte count a real backend would report.
type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	args := m.Called(ctx, key, r)
	if err := args.Error(1); err != nil {
		return 0, err
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (m *MockBlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStorage) Size(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlobStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
