package web

import (
	"context"
	"sync"
	"time"

	"store-manager/internal/frontend/session"
	"store-manager/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of Backend.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Register(ctx context.Context, req model.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) ListProducts(ctx context.Context, token string) ([]model.Product, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockBackend) AddProduct(ctx context.Context, token string, req model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockBackend) UpdateProduct(ctx context.Context, token string, id int64, req model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockBackend) DeleteProduct(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockBackend) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockBackend) AddOrder(ctx context.Context, token string, req model.OrderRequest) (*model.Order, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockBackend) DeleteOrder(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockBackend) Statistics(ctx context.Context, token string) (model.OrderStatistics, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.OrderStatistics), args.Error(1)
}

// memoryStore is an in-memory session.Store for tests.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string]session.Session{}}
}

func (m *memoryStore) Create(ctx context.Context, s session.Session, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	id := uuid.NewString()
	m.sessions[id] = s
	return id, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
