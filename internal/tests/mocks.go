package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/razorpay"
	internalredis "wheelstrust/internal/redis"
	"wheelstrust/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CAR REPOSITORY
// ──────────────────────────────────────────────

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mu   sync.RWMutex
	cars map[string]*domain.Car

	// Counters for verification
	MarkSoldCallCount int32

	// Error injection
	GetByIDError  error
	MarkSoldError error
}

// NewMockCarRepository creates a new mock car repository.
func NewMockCarRepository() *MockCarRepository {
	return &MockCarRepository{cars: make(map[string]*domain.Car)}
}

// AddCar adds a car to the mock repository.
func (m *MockCarRepository) AddCar(car *domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
}

func (m *MockCarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *car
	return &copy, nil
}

func (m *MockCarRepository) GetAll(ctx context.Context, status domain.CarStatus) ([]*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Car, 0, len(m.cars))
	for _, car := range m.cars {
		if status != "" && car.Status != status {
			continue
		}
		copy := *car
		result = append(result, &copy)
	}
	return result, nil
}

// MarkSold mirrors the conditional update of the real repository: the
// transition only succeeds while the car is not yet sold.
func (m *MockCarRepository) MarkSold(ctx context.Context, id, buyerID string, soldAt time.Time) error {
	atomic.AddInt32(&m.MarkSoldCallCount, 1)
	if m.MarkSoldError != nil {
		return m.MarkSoldError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return repository.ErrNotFound
	}
	if car.Status == domain.CarStatusSold {
		return repository.ErrAlreadySold
	}
	car.Status = domain.CarStatusSold
	car.SoldTo = buyerID
	car.SoldAt = soldAt
	return nil
}

// GetCar returns the stored car for test assertions.
func (m *MockCarRepository) GetCar(id string) *domain.Car {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cars[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu        sync.RWMutex
	byPayment map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{byPayment: make(map[string]*domain.Booking)}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byPayment[booking.PaymentID]; ok {
		return repository.ErrDuplicatePayment
	}
	copy := *booking
	m.byPayment[booking.PaymentID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.byPayment[paymentID]
	if !ok {
		return nil, nil
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.byPayment {
		if b.UserID == userID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

// Count returns the number of stored bookings.
func (m *MockBookingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byPayment)
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetAdmin(ctx context.Context) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Role == domain.RoleAdmin {
			copy := *user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK SERVICE PROVIDER REPOSITORY
// ──────────────────────────────────────────────

// MockServiceProviderRepository is a mock implementation of ServiceProviderRepository.
type MockServiceProviderRepository struct {
	mu        sync.RWMutex
	providers map[string]*domain.ServiceProvider
}

// NewMockServiceProviderRepository creates a new mock provider repository.
func NewMockServiceProviderRepository() *MockServiceProviderRepository {
	return &MockServiceProviderRepository{providers: make(map[string]*domain.ServiceProvider)}
}

// AddProvider adds a provider to the mock repository.
func (m *MockServiceProviderRepository) AddProvider(provider *domain.ServiceProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[provider.ID] = provider
}

func (m *MockServiceProviderRepository) GetByID(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	provider, ok := m.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *provider
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
// FailForUser makes any insert batch containing that user fail, which lets
// tests exercise the per-recipient fallback in the fan-out.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	// Counters for verification
	InsertManyCallCount int32

	// Error injection
	InsertManyError error
	FailForUser     map[string]error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) InsertMany(ctx context.Context, notifications []*domain.Notification) error {
	atomic.AddInt32(&m.InsertManyCallCount, 1)
	if m.InsertManyError != nil {
		return m.InsertManyError
	}
	for _, n := range notifications {
		if err, ok := m.FailForUser[n.UserID]; ok {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range notifications {
		copy := *n
		m.notifications = append(m.notifications, &copy)
	}
	return nil
}

func (m *MockNotificationRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			copy := *n
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// All returns every stored notification for test assertions.
func (m *MockNotificationRepository) All() []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Notification, len(m.notifications))
	copy(result, m.notifications)
	return result
}

// CountForUser returns how many notifications a user has.
func (m *MockNotificationRepository) CountForUser(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// SentEmail records one delivery attempt made through the mock mailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer is a mock mail transport. FailFor injects an error for a
// specific recipient address.
type MockMailer struct {
	mu    sync.Mutex
	sent  []SentEmail
	count int32

	FailFor map[string]error
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	atomic.AddInt32(&m.count, 1)
	if err, ok := m.FailFor[to]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns every successfully delivered email.
func (m *MockMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]SentEmail, len(m.sent))
	copy(result, m.sent)
	return result
}

// SentTo reports whether an email was delivered to the address.
func (m *MockMailer) SentTo(to string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.sent {
		if e.To == to {
			return true
		}
	}
	return false
}

// Attempts returns the number of send attempts, including failures.
func (m *MockMailer) Attempts() int32 {
	return atomic.LoadInt32(&m.count)
}

// ──────────────────────────────────────────────
// MOCK ORDER CREATOR
// ──────────────────────────────────────────────

// MockOrderCreator is a mock implementation of the provider order API.
type MockOrderCreator struct {
	mu       sync.Mutex
	requests []razorpay.CreateOrderRequest

	// Error injection
	CreateError error
}

// NewMockOrderCreator creates a new mock order creator.
func NewMockOrderCreator() *MockOrderCreator {
	return &MockOrderCreator{}
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return &razorpay.Order{
		ID:       "order_mock_1",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

// Requests returns every order creation request seen.
func (m *MockOrderCreator) Requests() []razorpay.CreateOrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]razorpay.CreateOrderRequest, len(m.requests))
	copy(result, m.requests)
	return result
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface.
type MockLockStore struct {
	mu   sync.Mutex
	held map[string]bool
	Acqs int32
	Rels int32
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

func (m *MockLockStore) AcquireSubjectLock(ctx context.Context, subjectID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.Acqs, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[subjectID] {
		return false, nil
	}
	m.held[subjectID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSubjectLock(ctx context.Context, subjectID string) error {
	atomic.AddInt32(&m.Rels, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, subjectID)
	return nil
}

// MockCarCache is an in-memory implementation of CarCacheInterface.
type MockCarCache struct {
	mu          sync.Mutex
	cars        map[string]*internalredis.CachedCar
	Invalidated []string
}

// NewMockCarCache creates a new mock car cache.
func NewMockCarCache() *MockCarCache {
	return &MockCarCache{cars: make(map[string]*internalredis.CachedCar)}
}

func (m *MockCarCache) GetCar(ctx context.Context, carID string) (*internalredis.CachedCar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cars[carID], nil
}

func (m *MockCarCache) SetCar(ctx context.Context, car *internalredis.CachedCar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarCache) InvalidateCar(ctx context.Context, carID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, carID)
	m.Invalidated = append(m.Invalidated, carID)
	return nil
}
