package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/razorpay"
	"wheelstrust/internal/repository"
)

const defaultCurrency = "INR"

// OrderCreator creates orders with the payment provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
}

// CheckoutService starts payment flows by creating provider orders.
type CheckoutService struct {
	carRepo      repository.CarRepository
	providerRepo repository.ServiceProviderRepository
	orders       OrderCreator
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(carRepo repository.CarRepository, providerRepo repository.ServiceProviderRepository, orders OrderCreator) *CheckoutService {
	return &CheckoutService{
		carRepo:      carRepo,
		providerRepo: providerRepo,
		orders:       orders,
	}
}

// CreateCarOrderRequest contains the parameters for starting a car purchase.
type CreateCarOrderRequest struct {
	CarID       string
	BuyerID     string
	AmountMinor int64
	Currency    string
}

// CreateCarOrder validates the car is still purchasable and creates a
// provider order for it.
func (s *CheckoutService) CreateCarOrder(ctx context.Context, req CreateCarOrderRequest) (*razorpay.Order, error) {
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if req.BuyerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	if car.Status == domain.CarStatusSold {
		return nil, ErrCarAlreadySold
	}

	return s.orders.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   req.AmountMinor,
		Currency: currencyOrDefault(req.Currency),
		Receipt:  receiptRef("car", req.CarID),
		Notes: map[string]string{
			"carId":  req.CarID,
			"userId": req.BuyerID,
		},
	})
}

// CreateServiceOrderRequest contains the parameters for starting a service
// booking payment.
type CreateServiceOrderRequest struct {
	ServiceProviderID string
	UserID            string
	AmountMinor       int64
	Currency          string
}

// CreateServiceOrder validates the provider exists and creates a provider
// order for the booking.
func (s *CheckoutService) CreateServiceOrder(ctx context.Context, req CreateServiceOrderRequest) (*razorpay.Order, error) {
	if req.ServiceProviderID == "" {
		return nil, ErrInvalidProviderID
	}
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.providerRepo.GetByID(ctx, req.ServiceProviderID); err != nil {
		return nil, err
	}

	return s.orders.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   req.AmountMinor,
		Currency: currencyOrDefault(req.Currency),
		Receipt:  receiptRef("service", req.ServiceProviderID),
		Notes: map[string]string{
			"serviceProviderId": req.ServiceProviderID,
			"userId":            req.UserID,
		},
	})
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return currency
}

// receiptRef builds the provider receipt reference, suffixed with the last
// six digits of the current millisecond clock to keep receipts distinct
// across retries for the same subject.
func receiptRef(kind, id string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return fmt.Sprintf("%s_%s_%s", kind, id, ts[len(ts)-6:])
}
