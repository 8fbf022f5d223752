package tests

import (
	"context"
	"errors"
	"testing"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/razorpay"
	"wheelstrust/internal/repository"
	"wheelstrust/internal/service"
)

// ──────────────────────────────────────────────
// 2. SERVICE BOOKING COMPLETION
// ──────────────────────────────────────────────

// bookingFixture wires a PaymentService over mocks with one provider, its
// owner, a customer and an admin.
type bookingFixture struct {
	bookingRepo      *MockBookingRepository
	notificationRepo *MockNotificationRepository
	mailer           *MockMailer
	payments         *service.PaymentService
}

func newBookingFixture() *bookingFixture {
	carRepo := NewMockCarRepository()
	providerRepo := NewMockServiceProviderRepository()
	userRepo := NewMockUserRepository()

	providerRepo.AddProvider(&domain.ServiceProvider{
		ID:      "provider-1",
		OwnerID: "owner-1",
		Name:    "Speedy Garage",
	})
	userRepo.AddUser(&domain.User{ID: "customer-1", Name: "Cara Customer", Email: "customer@example.com", Role: domain.RoleUser})
	userRepo.AddUser(&domain.User{ID: "owner-1", Name: "Olaf Owner", Email: "owner@example.com", Role: domain.RoleUser})
	userRepo.AddUser(&domain.User{ID: "admin-1", Name: "Ada Admin", Email: "admin@example.com", Role: domain.RoleAdmin})

	f := &bookingFixture{
		bookingRepo:      NewMockBookingRepository(),
		notificationRepo: NewMockNotificationRepository(),
		mailer:           NewMockMailer(),
	}
	f.payments = service.NewPaymentService(
		testSecret,
		carRepo,
		f.bookingRepo,
		userRepo,
		providerRepo,
		service.NewNotificationService(f.notificationRepo),
		service.NewEmailDispatcher(f.mailer, "http://localhost:3000"),
		NewMockLockStore(),
		nil,
	)
	return f
}

func bookingRequest(paymentID, orderID string) service.VerifyServiceBookingRequest {
	return service.VerifyServiceBookingRequest{
		PaymentID:         paymentID,
		OrderID:           orderID,
		Signature:         razorpay.Signature(orderID, paymentID, testSecret),
		ServiceProviderID: "provider-1",
		UserID:            "customer-1",
		Services: []domain.BookedService{
			{Name: "Full Service", PriceMinor: 500000, Duration: "2h"},
		},
		Date:            "2026-09-15",
		Time:            "10:30",
		TotalPriceMinor: 500000,
	}
}

func TestServiceBooking_HappyPath(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()

	result, err := f.payments.VerifyServiceBooking(context.Background(), bookingRequest("pay_b1", "order_b1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Replayed {
		t.Error("first completion should not be marked as a replay")
	}
	if result.Status != string(domain.BookingStatusConfirmed) {
		t.Errorf("expected confirmed status, got %s", result.Status)
	}

	// Exactly one booking, confirmed, keyed by the payment.
	if f.bookingRepo.Count() != 1 {
		t.Fatalf("expected one booking, got %d", f.bookingRepo.Count())
	}
	booking, err := f.bookingRepo.GetByPaymentID(context.Background(), "pay_b1")
	if err != nil || booking == nil {
		t.Fatalf("booking not found by payment id: %v", err)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected confirmed booking, got %s", booking.Status)
	}
	if booking.Currency != "INR" {
		t.Errorf("expected default currency INR, got %q", booking.Currency)
	}
	if booking.ScheduledDate != "2026-09-15" || booking.ScheduledTime != "10:30" {
		t.Errorf("unexpected schedule: %s %s", booking.ScheduledDate, booking.ScheduledTime)
	}

	// Customer, owner and admin each get one notification and one email.
	for _, userID := range []string{"customer-1", "owner-1", "admin-1"} {
		if f.notificationRepo.CountForUser(userID) != 1 {
			t.Errorf("expected exactly one notification for %s", userID)
		}
	}
	if got := len(f.mailer.Sent()); got != 3 {
		t.Errorf("expected 3 emails, got %d", got)
	}
}

func TestServiceBooking_DuplicatePayment_Replayed(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	ctx := context.Background()

	first, err := f.payments.VerifyServiceBooking(ctx, bookingRequest("pay_b1", "order_b1"))
	if err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	// The provider retries the callback for the same payment.
	second, err := f.payments.VerifyServiceBooking(ctx, bookingRequest("pay_b1", "order_b1"))
	if err != nil {
		t.Fatalf("replay should succeed, got %v", err)
	}
	if !second.Replayed {
		t.Error("expected replay to be flagged")
	}
	if second.EntityID != first.EntityID {
		t.Errorf("replay returned a different booking: %s vs %s", second.EntityID, first.EntityID)
	}

	// Still one booking, and fan-out ran only once.
	if f.bookingRepo.Count() != 1 {
		t.Errorf("expected one booking after replay, got %d", f.bookingRepo.Count())
	}
	if got := len(f.notificationRepo.All()); got != 3 {
		t.Errorf("expected 3 notifications, got %d", got)
	}
	if got := len(f.mailer.Sent()); got != 3 {
		t.Errorf("expected 3 emails, got %d", got)
	}
}

func TestServiceBooking_TamperedSignature_Rejected(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()

	req := bookingRequest("pay_b1", "order_b1")
	req.Signature = razorpay.Signature("order_other", "pay_b1", testSecret)

	_, err := f.payments.VerifyServiceBooking(context.Background(), req)
	if !errors.Is(err, service.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if f.bookingRepo.Count() != 0 {
		t.Error("no booking may be created for a rejected callback")
	}
	if got := len(f.notificationRepo.All()); got != 0 {
		t.Errorf("expected no notifications, got %d", got)
	}
	if f.mailer.Attempts() != 0 {
		t.Error("expected no email attempts")
	}
}

func TestServiceBooking_ProviderNotFound(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()

	req := bookingRequest("pay_b1", "order_b1")
	req.ServiceProviderID = "provider-missing"

	_, err := f.payments.VerifyServiceBooking(context.Background(), req)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.bookingRepo.Count() != 0 {
		t.Error("no booking may be created for a missing provider")
	}
}

func TestServiceBooking_ValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*service.VerifyServiceBookingRequest)
		wantErr error
	}{
		{
			name:    "missing payment id",
			mutate:  func(r *service.VerifyServiceBookingRequest) { r.PaymentID = "" },
			wantErr: service.ErrInvalidPaymentRef,
		},
		{
			name:    "missing order id",
			mutate:  func(r *service.VerifyServiceBookingRequest) { r.OrderID = "" },
			wantErr: service.ErrInvalidPaymentRef,
		},
		{
			name:    "missing provider id",
			mutate:  func(r *service.VerifyServiceBookingRequest) { r.ServiceProviderID = "" },
			wantErr: service.ErrInvalidProviderID,
		},
		{
			name:    "missing user id",
			mutate:  func(r *service.VerifyServiceBookingRequest) { r.UserID = "" },
			wantErr: service.ErrInvalidUserID,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newBookingFixture()

			req := bookingRequest("pay_b1", "order_b1")
			tc.mutate(&req)

			_, err := f.payments.VerifyServiceBooking(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if f.bookingRepo.CreateCallCount != 0 {
				t.Error("Create must not run for an invalid request")
			}
		})
	}
}

func TestServiceBooking_StorageFault_Propagates(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.bookingRepo.CreateError = errors.New("connection reset")

	_, err := f.payments.VerifyServiceBooking(context.Background(), bookingRequest("pay_b1", "order_b1"))
	if err == nil || errors.Is(err, service.ErrCompletionConflict) {
		t.Fatalf("expected a storage error, got %v", err)
	}
	if got := len(f.notificationRepo.All()); got != 0 {
		t.Errorf("expected no notifications after a failed create, got %d", got)
	}
}
