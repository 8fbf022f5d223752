package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/razorpay"
	"wheelstrust/internal/repository"
	"wheelstrust/internal/service"
)

// ──────────────────────────────────────────────
// 1. CAR PURCHASE COMPLETION
// ──────────────────────────────────────────────

var testSecret = []byte("test-key-secret")

// carPurchaseFixture wires a PaymentService over mocks with one available
// car, its seller, a buyer and an admin.
type carPurchaseFixture struct {
	carRepo          *MockCarRepository
	bookingRepo      *MockBookingRepository
	userRepo         *MockUserRepository
	providerRepo     *MockServiceProviderRepository
	notificationRepo *MockNotificationRepository
	mailer           *MockMailer
	locks            *MockLockStore
	cache            *MockCarCache
	payments         *service.PaymentService
}

func newCarPurchaseFixture() *carPurchaseFixture {
	f := &carPurchaseFixture{
		carRepo:          NewMockCarRepository(),
		bookingRepo:      NewMockBookingRepository(),
		userRepo:         NewMockUserRepository(),
		providerRepo:     NewMockServiceProviderRepository(),
		notificationRepo: NewMockNotificationRepository(),
		mailer:           NewMockMailer(),
		locks:            NewMockLockStore(),
		cache:            NewMockCarCache(),
	}

	f.carRepo.AddCar(&domain.Car{
		ID:         "car-1",
		SellerID:   "seller-1",
		Make:       "Honda",
		Model:      "City",
		Year:       2019,
		PriceMinor: 55000000,
		Currency:   "INR",
		Status:     domain.CarStatusAvailable,
	})
	f.userRepo.AddUser(&domain.User{ID: "buyer-1", Name: "Bob Buyer", Email: "buyer@example.com", Role: domain.RoleUser})
	f.userRepo.AddUser(&domain.User{ID: "seller-1", Name: "Sam Seller", Email: "seller@example.com", Role: domain.RoleUser})
	f.userRepo.AddUser(&domain.User{ID: "admin-1", Name: "Ada Admin", Email: "admin@example.com", Role: domain.RoleAdmin})

	f.payments = service.NewPaymentService(
		testSecret,
		f.carRepo,
		f.bookingRepo,
		f.userRepo,
		f.providerRepo,
		service.NewNotificationService(f.notificationRepo),
		service.NewEmailDispatcher(f.mailer, "http://localhost:3000"),
		f.locks,
		f.cache,
	)
	return f
}

func carPurchaseRequest(paymentID, orderID, buyerID string) service.VerifyCarPurchaseRequest {
	return service.VerifyCarPurchaseRequest{
		PaymentID: paymentID,
		OrderID:   orderID,
		Signature: razorpay.Signature(orderID, paymentID, testSecret),
		CarID:     "car-1",
		BuyerID:   buyerID,
	}
}

func TestCarPurchase_HappyPath(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()

	result, err := f.payments.VerifyCarPurchase(context.Background(), carPurchaseRequest("pay_1", "order_1", "buyer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Replayed {
		t.Error("first completion should not be marked as a replay")
	}
	if result.EntityID != "car-1" || result.Status != string(domain.CarStatusSold) {
		t.Errorf("unexpected result: %+v", result)
	}

	// The car is sold to the buyer.
	car := f.carRepo.GetCar("car-1")
	if car.Status != domain.CarStatusSold {
		t.Errorf("expected car status sold, got %s", car.Status)
	}
	if car.SoldTo != "buyer-1" {
		t.Errorf("expected car sold to buyer-1, got %q", car.SoldTo)
	}
	if car.SoldAt.IsZero() {
		t.Error("expected SoldAt to be set")
	}

	// Exactly one notification per stakeholder.
	if got := len(f.notificationRepo.All()); got != 3 {
		t.Fatalf("expected 3 notifications, got %d", got)
	}
	for _, userID := range []string{"buyer-1", "seller-1", "admin-1"} {
		if f.notificationRepo.CountForUser(userID) != 1 {
			t.Errorf("expected exactly one notification for %s", userID)
		}
	}

	// One email per stakeholder.
	if got := len(f.mailer.Sent()); got != 3 {
		t.Fatalf("expected 3 emails, got %d", got)
	}
	for _, to := range []string{"buyer@example.com", "seller@example.com", "admin@example.com"} {
		if !f.mailer.SentTo(to) {
			t.Errorf("expected an email to %s", to)
		}
	}

	// The subject lock was taken and released, and the cache entry dropped.
	if f.locks.Acqs != 1 || f.locks.Rels != 1 {
		t.Errorf("expected one lock acquire/release pair, got %d/%d", f.locks.Acqs, f.locks.Rels)
	}
	if len(f.cache.Invalidated) != 1 || f.cache.Invalidated[0] != "car-1" {
		t.Errorf("expected car-1 cache invalidation, got %v", f.cache.Invalidated)
	}
}

func TestCarPurchase_TamperedSignature_Rejected(t *testing.T) {
	t.Parallel()

	valid := razorpay.Signature("order_1", "pay_1", testSecret)

	testCases := []struct {
		name      string
		signature string
	}{
		{name: "empty signature", signature: ""},
		{name: "garbage signature", signature: "deadbeef"},
		{name: "signature for different order", signature: razorpay.Signature("order_2", "pay_1", testSecret)},
		{name: "signature for different payment", signature: razorpay.Signature("order_1", "pay_2", testSecret)},
		{name: "signature with wrong secret", signature: razorpay.Signature("order_1", "pay_1", []byte("wrong-secret"))},
		{name: "truncated signature", signature: valid[:len(valid)-2]},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newCarPurchaseFixture()

			req := carPurchaseRequest("pay_1", "order_1", "buyer-1")
			req.Signature = tc.signature

			_, err := f.payments.VerifyCarPurchase(context.Background(), req)
			if !errors.Is(err, service.ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}

			// A rejected callback must leave no trace.
			if car := f.carRepo.GetCar("car-1"); car.Status != domain.CarStatusAvailable {
				t.Errorf("car status changed on rejected callback: %s", car.Status)
			}
			if f.carRepo.MarkSoldCallCount != 0 {
				t.Error("MarkSold must not run for a rejected callback")
			}
			if got := len(f.notificationRepo.All()); got != 0 {
				t.Errorf("expected no notifications, got %d", got)
			}
			if f.mailer.Attempts() != 0 {
				t.Error("expected no email attempts")
			}
		})
	}
}

func TestCarPurchase_ValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*service.VerifyCarPurchaseRequest)
		wantErr error
	}{
		{
			name:    "missing payment id",
			mutate:  func(r *service.VerifyCarPurchaseRequest) { r.PaymentID = "" },
			wantErr: service.ErrInvalidPaymentRef,
		},
		{
			name:    "missing order id",
			mutate:  func(r *service.VerifyCarPurchaseRequest) { r.OrderID = "" },
			wantErr: service.ErrInvalidPaymentRef,
		},
		{
			name:    "missing car id",
			mutate:  func(r *service.VerifyCarPurchaseRequest) { r.CarID = "" },
			wantErr: service.ErrInvalidCarID,
		},
		{
			name:    "missing buyer id",
			mutate:  func(r *service.VerifyCarPurchaseRequest) { r.BuyerID = "" },
			wantErr: service.ErrInvalidUserID,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newCarPurchaseFixture()

			req := carPurchaseRequest("pay_1", "order_1", "buyer-1")
			tc.mutate(&req)

			_, err := f.payments.VerifyCarPurchase(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if f.carRepo.MarkSoldCallCount != 0 {
				t.Error("MarkSold must not run for an invalid request")
			}
		})
	}
}

func TestCarPurchase_SubjectNotFound(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()

	req := carPurchaseRequest("pay_1", "order_1", "buyer-1")
	req.CarID = "car-missing"
	req.Signature = razorpay.Signature(req.OrderID, req.PaymentID, testSecret)

	_, err := f.payments.VerifyCarPurchase(context.Background(), req)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := len(f.notificationRepo.All()); got != 0 {
		t.Errorf("expected no notifications, got %d", got)
	}
	if f.mailer.Attempts() != 0 {
		t.Error("expected no email attempts")
	}
}

func TestCarPurchase_BuyerNotFound(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()

	req := carPurchaseRequest("pay_1", "order_1", "buyer-missing")

	_, err := f.payments.VerifyCarPurchase(context.Background(), req)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if car := f.carRepo.GetCar("car-1"); car.Status != domain.CarStatusAvailable {
		t.Errorf("car status changed: %s", car.Status)
	}
}

func TestCarPurchase_Replay_SameBuyer_Idempotent(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()
	ctx := context.Background()

	req := carPurchaseRequest("pay_1", "order_1", "buyer-1")

	if _, err := f.payments.VerifyCarPurchase(ctx, req); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	soldAt := f.carRepo.GetCar("car-1").SoldAt

	// The provider retries its callback with the same payment.
	result, err := f.payments.VerifyCarPurchase(ctx, req)
	if err != nil {
		t.Fatalf("replay should succeed, got %v", err)
	}
	if !result.Replayed {
		t.Error("expected replay to be flagged")
	}
	if result.Status != string(domain.CarStatusSold) {
		t.Errorf("expected sold status, got %s", result.Status)
	}

	// The committed state is untouched and no new fan-out happened.
	car := f.carRepo.GetCar("car-1")
	if car.SoldTo != "buyer-1" || !car.SoldAt.Equal(soldAt) {
		t.Errorf("replay mutated the sold car: soldTo=%s soldAt=%v", car.SoldTo, car.SoldAt)
	}
	if got := len(f.notificationRepo.All()); got != 3 {
		t.Errorf("expected notifications only from the first completion, got %d", got)
	}
	if got := len(f.mailer.Sent()); got != 3 {
		t.Errorf("expected emails only from the first completion, got %d", got)
	}
}

func TestCarPurchase_SoldToDifferentBuyer_Conflict(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()
	f.userRepo.AddUser(&domain.User{ID: "buyer-2", Name: "Eve Buyer", Email: "eve@example.com", Role: domain.RoleUser})
	ctx := context.Background()

	if _, err := f.payments.VerifyCarPurchase(ctx, carPurchaseRequest("pay_1", "order_1", "buyer-1")); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	_, err := f.payments.VerifyCarPurchase(ctx, carPurchaseRequest("pay_2", "order_2", "buyer-2"))
	if !errors.Is(err, service.ErrCompletionConflict) {
		t.Fatalf("expected ErrCompletionConflict, got %v", err)
	}

	// The winner's state survives.
	if car := f.carRepo.GetCar("car-1"); car.SoldTo != "buyer-1" {
		t.Errorf("expected car to stay with buyer-1, got %q", car.SoldTo)
	}
	if got := len(f.notificationRepo.All()); got != 3 {
		t.Errorf("expected fan-out only for the winner, got %d notifications", got)
	}
}

func TestCarPurchase_ConcurrentCompletions_SingleWinner(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()
	f.userRepo.AddUser(&domain.User{ID: "buyer-2", Name: "Eve Buyer", Email: "eve@example.com", Role: domain.RoleUser})

	requests := []service.VerifyCarPurchaseRequest{
		carPurchaseRequest("pay_1", "order_1", "buyer-1"),
		carPurchaseRequest("pay_2", "order_2", "buyer-2"),
	}

	var wg sync.WaitGroup
	results := make([]error, len(requests))
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req service.VerifyCarPurchaseRequest) {
			defer wg.Done()
			_, results[i] = f.payments.VerifyCarPurchase(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, service.ErrCompletionConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d/%d", wins, conflicts)
	}

	car := f.carRepo.GetCar("car-1")
	if car.Status != domain.CarStatusSold {
		t.Fatalf("expected car sold, got %s", car.Status)
	}
	if car.SoldTo != "buyer-1" && car.SoldTo != "buyer-2" {
		t.Errorf("car sold to unknown buyer %q", car.SoldTo)
	}

	// Fan-out ran once, for the winner only.
	if got := len(f.notificationRepo.All()); got != 3 {
		t.Errorf("expected 3 notifications, got %d", got)
	}
}

func TestCarPurchase_NotificationFailure_DoesNotFailRequest(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()
	f.notificationRepo.FailForUser = map[string]error{"seller-1": errors.New("insert rejected")}

	result, err := f.payments.VerifyCarPurchase(context.Background(), carPurchaseRequest("pay_1", "order_1", "buyer-1"))
	if err != nil {
		t.Fatalf("fan-out failure must not fail the completion: %v", err)
	}
	if result.Status != string(domain.CarStatusSold) {
		t.Errorf("expected sold status, got %s", result.Status)
	}

	// The seller's batch row failed, but the per-recipient retry must still
	// land the buyer's and admin's notifications.
	if f.notificationRepo.CountForUser("buyer-1") != 1 {
		t.Error("expected buyer notification despite seller failure")
	}
	if f.notificationRepo.CountForUser("admin-1") != 1 {
		t.Error("expected admin notification despite seller failure")
	}
	if f.notificationRepo.CountForUser("seller-1") != 0 {
		t.Error("seller notification should have failed")
	}

	// Batch first, then one retry per recipient.
	if f.notificationRepo.InsertManyCallCount != 4 {
		t.Errorf("expected 1 batch + 3 singles, got %d calls", f.notificationRepo.InsertManyCallCount)
	}
}

func TestCarPurchase_EmailFailure_DoesNotFailRequest(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()
	f.mailer.FailFor = map[string]error{"seller@example.com": errors.New("smtp refused")}

	_, err := f.payments.VerifyCarPurchase(context.Background(), carPurchaseRequest("pay_1", "order_1", "buyer-1"))
	if err != nil {
		t.Fatalf("email failure must not fail the completion: %v", err)
	}

	if !f.mailer.SentTo("buyer@example.com") || !f.mailer.SentTo("admin@example.com") {
		t.Error("other recipients must still get their emails")
	}
	if f.mailer.SentTo("seller@example.com") {
		t.Error("seller email should have failed")
	}
	if f.mailer.Attempts() != 3 {
		t.Errorf("expected 3 attempts, got %d", f.mailer.Attempts())
	}
}

func TestCarPurchase_NoMailTransport_SkipsEmails(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()

	// Rebuild the service without a mail transport.
	f.payments = service.NewPaymentService(
		testSecret,
		f.carRepo,
		f.bookingRepo,
		f.userRepo,
		f.providerRepo,
		service.NewNotificationService(f.notificationRepo),
		service.NewEmailDispatcher(nil, "http://localhost:3000"),
		f.locks,
		f.cache,
	)

	_, err := f.payments.VerifyCarPurchase(context.Background(), carPurchaseRequest("pay_1", "order_1", "buyer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Notifications still flow; emails are skipped entirely.
	if got := len(f.notificationRepo.All()); got != 3 {
		t.Errorf("expected 3 notifications, got %d", got)
	}
	if f.mailer.Attempts() != 0 {
		t.Error("expected no email attempts without a transport")
	}
}

func TestCarPurchase_StorageFault_Propagates(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()
	f.carRepo.MarkSoldError = errors.New("connection reset")

	_, err := f.payments.VerifyCarPurchase(context.Background(), carPurchaseRequest("pay_1", "order_1", "buyer-1"))
	if err == nil || errors.Is(err, service.ErrCompletionConflict) {
		t.Fatalf("expected a storage error, got %v", err)
	}
	if got := len(f.notificationRepo.All()); got != 0 {
		t.Errorf("expected no notifications after a failed transition, got %d", got)
	}
	if f.mailer.Attempts() != 0 {
		t.Error("expected no email attempts after a failed transition")
	}
}

func TestCarPurchase_WorksWithoutRedis(t *testing.T) {
	t.Parallel()

	f := newCarPurchaseFixture()

	// Lock store and cache are optional wiring.
	f.payments = service.NewPaymentService(
		testSecret,
		f.carRepo,
		f.bookingRepo,
		f.userRepo,
		f.providerRepo,
		service.NewNotificationService(f.notificationRepo),
		service.NewEmailDispatcher(f.mailer, "http://localhost:3000"),
		nil,
		nil,
	)

	result, err := f.payments.VerifyCarPurchase(context.Background(), carPurchaseRequest("pay_1", "order_1", "buyer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != string(domain.CarStatusSold) {
		t.Errorf("expected sold status, got %s", result.Status)
	}
}
