package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/razorpay"
	internalredis "wheelstrust/internal/redis"
	"wheelstrust/internal/repository"
)

const (
	// subjectLockTTL covers the completion write plus some slack; the lock
	// is a contention fast-path, not the correctness guarantee.
	subjectLockTTL = 10 * time.Second

	// fanoutTimeout bounds the post-commit notification and email fan-out.
	fanoutTimeout = 30 * time.Second
)

// PaymentService verifies provider payment callbacks and completes the
// underlying transaction: it is the only place a payment becomes a sold car
// or a confirmed booking.
type PaymentService struct {
	secret        []byte
	carRepo       repository.CarRepository
	bookingRepo   repository.BookingRepository
	userRepo      repository.UserRepository
	providerRepo  repository.ServiceProviderRepository
	notifications *NotificationService
	emails        *EmailDispatcher
	locks         internalredis.LockStoreInterface
	cache         internalredis.CarCacheInterface
}

// NewPaymentService creates a new PaymentService. locks and cache may be
// nil; both are optional accelerations of the completion path.
func NewPaymentService(
	secret []byte,
	carRepo repository.CarRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	providerRepo repository.ServiceProviderRepository,
	notifications *NotificationService,
	emails *EmailDispatcher,
	locks internalredis.LockStoreInterface,
	cache internalredis.CarCacheInterface,
) *PaymentService {
	return &PaymentService{
		secret:        secret,
		carRepo:       carRepo,
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		providerRepo:  providerRepo,
		notifications: notifications,
		emails:        emails,
		locks:         locks,
		cache:         cache,
	}
}

// CompletionResult is the client-facing outcome of a verified payment.
type CompletionResult struct {
	EntityID  string
	Status    string
	PaymentID string
	OrderID   string
	Replayed  bool // True when the callback was an idempotent replay.
}

// VerifyCarPurchaseRequest contains the provider callback for a car sale.
type VerifyCarPurchaseRequest struct {
	PaymentID string
	OrderID   string
	Signature string
	CarID     string
	BuyerID   string
}

// VerifyCarPurchase authenticates the callback, atomically marks the car
// sold, and fans out notifications and emails. Only the signature check and
// the sale transition can fail the request; fan-out failures are logged and
// swallowed because the sale has already committed.
func (s *PaymentService) VerifyCarPurchase(ctx context.Context, req VerifyCarPurchaseRequest) (*CompletionResult, error) {
	if req.PaymentID == "" || req.OrderID == "" {
		return nil, ErrInvalidPaymentRef
	}
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if req.BuyerID == "" {
		return nil, ErrInvalidUserID
	}

	if !razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.secret) {
		log.Printf("SECURITY: rejected car purchase callback with bad signature (order=%s car=%s)", req.OrderID, req.CarID)
		return nil, ErrInvalidSignature
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.userRepo.GetByID(ctx, req.BuyerID)
	if err != nil {
		return nil, err
	}
	seller, err := s.userRepo.GetByID(ctx, car.SellerID)
	if err != nil {
		return nil, err
	}
	admin, err := s.userRepo.GetAdmin(ctx)
	if err != nil {
		return nil, err
	}

	s.withSubjectLock(ctx, req.CarID, func() {
		err = s.carRepo.MarkSold(ctx, req.CarID, req.BuyerID, time.Now())
	})

	result := &CompletionResult{
		EntityID:  req.CarID,
		Status:    string(domain.CarStatusSold),
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
	}

	if err != nil {
		if !errors.Is(err, repository.ErrAlreadySold) {
			return nil, err
		}

		// The car is already sold. A replay of this buyer's own completed
		// purchase is answered with the committed state; anything else
		// lost the race to a different buyer.
		sold, lookupErr := s.carRepo.GetByID(ctx, req.CarID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if sold.SoldTo != req.BuyerID {
			return nil, ErrCompletionConflict
		}

		result.Replayed = true
		return result, nil
	}

	s.fanOut(ctx, req.CarID,
		func(ctx context.Context) error {
			return s.notifications.NotifyCarSold(ctx, car, buyer, seller, admin, req.OrderID)
		},
		func(ctx context.Context) error {
			return s.emails.SendCarSaleEmails(ctx, car, buyer, seller, admin, req.OrderID, req.PaymentID)
		},
	)

	return result, nil
}

// VerifyServiceBookingRequest contains the provider callback for a booking.
type VerifyServiceBookingRequest struct {
	PaymentID         string
	OrderID           string
	Signature         string
	ServiceProviderID string
	UserID            string
	Services          []domain.BookedService
	Date              string
	Time              string
	TotalPriceMinor   int64
	Currency          string
}

// VerifyServiceBooking authenticates the callback and records a confirmed
// booking. The unique payment ID makes provider callback retries land on
// the already-committed booking instead of a duplicate.
func (s *PaymentService) VerifyServiceBooking(ctx context.Context, req VerifyServiceBookingRequest) (*CompletionResult, error) {
	if req.PaymentID == "" || req.OrderID == "" {
		return nil, ErrInvalidPaymentRef
	}
	if req.ServiceProviderID == "" {
		return nil, ErrInvalidProviderID
	}
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	if !razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.secret) {
		log.Printf("SECURITY: rejected booking callback with bad signature (order=%s provider=%s)", req.OrderID, req.ServiceProviderID)
		return nil, ErrInvalidSignature
	}

	provider, err := s.providerRepo.GetByID(ctx, req.ServiceProviderID)
	if err != nil {
		return nil, err
	}

	customer, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, provider.OwnerID)
	if err != nil {
		return nil, err
	}
	admin, err := s.userRepo.GetAdmin(ctx)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:                uuid.New().String(),
		ServiceProviderID: req.ServiceProviderID,
		UserID:            req.UserID,
		Services:          req.Services,
		ScheduledDate:     req.Date,
		ScheduledTime:     req.Time,
		TotalPriceMinor:   req.TotalPriceMinor,
		Currency:          currencyOrDefault(req.Currency),
		Status:            domain.BookingStatusConfirmed,
		PaymentID:         req.PaymentID,
		OrderID:           req.OrderID,
		CreatedAt:         time.Now(),
	}

	s.withSubjectLock(ctx, req.PaymentID, func() {
		err = s.bookingRepo.Create(ctx, booking)
	})

	if err != nil {
		if !errors.Is(err, repository.ErrDuplicatePayment) {
			return nil, err
		}

		existing, lookupErr := s.bookingRepo.GetByPaymentID(ctx, req.PaymentID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing == nil {
			// The row that collided is gone; let the caller re-check.
			return nil, ErrCompletionConflict
		}

		return &CompletionResult{
			EntityID:  existing.ID,
			Status:    string(existing.Status),
			PaymentID: existing.PaymentID,
			OrderID:   existing.OrderID,
			Replayed:  true,
		}, nil
	}

	s.fanOut(ctx, "",
		func(ctx context.Context) error {
			return s.notifications.NotifyBookingConfirmed(ctx, booking, provider, customer, owner, admin)
		},
		func(ctx context.Context) error {
			return s.emails.SendBookingEmails(ctx, booking, provider, customer, owner, admin)
		},
	)

	return &CompletionResult{
		EntityID:  booking.ID,
		Status:    string(booking.Status),
		PaymentID: booking.PaymentID,
		OrderID:   booking.OrderID,
	}, nil
}

// withSubjectLock runs fn under a best-effort Redis lock on the subject.
// Lock acquisition failures fall through to running fn anyway: the
// conditional database write is what actually prevents double completion.
func (s *PaymentService) withSubjectLock(ctx context.Context, subjectID string, fn func()) {
	if s.locks != nil {
		if ok, err := s.locks.AcquireSubjectLock(ctx, subjectID, subjectLockTTL); err == nil && ok {
			defer func() {
				_ = s.locks.ReleaseSubjectLock(ctx, subjectID)
			}()
		}
	}

	fn()
}

// fanOut runs the notification and email branches concurrently after the
// transition has committed. The context is detached from the request so a
// client disconnect cannot abort side effects of an already-final outcome;
// each branch logs its own failure and neither can fail the request.
func (s *PaymentService) fanOut(ctx context.Context, invalidateCarID string, branches ...func(context.Context) error) {
	fanCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fanoutTimeout)
	defer cancel()

	if invalidateCarID != "" && s.cache != nil {
		if err := s.cache.InvalidateCar(fanCtx, invalidateCarID); err != nil {
			log.Printf("failed to invalidate car cache for %s: %v", invalidateCarID, err)
		}
	}

	g := new(errgroup.Group)
	for _, branch := range branches {
		branch := branch
		g.Go(func() error {
			if err := branch(fanCtx); err != nil {
				log.Printf("completion fan-out error: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
