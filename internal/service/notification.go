package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// NotificationService creates in-app notification records for the
// stakeholders of a completed transaction.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// stakeholderNotification pairs a notification with the stakeholder role it
// targets, so delivery failures can be reported per role.
type stakeholderNotification struct {
	role         string
	notification *domain.Notification
}

// NotifyCarSold records purchase/sale/system notifications for the buyer,
// seller and admin of a completed car sale.
func (s *NotificationService) NotifyCarSold(ctx context.Context, car *domain.Car, buyer, seller, admin *domain.User, orderID string) error {
	listing := car.Description()

	return s.deliver(ctx, []stakeholderNotification{
		{role: RoleBuyer, notification: s.build(buyer.ID, domain.NotificationPurchase,
			"Purchase Successful!",
			fmt.Sprintf("You have successfully purchased %s. Order ID: %s", listing, orderID))},
		{role: RoleSeller, notification: s.build(seller.ID, domain.NotificationSale,
			"Car Sold!",
			fmt.Sprintf("Your %s has been sold to %s. Order ID: %s", listing, buyer.Name, orderID))},
		{role: RoleAdmin, notification: s.build(admin.ID, domain.NotificationSystem,
			"New Car Sale Completed!",
			fmt.Sprintf("A new sale has been completed for %s. Buyer: %s, Seller: %s. Order ID: %s",
				listing, buyer.Name, seller.Name, orderID))},
	})
}

// NotifyBookingConfirmed records booking/system notifications for the
// customer, the provider's owner and the admin of a confirmed booking.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, provider *domain.ServiceProvider, customer, owner, admin *domain.User) error {
	return s.deliver(ctx, []stakeholderNotification{
		{role: RoleCustomer, notification: s.build(customer.ID, domain.NotificationBooking,
			"Booking Confirmed!",
			fmt.Sprintf("Your service booking with %s has been confirmed for %s at %s. Order ID: %s",
				provider.Name, booking.ScheduledDate, booking.ScheduledTime, booking.OrderID))},
		{role: RoleProvider, notification: s.build(owner.ID, domain.NotificationBooking,
			"New Booking!",
			fmt.Sprintf("You have a new booking from %s for %s at %s. Order ID: %s",
				customer.Name, booking.ScheduledDate, booking.ScheduledTime, booking.OrderID))},
		{role: RoleAdmin, notification: s.build(admin.ID, domain.NotificationSystem,
			"New Service Booking!",
			fmt.Sprintf("A new service booking has been made by %s with %s. Order ID: %s",
				customer.Name, provider.Name, booking.OrderID))},
	})
}

// deliver attempts the whole batch in one statement first. If the batch
// fails it retries each recipient individually, so one bad row cannot
// suppress the other stakeholders' notifications. The returned error, if
// any, is a *PartialFailure naming the roles that were lost.
func (s *NotificationService) deliver(ctx context.Context, batch []stakeholderNotification) error {
	all := make([]*domain.Notification, len(batch))
	for i, item := range batch {
		all[i] = item.notification
	}

	if err := s.repo.InsertMany(ctx, all); err == nil {
		return nil
	}

	partial := newPartialFailure()
	for _, item := range batch {
		if err := s.repo.InsertMany(ctx, []*domain.Notification{item.notification}); err != nil {
			partial.record(item.role, err)
		}
	}
	return partial.orNil()
}

func (s *NotificationService) build(userID string, typ domain.NotificationType, title, description string) *domain.Notification {
	return &domain.Notification{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Type:        typ,
		Read:        false,
		CreatedAt:   time.Now(),
	}
}
