package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/mailer"
)

// emailSendTimeout bounds each recipient's single delivery attempt.
const emailSendTimeout = 15 * time.Second

// EmailDispatcher sends best-effort completion emails to stakeholders.
// A nil mail transport disables it entirely.
type EmailDispatcher struct {
	mailer      mailer.Mailer
	frontendURL string
}

// NewEmailDispatcher creates a new EmailDispatcher. Pass a nil Mailer when
// no SMTP transport is configured; sends then become logged no-ops.
func NewEmailDispatcher(m mailer.Mailer, frontendURL string) *EmailDispatcher {
	return &EmailDispatcher{mailer: m, frontendURL: frontendURL}
}

// Enabled reports whether a mail transport is configured.
func (d *EmailDispatcher) Enabled() bool {
	return d != nil && d.mailer != nil
}

// outboundEmail is one rendered-to-be message addressed to a stakeholder.
type outboundEmail struct {
	role    string
	to      string
	subject string
	content mailer.Content
}

// SendCarSaleEmails emails the buyer, seller and admin about a completed
// car sale. Failures never propagate past the returned *PartialFailure.
func (d *EmailDispatcher) SendCarSaleEmails(ctx context.Context, car *domain.Car, buyer, seller, admin *domain.User, orderID, paymentID string) error {
	if !d.Enabled() {
		log.Printf("WARN: email transport not configured, skipping car sale emails for order %s", orderID)
		return nil
	}

	listing := car.Description()
	amount := formatAmount(car.PriceMinor, car.Currency)

	emails := []outboundEmail{
		{
			role:    RoleBuyer,
			to:      buyer.Email,
			subject: "Congratulations on Your New Car! - WheelsTrust",
			content: mailer.Content{
				Heading:  "Purchase Successful!",
				Greeting: buyer.Name,
				Intro:    "Congratulations on your new car purchase! We're excited to welcome you to the WheelsTrust family.",
				Details: []mailer.Detail{
					{Label: "Car", Value: listing},
					{Label: "Order ID", Value: orderID},
					{Label: "Payment ID", Value: paymentID},
					{Label: "Amount Paid", Value: amount},
				},
				NextSteps: []string{
					"Our team will contact you within 24 hours to arrange the delivery",
					"Please keep your payment receipt for reference",
					"You can track your purchase status in your dashboard",
				},
				LinkURL:   d.frontendURL + "/dashboard/purchases",
				LinkLabel: "View Purchase Details",
				Footer:    "Thank you for choosing WheelsTrust!",
			},
		},
		{
			role:    RoleSeller,
			to:      seller.Email,
			subject: "Your Car Has Been Sold! - WheelsTrust",
			content: mailer.Content{
				Heading:  "Your Car Has Been Sold!",
				Greeting: seller.Name,
				Intro:    "Great news! Your car has been successfully sold through WheelsTrust.",
				Details: []mailer.Detail{
					{Label: "Car", Value: listing},
					{Label: "Buyer", Value: buyer.Name},
					{Label: "Order ID", Value: orderID},
					{Label: "Payment ID", Value: paymentID},
					{Label: "Amount", Value: amount},
				},
				NextSteps: []string{
					"The payment will be processed and transferred to your account within 3-5 business days",
					"Please prepare the car for handover",
					"Our team will contact you to arrange the transfer process",
				},
				LinkURL:   d.frontendURL + "/dashboard/sales",
				LinkLabel: "View Sale Details",
				Footer:    "Thank you for using WheelsTrust!",
			},
		},
		{
			role:    RoleAdmin,
			to:      admin.Email,
			subject: "New Car Sale - WheelsTrust",
			content: mailer.Content{
				Heading: "New Car Sale Completed",
				Intro:   "A new car sale has been completed on WheelsTrust.",
				Details: []mailer.Detail{
					{Label: "Car", Value: listing},
					{Label: "Seller", Value: fmt.Sprintf("%s (%s)", seller.Name, seller.Email)},
					{Label: "Buyer", Value: fmt.Sprintf("%s (%s)", buyer.Name, buyer.Email)},
					{Label: "Order ID", Value: orderID},
					{Label: "Payment ID", Value: paymentID},
					{Label: "Amount", Value: amount},
				},
				Footer: "WheelsTrust Admin Dashboard",
			},
		},
	}

	return d.dispatch(ctx, emails)
}

// SendBookingEmails emails the customer, the provider's owner and the admin
// about a confirmed service booking.
func (d *EmailDispatcher) SendBookingEmails(ctx context.Context, booking *domain.Booking, provider *domain.ServiceProvider, customer, owner, admin *domain.User) error {
	if !d.Enabled() {
		log.Printf("WARN: email transport not configured, skipping booking emails for order %s", booking.OrderID)
		return nil
	}

	amount := formatAmount(booking.TotalPriceMinor, booking.Currency)
	schedule := booking.ScheduledDate + " at " + booking.ScheduledTime

	emails := []outboundEmail{
		{
			role:    RoleCustomer,
			to:      customer.Email,
			subject: "Your Service Booking is Confirmed! - WheelsTrust",
			content: mailer.Content{
				Heading:  "Booking Confirmed!",
				Greeting: customer.Name,
				Intro:    "Your service booking has been confirmed! We're looking forward to serving you.",
				Details: []mailer.Detail{
					{Label: "Service Provider", Value: provider.Name},
					{Label: "Schedule", Value: schedule},
					{Label: "Order ID", Value: booking.OrderID},
					{Label: "Payment ID", Value: booking.PaymentID},
					{Label: "Amount Paid", Value: amount},
				},
				LinkURL:   d.frontendURL + "/dashboard/bookings",
				LinkLabel: "View Booking Details",
				Footer:    "Thank you for choosing WheelsTrust!",
			},
		},
		{
			role:    RoleProvider,
			to:      owner.Email,
			subject: "You Have a New Booking! - WheelsTrust",
			content: mailer.Content{
				Heading:  "New Booking!",
				Greeting: owner.Name,
				Intro:    fmt.Sprintf("You have a new booking from %s.", customer.Name),
				Details: []mailer.Detail{
					{Label: "Customer", Value: customer.Name},
					{Label: "Schedule", Value: schedule},
					{Label: "Order ID", Value: booking.OrderID},
					{Label: "Amount", Value: amount},
				},
				LinkURL:   d.frontendURL + "/dashboard/bookings",
				LinkLabel: "View Booking",
				Footer:    "WheelsTrust",
			},
		},
		{
			role:    RoleAdmin,
			to:      admin.Email,
			subject: "New Service Booking - WheelsTrust",
			content: mailer.Content{
				Heading: "New Service Booking",
				Intro:   "A new service booking has been completed on WheelsTrust.",
				Details: []mailer.Detail{
					{Label: "Provider", Value: provider.Name},
					{Label: "Customer", Value: fmt.Sprintf("%s (%s)", customer.Name, customer.Email)},
					{Label: "Schedule", Value: schedule},
					{Label: "Order ID", Value: booking.OrderID},
					{Label: "Amount", Value: amount},
				},
				Footer: "WheelsTrust Admin Dashboard",
			},
		},
	}

	return d.dispatch(ctx, emails)
}

// dispatch renders and sends every message concurrently. Each send records
// its own failure and returns nil to the group, so one recipient can never
// cancel the others; the aggregate comes back as a *PartialFailure.
func (d *EmailDispatcher) dispatch(ctx context.Context, emails []outboundEmail) error {
	partial := newPartialFailure()
	g := new(errgroup.Group)

	for _, email := range emails {
		email := email
		if email.to == "" {
			continue
		}

		g.Go(func() error {
			body, err := mailer.Render(email.content)
			if err != nil {
				partial.record(email.role, err)
				return nil
			}

			sendCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
			defer cancel()

			if err := d.mailer.Send(sendCtx, email.to, email.subject, body); err != nil {
				partial.record(email.role, err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return partial.orNil()
}

func formatAmount(minor int64, currency string) string {
	if currency == "" {
		currency = defaultCurrency
	}
	return fmt.Sprintf("%s %.2f", currency, float64(minor)/100)
}
