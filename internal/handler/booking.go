package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// BookingHandler handles HTTP requests for viewing service bookings.
type BookingHandler struct {
	bookingRepo repository.BookingRepository
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingRepo repository.BookingRepository) *BookingHandler {
	return &BookingHandler{bookingRepo: bookingRepo}
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID                string                 `json:"id"`
	ServiceProviderID string                 `json:"serviceProviderId"`
	Services          []domain.BookedService `json:"services"`
	Date              string                 `json:"date"`
	Time              string                 `json:"time"`
	TotalPrice        int64                  `json:"totalPrice"`
	Currency          string                 `json:"currency"`
	Status            string                 `json:"status"`
	PaymentID         string                 `json:"paymentId"`
	OrderID           string                 `json:"orderId"`
}

// GetMine handles GET /v1/bookings
func (h *BookingHandler) GetMine(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondBadRequest(c, "missing user identity")
		return
	}

	bookings, err := h.bookingRepo.GetByUser(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, BookingResponse{
			ID:                b.ID,
			ServiceProviderID: b.ServiceProviderID,
			Services:          b.Services,
			Date:              b.ScheduledDate,
			Time:              b.ScheduledTime,
			TotalPrice:        b.TotalPriceMinor,
			Currency:          b.Currency,
			Status:            string(b.Status),
			PaymentID:         b.PaymentID,
			OrderID:           b.OrderID,
		})
	}
	respondData(c, http.StatusOK, resp)
}
