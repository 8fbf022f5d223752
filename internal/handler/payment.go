package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/service"
)

// PaymentHandler handles HTTP requests for checkout and payment verification.
type PaymentHandler struct {
	checkoutService *service.CheckoutService
	paymentService  *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(checkoutService *service.CheckoutService, paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		paymentService:  paymentService,
	}
}

// CreateCarOrderRequest is the HTTP request body for starting a car purchase.
type CreateCarOrderRequest struct {
	CarID    string `json:"carId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateServiceOrderRequest is the HTTP request body for starting a booking payment.
type CreateServiceOrderRequest struct {
	ServiceProviderID string `json:"serviceProviderId"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
}

// OrderResponse is the HTTP response for order creation.
type OrderResponse struct {
	OrderID string `json:"orderId"`
}

// VerifyCarPurchaseRequest is the provider callback for a car purchase.
type VerifyCarPurchaseRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	CarID             string `json:"carId"`
}

// VerifyBookingRequest is the provider callback for a service booking.
type VerifyBookingRequest struct {
	RazorpayPaymentID string                 `json:"razorpay_payment_id"`
	RazorpayOrderID   string                 `json:"razorpay_order_id"`
	RazorpaySignature string                 `json:"razorpay_signature"`
	ServiceProviderID string                 `json:"serviceProviderId"`
	Services          []domain.BookedService `json:"services"`
	Date              string                 `json:"date"`
	Time              string                 `json:"time"`
	TotalPrice        int64                  `json:"totalPrice"`
	Currency          string                 `json:"currency"`
}

// CompletionResponse is the HTTP response for a verified payment.
type CompletionResponse struct {
	EntityID  string `json:"entityId"`
	Status    string `json:"status"`
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
}

// CreateCarOrder handles POST /v1/payments/cars/order
func (h *PaymentHandler) CreateCarOrder(c *gin.Context) {
	var req CreateCarOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.checkoutService.CreateCarOrder(c.Request.Context(), service.CreateCarOrderRequest{
		CarID:       req.CarID,
		BuyerID:     userID(c),
		AmountMinor: req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, OrderResponse{OrderID: order.ID})
}

// CreateServiceOrder handles POST /v1/payments/services/order
func (h *PaymentHandler) CreateServiceOrder(c *gin.Context) {
	var req CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.checkoutService.CreateServiceOrder(c.Request.Context(), service.CreateServiceOrderRequest{
		ServiceProviderID: req.ServiceProviderID,
		UserID:            userID(c),
		AmountMinor:       req.Amount,
		Currency:          req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, OrderResponse{OrderID: order.ID})
}

// VerifyCarPurchase handles POST /v1/payments/cars/verify
func (h *PaymentHandler) VerifyCarPurchase(c *gin.Context) {
	var req VerifyCarPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.paymentService.VerifyCarPurchase(c.Request.Context(), service.VerifyCarPurchaseRequest{
		PaymentID: req.RazorpayPaymentID,
		OrderID:   req.RazorpayOrderID,
		Signature: req.RazorpaySignature,
		CarID:     req.CarID,
		BuyerID:   userID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, completionResponse(result))
}

// VerifyBooking handles POST /v1/payments/services/verify
func (h *PaymentHandler) VerifyBooking(c *gin.Context) {
	var req VerifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.paymentService.VerifyServiceBooking(c.Request.Context(), service.VerifyServiceBookingRequest{
		PaymentID:         req.RazorpayPaymentID,
		OrderID:           req.RazorpayOrderID,
		Signature:         req.RazorpaySignature,
		ServiceProviderID: req.ServiceProviderID,
		UserID:            userID(c),
		Services:          req.Services,
		Date:              req.Date,
		Time:              req.Time,
		TotalPriceMinor:   req.TotalPrice,
		Currency:          req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, completionResponse(result))
}

func completionResponse(result *service.CompletionResult) CompletionResponse {
	return CompletionResponse{
		EntityID:  result.EntityID,
		Status:    result.Status,
		PaymentID: result.PaymentID,
		OrderID:   result.OrderID,
	}
}
