package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelstrust/internal/domain"
	internalredis "wheelstrust/internal/redis"
	"wheelstrust/internal/repository"
)

// CarHandler handles HTTP requests for browsing car listings.
type CarHandler struct {
	carRepo repository.CarRepository
	cache   internalredis.CarCacheInterface
}

// NewCarHandler creates a new CarHandler. cache may be nil.
func NewCarHandler(carRepo repository.CarRepository, cache internalredis.CarCacheInterface) *CarHandler {
	return &CarHandler{carRepo: carRepo, cache: cache}
}

// CarResponse is the HTTP representation of a car listing.
type CarResponse struct {
	ID       string `json:"id"`
	SellerID string `json:"sellerId"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// GetAll handles GET /v1/cars
func (h *CarHandler) GetAll(c *gin.Context) {
	status := domain.CarStatus(c.Query("status"))

	cars, err := h.carRepo.GetAll(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		resp = append(resp, carResponse(car))
	}
	respondData(c, http.StatusOK, resp)
}

// Get handles GET /v1/cars/:id with a cache read-through.
func (h *CarHandler) Get(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if h.cache != nil {
		cached, err := h.cache.GetCar(ctx, id)
		if err != nil {
			log.Printf("car cache read failed for %s: %v", id, err)
		}
		if cached != nil {
			respondData(c, http.StatusOK, CarResponse{
				ID:       cached.ID,
				SellerID: cached.SellerID,
				Make:     cached.Make,
				Model:    cached.Model,
				Year:     cached.Year,
				Price:    cached.PriceMinor,
				Currency: cached.Currency,
				Status:   cached.Status,
			})
			return
		}
	}

	car, err := h.carRepo.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.SetCar(ctx, &internalredis.CachedCar{
			ID:         car.ID,
			SellerID:   car.SellerID,
			Make:       car.Make,
			Model:      car.Model,
			Year:       car.Year,
			PriceMinor: car.PriceMinor,
			Currency:   car.Currency,
			Status:     string(car.Status),
		})
	}

	respondData(c, http.StatusOK, carResponse(car))
}

func carResponse(car *domain.Car) CarResponse {
	return CarResponse{
		ID:       car.ID,
		SellerID: car.SellerID,
		Make:     car.Make,
		Model:    car.Model,
		Year:     car.Year,
		Price:    car.PriceMinor,
		Currency: car.Currency,
		Status:   string(car.Status),
	}
}
