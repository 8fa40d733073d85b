package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/hexa-center/book-a-room/internal/rates"
	"github.com/hexa-center/book-a-room/pkg/utils"
)

// BookingRequest is the create/update payload for bookings.
type BookingRequest struct {
	Start          time.Time       `json:"start" binding:"required"`
	End            time.Time       `json:"end" binding:"required"`
	RoomID         string          `json:"room_id" binding:"required"`
	CustomerID     string          `json:"customer_id" binding:"required"`
	BTW            int             `json:"btw"`
	CleaningFee    decimal.Decimal `json:"cleaning_fee"`
	CleaningFeeVAT int             `json:"cleaning_fee_vat"`
	ParkingFee     decimal.Decimal `json:"parking_fee"`
	ParkingFeeVAT  int             `json:"parking_fee_vat"`
	TouristTax     decimal.Decimal `json:"tourist_tax"`
	PriceOverride  decimal.Decimal `json:"price_override"`
	Notes          string          `json:"notes"`
	ExtraOne       string          `json:"extra_one"`
	ExtraTwo       string          `json:"extra_two"`
}

func (r BookingRequest) model(id string) *models.Booking {
	return &models.Booking{
		ID:             id,
		Start:          r.Start,
		End:            r.End,
		RoomID:         r.RoomID,
		CustomerID:     r.CustomerID,
		BTW:            r.BTW,
		CleaningFee:    r.CleaningFee,
		CleaningFeeVAT: r.CleaningFeeVAT,
		ParkingFee:     r.ParkingFee,
		ParkingFeeVAT:  r.ParkingFeeVAT,
		TouristTax:     r.TouristTax,
		PriceOverride:  r.PriceOverride,
		Notes:          r.Notes,
		ExtraOne:       r.ExtraOne,
		ExtraTwo:       r.ExtraTwo,
	}
}

// validateBooking checks the stay period and room availability.
func (h *Handlers) validateBooking(c *gin.Context, req BookingRequest, excludeID string) bool {
	if rates.Nights(req.Start, req.End) < 1 {
		respondError(c, http.StatusBadRequest, "stay must cover at least one night")
		return false
	}

	for _, pct := range []int{req.BTW, req.CleaningFeeVAT, req.ParkingFeeVAT} {
		if err := utils.ValidateVATPercent(pct); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return false
		}
	}

	room, err := h.rooms.GetByID(c.Request.Context(), req.RoomID)
	if err != nil {
		h.respondDomainError(c, err)
		return false
	}
	if room == nil {
		respondError(c, http.StatusBadRequest, "unknown room")
		return false
	}

	customer, err := h.customers.GetByID(c.Request.Context(), req.CustomerID)
	if err != nil {
		h.respondDomainError(c, err)
		return false
	}
	if customer == nil {
		respondError(c, http.StatusBadRequest, "unknown customer")
		return false
	}

	overlapping, err := h.bookings.ListOverlapping(c.Request.Context(), req.RoomID, req.Start, req.End, excludeID)
	if err != nil {
		h.respondDomainError(c, err)
		return false
	}
	if len(overlapping) > 0 {
		respondError(c, http.StatusConflict, "room is already booked in this period")
		return false
	}
	return true
}

// ListBookings handles GET /api/v1/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, bookings)
}

// CreateBooking handles POST /api/v1/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.validateBooking(c, req, "") {
		return
	}

	booking := req.model("")
	if err := h.bookings.Create(c.Request.Context(), booking); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondCreated(c, booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if booking == nil {
		respondError(c, http.StatusNotFound, "booking not found")
		return
	}
	respondOK(c, booking)
}

// UpdateBooking handles PUT /api/v1/bookings/:id
func (h *Handlers) UpdateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id := c.Param("id")
	if !h.validateBooking(c, req, id) {
		return
	}

	if err := h.bookings.Update(c.Request.Context(), req.model(id)); err != nil {
		h.respondDomainError(c, err)
		return
	}

	booking, err := h.bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, booking)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id
func (h *Handlers) DeleteBooking(c *gin.Context) {
	if err := h.bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, nil)
}

// ListBookingInvoices handles GET /api/v1/bookings/:id/invoices
func (h *Handlers) ListBookingInvoices(c *gin.Context) {
	invoices, err := h.invoices.ListByBookingID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, invoices)
}
