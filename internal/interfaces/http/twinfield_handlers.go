package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hexa-center/book-a-room/internal/twinfield"
)

// respondAccountingError maps accounting bridge failures: a missing
// session is the caller's problem, everything else is upstream.
func (h *Handlers) respondAccountingError(c *gin.Context, err error) {
	if errors.Is(err, twinfield.ErrNoSession) {
		respondError(c, http.StatusUnauthorized, "no accounting session")
		return
	}
	h.logger.Error("Accounting request failed", zap.Error(err))
	respondError(c, http.StatusBadGateway, "accounting api request failed")
}

// TwinfieldConnectRequest carries the OAuth authorization code.
type TwinfieldConnectRequest struct {
	Code string `json:"code" binding:"required"`
}

// TwinfieldSessionStatus handles GET /api/v1/twinfield/session
func (h *Handlers) TwinfieldSessionStatus(c *gin.Context) {
	respondOK(c, gin.H{"connected": h.session.Connected()})
}

// TwinfieldConnect handles POST /api/v1/twinfield/session
func (h *Handlers) TwinfieldConnect(c *gin.Context) {
	var req TwinfieldConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.Connect(c.Request.Context(), req.Code); err != nil {
		h.respondAccountingError(c, err)
		return
	}
	respondOK(c, gin.H{"connected": true})
}

// TwinfieldDisconnect handles DELETE /api/v1/twinfield/session
func (h *Handlers) TwinfieldDisconnect(c *gin.Context) {
	h.session.Disconnect()
	respondOK(c, gin.H{"connected": false})
}

// TwinfieldListCustomers handles GET /api/v1/twinfield/customers
func (h *Handlers) TwinfieldListCustomers(c *gin.Context) {
	customers, err := h.accounting.ListCustomers(c.Request.Context())
	if err != nil {
		h.respondAccountingError(c, err)
		return
	}
	respondOK(c, customers)
}

// TwinfieldCreateCustomer handles POST /api/v1/twinfield/customers/:id.
// The customer record is pushed as a new DEB dimension and the assigned
// code is stored on the customer.
func (h *Handlers) TwinfieldCreateCustomer(c *gin.Context) {
	customer, err := h.customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}

	code, err := h.accounting.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		h.respondAccountingError(c, err)
		return
	}

	customer.TwinfieldCode = code
	if err := h.customers.Update(c.Request.Context(), customer); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondCreated(c, customer)
}

// TwinfieldUpdateCustomer handles PUT /api/v1/twinfield/customers/:id
func (h *Handlers) TwinfieldUpdateCustomer(c *gin.Context) {
	customer, err := h.customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}
	if customer.TwinfieldCode == "" {
		respondError(c, http.StatusBadRequest, "customer is not linked to the accounting api")
		return
	}

	if _, err := h.accounting.UpdateCustomer(c.Request.Context(), customer); err != nil {
		h.respondAccountingError(c, err)
		return
	}
	respondOK(c, customer)
}

// TwinfieldDeleteCustomer handles DELETE /api/v1/twinfield/customers/:id
func (h *Handlers) TwinfieldDeleteCustomer(c *gin.Context) {
	customer, err := h.customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}
	if customer.TwinfieldCode == "" {
		respondError(c, http.StatusBadRequest, "customer is not linked to the accounting api")
		return
	}

	if err := h.accounting.DeleteCustomer(c.Request.Context(), customer.TwinfieldCode); err != nil {
		h.respondAccountingError(c, err)
		return
	}

	customer.TwinfieldCode = ""
	if err := h.customers.Update(c.Request.Context(), customer); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, customer)
}

// TwinfieldTransactionRequest names the invoice to book.
type TwinfieldTransactionRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
}

// TwinfieldCreateTransaction handles POST /api/v1/twinfield/transactions
func (h *Handlers) TwinfieldCreateTransaction(c *gin.Context) {
	var req TwinfieldTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.invoices.GetByID(c.Request.Context(), req.InvoiceID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if inv == nil {
		respondError(c, http.StatusNotFound, "invoice not found")
		return
	}

	booking, err := h.bookings.GetByID(c.Request.Context(), inv.BookingID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if booking == nil {
		respondError(c, http.StatusBadRequest, "invoice booking no longer exists")
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), booking.CustomerID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if customer == nil || customer.TwinfieldCode == "" {
		respondError(c, http.StatusBadRequest, "customer is not linked to the accounting api")
		return
	}

	number, err := h.accounting.CreateTransaction(c.Request.Context(), inv, customer.TwinfieldCode)
	if err != nil {
		h.respondAccountingError(c, err)
		return
	}
	respondOK(c, gin.H{"transaction_number": number})
}
