package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateInvoiceRequest is the payload of POST /bookings/:id/invoices.
type CreateInvoiceRequest struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

// CreateInvoice handles POST /api/v1/bookings/:id/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.invoiceSvc.Create(c.Request.Context(), c.Param("id"), req.From, req.To)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondCreated(c, inv)
}

// ListInvoices handles GET /api/v1/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, invoices)
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	inv, err := h.invoices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if inv == nil {
		respondError(c, http.StatusNotFound, "invoice not found")
		return
	}
	respondOK(c, inv)
}

// DeleteInvoice handles DELETE /api/v1/invoices/:id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, nil)
}

// CreateCreditNote handles POST /api/v1/invoices/:id/credit
func (h *Handlers) CreateCreditNote(c *gin.Context) {
	credit, err := h.invoiceSvc.CreateCreditNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondCreated(c, credit)
}

// MailInvoiceRequest optionally overrides the recipient address.
type MailInvoiceRequest struct {
	To string `json:"to"`
}

// MailInvoice handles POST /api/v1/invoices/:id/mail
func (h *Handlers) MailInvoice(c *gin.Context) {
	var req MailInvoiceRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.invoices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if inv == nil {
		respondError(c, http.StatusNotFound, "invoice not found")
		return
	}

	to := req.To
	if to == "" {
		to = inv.Customer.Email
	}
	if to == "" {
		respondError(c, http.StatusBadRequest, "invoice customer has no email address")
		return
	}

	if err := h.mailer.SendInvoice(c.Request.Context(), to, inv); err != nil {
		h.logger.Error("Failed to mail invoice",
			zap.String("invoice_id", inv.ID), zap.Error(err))
		respondError(c, http.StatusBadGateway, "failed to send invoice mail")
		return
	}

	inv, err = h.invoiceSvc.MarkMailed(c.Request.Context(), inv.ID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, inv)
}

// ExportInvoices handles GET /api/v1/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, invoices); err != nil {
		h.respondDomainError(c, err)
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
