package http

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hexa-center/book-a-room/internal/invoice"
	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/hexa-center/book-a-room/internal/twinfield"
	"github.com/hexa-center/book-a-room/pkg/utils"
)

// RoomStore is the room persistence the handlers need.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)
	Delete(ctx context.Context, id string) error
}

// CustomerStore is the customer persistence the handlers need.
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Delete(ctx context.Context, id string) error
}

// BookingStore is the booking persistence the handlers need.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*models.Booking, error)
	Delete(ctx context.Context, id string) error
}

// SettingsStore is the settings persistence the handlers need.
type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, s *models.Settings) error
}

// InvoiceStore is the read side of invoice persistence; mutations go
// through InvoiceService.
type InvoiceStore interface {
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context) ([]*models.Invoice, error)
	ListByBookingID(ctx context.Context, bookingID string) ([]*models.Invoice, error)
}

// InvoiceService drives the invoice lifecycle.
type InvoiceService interface {
	Create(ctx context.Context, bookingID string, from, to time.Time) (*models.Invoice, error)
	CreateCreditNote(ctx context.Context, invoiceID string) (*models.Invoice, error)
	Delete(ctx context.Context, invoiceID string) error
	MarkMailed(ctx context.Context, invoiceID string) (*models.Invoice, error)
}

// MailSender delivers invoice mail.
type MailSender interface {
	SendInvoice(ctx context.Context, to string, inv *models.Invoice) error
}

// RegisterExporter renders the invoice register.
type RegisterExporter interface {
	Write(w io.Writer, invoices []*models.Invoice) error
}

// AccountingSession is the OAuth session with the accounting API.
type AccountingSession interface {
	Connect(ctx context.Context, code string) error
	Disconnect()
	Connected() bool
}

// AccountingClient performs accounting API operations.
type AccountingClient interface {
	CreateCustomer(ctx context.Context, c *models.Customer) (string, error)
	UpdateCustomer(ctx context.Context, c *models.Customer) (string, error)
	DeleteCustomer(ctx context.Context, code string) error
	ListCustomers(ctx context.Context) ([]twinfield.CustomerDimension, error)
	CreateTransaction(ctx context.Context, inv *models.Invoice, customerCode string) (string, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	rooms      RoomStore
	customers  CustomerStore
	bookings   BookingStore
	settings   SettingsStore
	invoices   InvoiceStore
	invoiceSvc InvoiceService
	mailer     MailSender
	exporter   RegisterExporter
	session    AccountingSession
	accounting AccountingClient
	logger     *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	rooms RoomStore,
	customers CustomerStore,
	bookings BookingStore,
	settings SettingsStore,
	invoices InvoiceStore,
	invoiceSvc InvoiceService,
	mailer MailSender,
	exporter RegisterExporter,
	session AccountingSession,
	accounting AccountingClient,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		rooms:      rooms,
		customers:  customers,
		bookings:   bookings,
		settings:   settings,
		invoices:   invoices,
		invoiceSvc: invoiceSvc,
		mailer:     mailer,
		exporter:   exporter,
		session:    session,
		accounting: accounting,
		logger:     logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// respondDomainError maps domain errors to status codes.
func (h *Handlers) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, invoice.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, invoice.ErrInvalidPeriod):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, invoice.ErrPeriodOverlap),
		errors.Is(err, invoice.ErrAlreadyCredited),
		errors.Is(err, invoice.ErrCreditOfCredit):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, twinfield.ErrNoSession):
		respondError(c, http.StatusUnauthorized, "no accounting session")
	default:
		h.logger.Error("Request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	respondOK(c, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// RoomRequest is the create/update payload for rooms.
type RoomRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// ListRooms handles GET /api/v1/rooms
func (h *Handlers) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, rooms)
}

// CreateRoom handles POST /api/v1/rooms
func (h *Handlers) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	room := &models.Room{Name: req.Name, Price: req.Price}
	if err := h.rooms.Create(c.Request.Context(), room); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondCreated(c, room)
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *Handlers) GetRoom(c *gin.Context) {
	room, err := h.rooms.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if room == nil {
		respondError(c, http.StatusNotFound, "room not found")
		return
	}
	respondOK(c, room)
}

// UpdateRoom handles PUT /api/v1/rooms/:id
func (h *Handlers) UpdateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	room := &models.Room{ID: c.Param("id"), Name: req.Name, Price: req.Price}
	if err := h.rooms.Update(c.Request.Context(), room); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, room)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id
func (h *Handlers) DeleteRoom(c *gin.Context) {
	if err := h.rooms.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, nil)
}

// CustomerRequest is the create/update payload for customers.
type CustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	SecondName  string `json:"second_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Extra       string `json:"extra"`
}

func (r CustomerRequest) validate() error {
	if r.Email != "" {
		if err := utils.ValidateEmail(r.Email); err != nil {
			return err
		}
	}
	if r.PostalCode != "" {
		if err := utils.ValidatePostalCode(r.PostalCode); err != nil {
			return err
		}
	}
	return nil
}

func (r CustomerRequest) model(id string) *models.Customer {
	return &models.Customer{
		ID:          id,
		Name:        r.Name,
		SecondName:  r.SecondName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Street:      r.Street,
		HouseNumber: r.HouseNumber,
		PostalCode:  r.PostalCode,
		City:        r.City,
		Extra:       r.Extra,
	}
}

// ListCustomers handles GET /api/v1/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, customers)
}

// CreateCustomer handles POST /api/v1/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	customer := req.model("")
	if err := h.customers.Create(c.Request.Context(), customer); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondCreated(c, customer)
}

// GetCustomer handles GET /api/v1/customers/:id
func (h *Handlers) GetCustomer(c *gin.Context) {
	customer, err := h.customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}
	respondOK(c, customer)
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if existing == nil {
		respondError(c, http.StatusNotFound, "customer not found")
		return
	}

	customer := req.model(existing.ID)
	customer.TwinfieldCode = existing.TwinfieldCode
	if err := h.customers.Update(c.Request.Context(), customer); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, customer)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, nil)
}

// SettingsRequest is the update payload for the company profile.
type SettingsRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	KvkNumber   string `json:"kvk_number"`
	BTWNumber   string `json:"btw_number"`
	BicCode     string `json:"bic_code"`
	IBAN        string `json:"iban"`
}

// GetSettings handles GET /api/v1/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, settings)
}

// UpdateSettings handles PUT /api/v1/settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	settings.CompanyName = req.CompanyName
	settings.Email = req.Email
	settings.PhoneNumber = req.PhoneNumber
	settings.Street = req.Street
	settings.HouseNumber = req.HouseNumber
	settings.PostalCode = req.PostalCode
	settings.City = req.City
	settings.KvkNumber = req.KvkNumber
	settings.BTWNumber = req.BTWNumber
	settings.BicCode = req.BicCode
	settings.IBAN = req.IBAN

	if err := h.settings.Update(c.Request.Context(), settings); err != nil {
		h.respondDomainError(c, err)
		return
	}
	respondOK(c, settings)
}
