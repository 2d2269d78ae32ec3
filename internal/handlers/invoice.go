package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/invoicer/internal/metrics"
	"github.com/example/invoicer/internal/middleware"
	"github.com/example/invoicer/internal/models"
	"github.com/example/invoicer/internal/services"
	"github.com/example/invoicer/internal/utils"
)

// InvoiceHandler manages owner-scoped invoice endpoints.
type InvoiceHandler struct {
	db *gorm.DB
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{db: db}
}

// ListInvoices returns the authenticated user's invoices with their
// items and customer.
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	invoices := []models.Invoice{}
	if err := h.db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Customer").
		Order("created_at desc").
		Find(&invoices).Error; err != nil {
		return err
	}

	return c.JSON(invoices)
}

// GetInvoice returns a single invoice owned by the authenticated user.
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	invoice, err := h.loadOwnedInvoice(c)
	if err != nil {
		return err
	}

	return c.JSON(invoice)
}

type invoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type createInvoiceRequest struct {
	CustomerID    string               `json:"customerId"`
	Date          string               `json:"date"`
	DueDate       string               `json:"dueDate"`
	Items         []invoiceItemRequest `json:"items"`
	TaxPercentage float64              `json:"taxPercentage"`
	Status        string               `json:"status"`
}

// CreateInvoice creates an invoice plus its items as one unit. The total
// is always computed server-side from the items and tax percentage; a
// client-supplied total is ignored.
func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invoice requires at least one item")
	}

	if req.TaxPercentage < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "tax percentage must not be negative")
	}

	status := req.Status
	if status == "" {
		status = models.InvoiceStatusUnpaid
	}
	if status != models.InvoiceStatusPaid && status != models.InvoiceStatusUnpaid {
		return fiber.NewError(fiber.StatusBadRequest, "status must be paid or unpaid")
	}

	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item quantity must be positive")
		}
		if item.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item price must not be negative")
		}
		items = append(items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	// Cross-tenant customer references are rejected before anything is written.
	var customer models.Customer
	if err := h.db.First(&customer, "id = ? AND user_id = ?", customerID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	invoice := models.Invoice{
		UserID:        userID,
		CustomerID:    customer.ID,
		Date:          req.Date,
		DueDate:       req.DueDate,
		Status:        status,
		TaxPercentage: req.TaxPercentage,
		Total:         utils.InvoiceTotal(items, req.TaxPercentage),
		Items:         items,
	}

	// gorm persists the invoice and its items inside a single transaction,
	// so a failed item insert rolls the header back too.
	if err := h.db.Create(&invoice).Error; err != nil {
		return err
	}

	metrics.ObserveInvoiceCreated()

	invoice.Customer = &customer
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

type updateInvoiceRequest struct {
	Date          *string  `json:"date"`
	DueDate       *string  `json:"dueDate"`
	Status        *string  `json:"status"`
	TaxPercentage *float64 `json:"taxPercentage"`
}

// UpdateInvoice patches top-level invoice fields. Items are never touched
// and the total is not recomputed, a limitation carried over on purpose.
func (h *InvoiceHandler) UpdateInvoice(c *fiber.Ctx) error {
	invoice, err := h.loadOwnedInvoice(c)
	if err != nil {
		return err
	}

	var req updateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Status != nil {
		if *req.Status != models.InvoiceStatusPaid && *req.Status != models.InvoiceStatusUnpaid {
			return fiber.NewError(fiber.StatusBadRequest, "status must be paid or unpaid")
		}
		updates["status"] = *req.Status
	}
	if req.TaxPercentage != nil {
		if *req.TaxPercentage < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "tax percentage must not be negative")
		}
		updates["tax_percentage"] = *req.TaxPercentage
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(invoice).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(invoice)
}

// DeleteInvoice removes an invoice and its items in one transaction.
func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", invoiceID, userID).
			Delete(&models.Invoice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("invoice_id = ?", invoiceID).
			Delete(&models.InvoiceItem{}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadInvoicePDF renders an owned invoice as a PDF document.
func (h *InvoiceHandler) DownloadInvoicePDF(c *fiber.Ctx) error {
	invoice, err := h.loadOwnedInvoice(c)
	if err != nil {
		return err
	}

	doc, err := services.RenderInvoicePDF(*invoice)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render invoice")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice-`+invoice.ID.String()+`.pdf"`)
	return c.Send(doc)
}

func (h *InvoiceHandler) loadOwnedInvoice(c *fiber.Ctx) (*models.Invoice, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var invoice models.Invoice
	if err := h.db.Preload("Items").
		Preload("Customer").
		First(&invoice, "id = ? AND user_id = ?", invoiceID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return nil, err
	}

	return &invoice, nil
}
