package models

import "github.com/google/uuid"

// Invoice statuses.
const (
	InvoiceStatusPaid   = "paid"
	InvoiceStatusUnpaid = "unpaid"
)

// Invoice holds the billing document header. Total is computed from the
// items and tax percentage when the invoice is created and is not
// recomputed afterwards.
type Invoice struct {
	BaseModel
	UserID        uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	CustomerID    uuid.UUID     `gorm:"type:uuid;index" json:"customer_id"`
	Date          string        `json:"date"`
	DueDate       string        `json:"due_date"`
	Total         float64       `json:"total"`
	Status        string        `json:"status"`
	TaxPercentage float64       `json:"tax_percentage"`
	Items         []InvoiceItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Customer      *Customer     `json:"customer,omitempty"`
}

// InvoiceItem is a single line on an invoice. Items are created together
// with their invoice and are never re-owned.
type InvoiceItem struct {
	BaseModel
	InvoiceID   uuid.UUID `gorm:"type:uuid;index" json:"invoice_id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}
