package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/example/invoicer/internal/models"
	"github.com/example/invoicer/internal/utils"
)

// RenderInvoicePDF produces a plain single-page PDF for an invoice. The
// customer association must be loaded.
func RenderInvoicePDF(invoice models.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Invoice")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice ID: %s", invoice.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s    Due: %s", invoice.Date, invoice.DueDate))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(10)

	if invoice.Customer != nil {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, "Bill To")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, invoice.Customer.Name)
		pdf.Ln(5)
		if invoice.Customer.CompanyName != "" {
			pdf.Cell(0, 6, invoice.Customer.CompanyName)
			pdf.Ln(5)
		}
		if invoice.Customer.Address != "" {
			pdf.Cell(0, 6, invoice.Customer.Address)
			pdf.Ln(5)
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range invoice.Items {
		line := utils.InvoiceSubtotal([]models.InvoiceItem{item})
		pdf.CellFormat(100, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", line), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.CellFormat(155, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", utils.InvoiceSubtotal(invoice.Items)), "", 1, "R", false, 0, "")
	pdf.CellFormat(155, 7, fmt.Sprintf("Tax (%.1f%%)", invoice.TaxPercentage), "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", invoice.Total-utils.InvoiceSubtotal(invoice.Items)), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", invoice.Total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
