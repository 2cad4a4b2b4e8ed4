package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/models"
)

// InvoiceService renders PDF invoices and credit memos into a shared
// directory. File names embed the entity number and a timestamp, so concurrent
// workers do not collide.
type InvoiceService struct {
	dir string
}

// NewInvoiceService creates an InvoiceService, ensuring the target directory
// exists.
func NewInvoiceService(dir string) (*InvoiceService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create invoices directory %s: %w", dir, err)
	}
	return &InvoiceService{dir: dir}, nil
}

// GenerateInvoiceNumber generates a unique invoice number.
func GenerateInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// GenerateOrderInvoice writes the PDF invoice for a shipped order and returns
// the file path.
func (s *InvoiceService) GenerateOrderInvoice(order *models.Order) (string, error) {
	filename := fmt.Sprintf("invoice_order_%s_%s.pdf", order.OrderNumber, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, filename)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	writeDetailRow(pdf, "Invoice Number:", order.OrderNumber)
	writeDetailRow(pdf, "Order Date:", order.CreatedAt.Format("January 2, 2006"))
	if order.ShippedAt != nil {
		writeDetailRow(pdf, "Shipped Date:", order.ShippedAt.Format("January 2, 2006"))
	}
	writeDetailRow(pdf, "Bill To:", fmt.Sprintf("%s <%s>", order.CustomerName, order.CustomerEmail))
	if order.ShippingAddress != "" {
		writeDetailRow(pdf, "Ship To:", order.ShippingAddress)
	}
	pdf.Ln(6)

	writeItemsHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range order.Items {
		writeItemRow(pdf, item.ProductName, item.ProductSKU, item.Quantity,
			item.UnitPrice.StringFixed(2), item.TotalPrice.StringFixed(2))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	writeTotalRow(pdf, "Subtotal:", order.Subtotal.StringFixed(2), false)
	writeTotalRow(pdf, "Tax:", order.Tax.StringFixed(2), false)
	writeTotalRow(pdf, "Shipping:", order.ShippingCost.StringFixed(2), false)
	writeTotalRow(pdf, "Total:", order.Total.StringFixed(2), true)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write invoice PDF %s: %w", path, err)
	}
	return path, nil
}

// GenerateReturnInvoice writes the PDF credit memo for a processed return and
// returns the file path. The parent order supplies the customer details.
func (s *InvoiceService) GenerateReturnInvoice(ret *models.Return, order *models.Order) (string, error) {
	filename := fmt.Sprintf("credit_memo_return_%s_%s.pdf", ret.ReturnNumber, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, filename)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "CREDIT MEMO", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	writeDetailRow(pdf, "Credit Memo Number:", ret.ReturnNumber)
	writeDetailRow(pdf, "Original Order:", order.OrderNumber)
	writeDetailRow(pdf, "Return Date:", ret.CreatedAt.Format("January 2, 2006"))
	writeDetailRow(pdf, "Reason:", string(ret.Reason))
	writeDetailRow(pdf, "Customer:", fmt.Sprintf("%s <%s>", order.CustomerName, order.CustomerEmail))
	pdf.Ln(6)

	writeItemsHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range ret.Items {
		unitRefund := item.RefundAmount.Div(decimal.NewFromInt(int64(item.Quantity)))
		writeItemRow(pdf, item.ProductName, item.ProductSKU, item.Quantity,
			unitRefund.StringFixed(2), item.RefundAmount.StringFixed(2))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	writeTotalRow(pdf, "Total Refund:", ret.RefundAmount.StringFixed(2), true)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write credit memo PDF %s: %w", path, err)
	}
	return path, nil
}

func writeDetailRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func writeItemsHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(74, 144, 226)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(70, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "SKU", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func writeItemRow(pdf *gofpdf.Fpdf, name, sku string, qty int, unit, total string) {
	pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, sku, "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, fmt.Sprintf("%d", qty), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+unit, "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+total, "1", 1, "R", false, 0, "")
}

func writeTotalRow(pdf *gofpdf.Fpdf, label, amount string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(155, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "$"+amount, "", 1, "R", false, 0, "")
}
