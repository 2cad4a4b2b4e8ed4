package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgmt/internal/models"
)

func sampleShippedOrder() *models.Order {
	now := time.Now().UTC()
	return &models.Order{
		ID:            1,
		OrderNumber:   "ORD-20260831-CCCCCCCC",
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Doe",
		Status:        models.OrderStatusShipped,
		Subtotal:      decimal.RequireFromString("250.00"),
		Tax:           decimal.RequireFromString("25.00"),
		ShippingCost:  decimal.RequireFromString("5.00"),
		Total:         decimal.RequireFromString("280.00"),
		Currency:      "USD",
		ShippedAt:     &now,
		CreatedAt:     now,
		Items: []models.OrderItem{
			{ProductName: "Laptop Stand", ProductSKU: "LS-100", UnitPrice: decimal.RequireFromString("125.00"), Quantity: 2, TotalPrice: decimal.RequireFromString("250.00")},
		},
	}
}

func TestGenerateOrderInvoiceWritesPDF(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewInvoiceService(dir)
	require.NoError(t, err)

	path, err := svc.GenerateOrderInvoice(sampleShippedOrder())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^invoice_order_ORD-20260831-CCCCCCCC_\d{8}_\d{6}\.pdf$`, filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateReturnInvoiceWritesPDF(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewInvoiceService(dir)
	require.NoError(t, err)

	order := sampleShippedOrder()
	ret := &models.Return{
		ID:           1,
		ReturnNumber: "RET-20260831-DDDDDDDD",
		OrderID:      order.ID,
		Status:       models.ReturnStatusProcessed,
		Reason:       models.ReturnReasonDefective,
		RefundAmount: decimal.RequireFromString("125.00"),
		Currency:     "USD",
		CreatedAt:    time.Now().UTC(),
		Items: []models.ReturnItem{
			{ProductName: "Laptop Stand", ProductSKU: "LS-100", Quantity: 1, RefundAmount: decimal.RequireFromString("125.00")},
		},
	}

	path, err := svc.GenerateReturnInvoice(ret, order)
	require.NoError(t, err)

	assert.Regexp(t, `^credit_memo_return_RET-20260831-DDDDDDDD_\d{8}_\d{6}\.pdf$`, filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateInvoiceNumberFormat(t *testing.T) {
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{8}$`, GenerateInvoiceNumber())
}

func TestNewInvoiceServiceCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "invoices")

	_, err := NewInvoiceService(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
