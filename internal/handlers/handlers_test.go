package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
	"ordermgmt/internal/services"
)

type testEnv struct {
	app      *fiber.App
	orders   *repositories.MockOrderRepository
	returns  *repositories.MockReturnRepository
	payments *repositories.MockPaymentRepository
	invoices *repositories.MockInvoiceRepository
}

func newTestEnv() *testEnv {
	orders := repositories.NewMockOrderRepository()
	returns := repositories.NewMockReturnRepository()
	payments := repositories.NewMockPaymentRepository()
	invoices := repositories.NewMockInvoiceRepository()

	orderService := services.NewOrderService(orders, nil,
		decimal.RequireFromString("0.10"), decimal.RequireFromString("5.00"))
	returnService := services.NewReturnService(returns, orders, nil)
	paymentService := services.NewPaymentService(payments, orders)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	NewOrderHandler(orderService).RegisterRoutes(apiV1)
	NewReturnHandler(returnService).RegisterRoutes(apiV1)
	NewPaymentHandler(paymentService).RegisterRoutes(apiV1)
	NewInvoiceHandler(invoices).RegisterRoutes(apiV1)

	return &testEnv{app: app, orders: orders, returns: returns, payments: payments, invoices: invoices}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func orderPayload() map[string]any {
	return map[string]any{
		"customer_id":    42,
		"customer_email": "jane@example.com",
		"customer_name":  "Jane Doe",
		"items": []map[string]any{
			{"product_id": 1, "product_name": "Laptop Stand", "product_sku": "LS-100", "unit_price": "100.00", "quantity": 2},
			{"product_id": 2, "product_name": "USB Cable", "product_sku": "UC-200", "unit_price": "25.00", "quantity": 2},
		},
	}
}

func (e *testEnv) createOrder(t *testing.T) uint {
	t.Helper()
	resp, body := e.request(t, http.MethodPost, "/api/v1/orders", orderPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return uint(body["id"].(float64))
}

func (e *testEnv) transitionOrder(t *testing.T, id uint, action string) *http.Response {
	t.Helper()
	resp, _ := e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/transition", id),
		map[string]any{"action": action})
	return resp
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv()

	resp, body := env.request(t, http.MethodPost, "/api/v1/orders", orderPayload())

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "280", body["total"])
}

func TestCreateOrderEndpointRejectsEmptyItems(t *testing.T) {
	env := newTestEnv()
	payload := orderPayload()
	payload["items"] = []map[string]any{}

	resp, _ := env.request(t, http.MethodPost, "/api/v1/orders", payload)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetOrderEndpoint(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)

	resp, body := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", id), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(id), body["id"])
}

func TestGetOrderEndpointNotFound(t *testing.T) {
	env := newTestEnv()

	resp, _ := env.request(t, http.MethodGet, "/api/v1/orders/999", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransitionOrderEndpoint(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)

	resp, body := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/transition", id),
		map[string]any{"action": "confirm"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "confirmed", body["status"])
	assert.Equal(t, "pending", body["previous_status"])
}

func TestTransitionOrderEndpointInvalidAction(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)

	resp, body := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/transition", id),
		map[string]any{"action": "ship"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ship", body["action"])
	assert.Equal(t, "pending", body["current_state"])
	assert.ElementsMatch(t, []any{"cancel", "confirm"}, body["available_actions"])
}

func TestTransitionOrderEndpointAlreadyInState(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)
	require.Equal(t, http.StatusOK, env.transitionOrder(t, id, "confirm").StatusCode)

	resp, _ := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/transition", id),
		map[string]any{"action": "confirm"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransitionOrderEndpointRequiresAction(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)

	resp, _ := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/transition", id),
		map[string]any{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateReturnEndpoint(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)
	for _, action := range []string{"confirm", "start_processing", "ship", "deliver"} {
		require.Equal(t, http.StatusOK, env.transitionOrder(t, id, action).StatusCode)
	}
	order, err := env.orders.GetByID(id)
	require.NoError(t, err)

	resp, body := env.request(t, http.MethodPost, "/api/v1/returns", map[string]any{
		"order_id": id,
		"reason":   "defective",
		"items": []map[string]any{
			{"order_item_id": order.Items[0].ID, "quantity": 1},
		},
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "initiated", body["status"])
	assert.Equal(t, "100", body["refund_amount"])
}

func TestCreateReturnEndpointRejectsUndeliveredOrder(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)
	order, err := env.orders.GetByID(id)
	require.NoError(t, err)

	resp, _ := env.request(t, http.MethodPost, "/api/v1/returns", map[string]any{
		"order_id": id,
		"reason":   "defective",
		"items": []map[string]any{
			{"order_item_id": order.Items[0].ID, "quantity": 1},
		},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransitionReturnEndpointRejectWithReason(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)
	for _, action := range []string{"confirm", "start_processing", "ship", "deliver"} {
		require.Equal(t, http.StatusOK, env.transitionOrder(t, id, action).StatusCode)
	}
	order, err := env.orders.GetByID(id)
	require.NoError(t, err)

	resp, body := env.request(t, http.MethodPost, "/api/v1/returns", map[string]any{
		"order_id": id,
		"reason":   "defective",
		"items": []map[string]any{
			{"order_item_id": order.Items[0].ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	returnID := uint(body["id"].(float64))

	resp, body = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/returns/%d/transition", returnID),
		map[string]any{"action": "reject", "reason": "outside return window"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rejected", body["status"])
	assert.Equal(t, "outside return window", body["rejection_reason"])
}

func TestPaymentEndpoints(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)

	resp, body := env.request(t, http.MethodPost, "/api/v1/payments", map[string]any{
		"order_id": id,
		"method":   "credit_card",
		"amount":   "280.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])
	paymentID := uint(body["id"].(float64))

	resp, body = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/process", paymentID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", body["status"])

	resp, body = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/refund", paymentID),
		map[string]any{"amount": "100.00"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "partially_refunded", body["status"])

	resp, body = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/refund", paymentID),
		map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "refunded", body["status"])
	assert.Equal(t, "280", body["refunded_amount"])
}

func TestRefundEndpointRejectsOverRefund(t *testing.T) {
	env := newTestEnv()
	id := env.createOrder(t)

	resp, body := env.request(t, http.MethodPost, "/api/v1/payments", map[string]any{
		"order_id": id,
		"method":   "credit_card",
		"amount":   "280.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paymentID := uint(body["id"].(float64))

	resp, _ = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/process", paymentID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payments/%d/refund", paymentID),
		map[string]any{"amount": "300.00"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetInvoicesEndpoint(t *testing.T) {
	env := newTestEnv()
	orderID := uint(1)
	require.NoError(t, env.invoices.Create(&models.Invoice{
		InvoiceNumber: "INV-20260831-ABCDEF12",
		InvoiceType:   models.InvoiceTypeOrder,
		OrderID:       &orderID,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var invoices []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&invoices))
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-20260831-ABCDEF12", invoices[0]["invoice_number"])
}

func TestInvalidIDParameter(t *testing.T) {
	env := newTestEnv()

	resp, _ := env.request(t, http.MethodGet, "/api/v1/orders/abc", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
