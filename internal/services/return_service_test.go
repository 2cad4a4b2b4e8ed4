package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
	"ordermgmt/pkg/rabbitmq"
)

func newTestReturnService(publisher TaskPublisher) (*ReturnService, *repositories.MockReturnRepository, *repositories.MockOrderRepository) {
	returnRepo := repositories.NewMockReturnRepository()
	orderRepo := repositories.NewMockOrderRepository()
	svc := NewReturnService(returnRepo, orderRepo, publisher)
	return svc, returnRepo, orderRepo
}

func seedDeliveredOrder(t *testing.T, orderRepo *repositories.MockOrderRepository) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:   "ORD-20260831-AAAAAAAA",
		CustomerID:    42,
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Doe",
		Status:        models.OrderStatusDelivered,
		Currency:      "USD",
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Laptop Stand", ProductSKU: "LS-100", UnitPrice: decimal.RequireFromString("50.00"), Quantity: 3, TotalPrice: decimal.RequireFromString("150.00")},
		},
	}
	require.NoError(t, orderRepo.Create(order))
	return order
}

func TestCreateReturnComputesRefund(t *testing.T) {
	svc, _, orderRepo := newTestReturnService(nil)
	order := seedDeliveredOrder(t, orderRepo)

	ret, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonDefective,
		Items: []ReturnItemInput{
			{OrderItemID: order.Items[0].ID, Quantity: 2, Condition: "damaged"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReturnStatusInitiated, ret.Status)
	assert.True(t, ret.RefundAmount.Equal(decimal.RequireFromString("100.00")), "refund %s", ret.RefundAmount)
	assert.Regexp(t, `^RET-\d{8}-[0-9A-F]{8}$`, ret.ReturnNumber)
	assert.Equal(t, "USD", ret.Currency)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, order.Items[0].ID, ret.Items[0].OrderItemID)
	assert.True(t, ret.Items[0].RefundAmount.Equal(decimal.RequireFromString("100.00")))
}

func TestCreateReturnRejectsIneligibleOrder(t *testing.T) {
	svc, _, orderRepo := newTestReturnService(nil)
	order := seedDeliveredOrder(t, orderRepo)
	order.Status = models.OrderStatusPending
	require.NoError(t, orderRepo.Update(order))

	_, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonDefective,
		Items:   []ReturnItemInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
	})

	var reference *apperrors.ReferenceError
	require.ErrorAs(t, err, &reference)
}

func TestCreateReturnRejectsUnknownOrderItem(t *testing.T) {
	svc, _, orderRepo := newTestReturnService(nil)
	order := seedDeliveredOrder(t, orderRepo)

	_, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonDefective,
		Items:   []ReturnItemInput{{OrderItemID: 999, Quantity: 1}},
	})

	var reference *apperrors.ReferenceError
	require.ErrorAs(t, err, &reference)
}

func TestCreateReturnRejectsForeignOrderItem(t *testing.T) {
	svc, _, orderRepo := newTestReturnService(nil)
	first := seedDeliveredOrder(t, orderRepo)
	second := seedDeliveredOrder(t, orderRepo)

	_, err := svc.CreateReturn(CreateReturnInput{
		OrderID: first.ID,
		Reason:  models.ReturnReasonWrongItem,
		Items:   []ReturnItemInput{{OrderItemID: second.Items[0].ID, Quantity: 1}},
	})

	var reference *apperrors.ReferenceError
	require.ErrorAs(t, err, &reference)
}

func TestCreateReturnRequiresItems(t *testing.T) {
	svc, _, orderRepo := newTestReturnService(nil)
	order := seedDeliveredOrder(t, orderRepo)

	_, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonDefective,
	})

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTransitionReturnProcessEnqueuesCreditMemo(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _, orderRepo := newTestReturnService(publisher)
	order := seedDeliveredOrder(t, orderRepo)

	ret, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonDefective,
		Items:   []ReturnItemInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	for _, action := range []string{"approve", "schedule_pickup", "start_transit", "receive", "process"} {
		_, err := svc.TransitionReturn(ret.ID, action, "")
		require.NoError(t, err)
	}

	memoTasks := publisher.tasksNamed(rabbitmq.TaskGenerateReturnInvoice)
	require.Len(t, memoTasks, 1)
	assert.Equal(t, ret.ID, memoTasks[0].ReturnID)
	assert.Len(t, publisher.tasksNamed(rabbitmq.TaskSendStatusNotification), 5)
}

func TestTransitionReturnRejectStoresReason(t *testing.T) {
	svc, returnRepo, orderRepo := newTestReturnService(nil)
	order := seedDeliveredOrder(t, orderRepo)

	ret, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonChangeOfMind,
		Items:   []ReturnItemInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.TransitionReturn(ret.ID, "reject", "outside return window")
	require.NoError(t, err)
	assert.Equal(t, models.ReturnStatusRejected, updated.Status)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "outside return window", *updated.RejectionReason)

	stored, err := returnRepo.GetByID(ret.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "outside return window", *stored.RejectionReason)
}

func TestTransitionReturnInvalidActionDoesNotPersist(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, returnRepo, orderRepo := newTestReturnService(publisher)
	order := seedDeliveredOrder(t, orderRepo)

	ret, err := svc.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Reason:  models.ReturnReasonDefective,
		Items:   []ReturnItemInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.TransitionReturn(ret.ID, "refund", "")

	var invalid *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, publisher.tasks)

	stored, err := returnRepo.GetByID(ret.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReturnStatusInitiated, stored.Status)
}
