package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
	"ordermgmt/internal/statemachine"
	"ordermgmt/pkg/rabbitmq"
)

// ReturnItemInput is one requested return line referencing an order item.
type ReturnItemInput struct {
	OrderItemID    uint   `json:"order_item_id" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	Condition      string `json:"condition"`
	ConditionNotes string `json:"condition_notes"`
}

// CreateReturnInput is the payload for initiating a return.
type CreateReturnInput struct {
	OrderID           uint                `json:"order_id" validate:"required"`
	Reason            models.ReturnReason `json:"reason" validate:"required,oneof=defective wrong_item not_as_described damaged size_issue change_of_mind other"`
	ReasonDescription string              `json:"reason_description"`
	Notes             string              `json:"notes"`
	Items             []ReturnItemInput   `json:"items" validate:"min=1,dive"`
}

// ReturnService handles return business logic: creation with the one-time
// refund computation and lifecycle transitions coupled to credit memo
// generation.
type ReturnService struct {
	returnRepo repositories.ReturnRepository
	orderRepo  repositories.OrderRepository
	publisher  TaskPublisher
	machine    *statemachine.Machine[models.Return]
}

// NewReturnService creates a new ReturnService.
func NewReturnService(returnRepo repositories.ReturnRepository, orderRepo repositories.OrderRepository, publisher TaskPublisher) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
		publisher:  publisher,
		machine:    statemachine.NewReturnMachine(),
	}
}

func generateReturnNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("RET-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// GetAllReturns retrieves all returns.
func (s *ReturnService) GetAllReturns() ([]models.Return, error) {
	return s.returnRepo.GetAll()
}

// GetReturnByID retrieves a single return by its ID.
func (s *ReturnService) GetReturnByID(id uint) (*models.Return, error) {
	return s.returnRepo.GetByID(id)
}

// CreateReturn creates a new return in the initiated state. The parent order
// must be delivered or returned, and every requested item must reference an
// order item of that order. The refund amount is the sum of unit price times
// returned quantity, computed here once and never recomputed afterwards.
func (s *ReturnService) CreateReturn(input CreateReturnInput) (*models.Return, error) {
	if err := validate.Struct(input); err != nil {
		return nil, apperrors.NewValidation("invalid return: %v", err)
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDelivered && order.Status != models.OrderStatusReturned {
		return nil, apperrors.NewReference("order %d is not eligible for return (status: %s)", order.ID, order.Status)
	}

	refundAmount := decimal.Zero
	items := make([]models.ReturnItem, 0, len(input.Items))
	for _, item := range input.Items {
		orderItem, err := s.orderRepo.GetItem(item.OrderItemID)
		if err != nil {
			var notFound *apperrors.NotFoundError
			if errors.As(err, &notFound) {
				return nil, apperrors.NewReference("order item %d not found", item.OrderItemID)
			}
			return nil, err
		}
		if orderItem.OrderID != order.ID {
			return nil, apperrors.NewReference("order item %d does not belong to order %d", item.OrderItemID, order.ID)
		}

		itemRefund := orderItem.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		refundAmount = refundAmount.Add(itemRefund)
		items = append(items, models.ReturnItem{
			OrderItemID:    orderItem.ID,
			ProductID:      orderItem.ProductID,
			ProductName:    orderItem.ProductName,
			ProductSKU:     orderItem.ProductSKU,
			Quantity:       item.Quantity,
			RefundAmount:   itemRefund,
			Condition:      item.Condition,
			ConditionNotes: item.ConditionNotes,
		})
	}

	ret := &models.Return{
		ReturnNumber:      generateReturnNumber(),
		OrderID:           order.ID,
		Status:            models.ReturnStatusInitiated,
		Reason:            input.Reason,
		ReasonDescription: input.ReasonDescription,
		RefundAmount:      refundAmount,
		Currency:          order.Currency,
		Notes:             input.Notes,
		Items:             items,
	}

	if err := s.returnRepo.Create(ret); err != nil {
		return nil, fmt.Errorf("failed to create return: %w", err)
	}
	return ret, nil
}

// TransitionReturn applies a lifecycle action to a return and persists the
// result. The optional reason is stored when the action is a rejection. After
// a successful process transition it enqueues credit memo generation; enqueue
// failures are logged only.
func (s *ReturnService) TransitionReturn(id uint, action, reason string) (*models.Return, error) {
	ret, err := s.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	action = s.machine.Normalize(action)
	var args statemachine.Args
	if reason != "" {
		args = statemachine.Args{statemachine.ArgReason: reason}
	}
	if _, err := s.machine.Apply(ret, action, args); err != nil {
		return nil, err
	}

	if err := s.returnRepo.Update(ret); err != nil {
		return nil, err
	}

	if action == statemachine.ReturnActionProcess {
		s.enqueue(rabbitmq.TaskMessage{
			Task:     rabbitmq.TaskGenerateReturnInvoice,
			ReturnID: ret.ID,
		}, ret.ID)
	}
	s.enqueue(rabbitmq.TaskMessage{
		Task:     rabbitmq.TaskSendStatusNotification,
		Entity:   "return",
		EntityID: ret.ID,
		Status:   string(ret.Status),
	}, ret.ID)

	return ret, nil
}

func (s *ReturnService) enqueue(task rabbitmq.TaskMessage, returnID uint) {
	if s.publisher == nil {
		slog.Warn("task publisher not configured, skipping enqueue", "task", task.Task, "return_id", returnID)
		return
	}
	if err := s.publisher.PublishTask(task); err != nil {
		slog.Error("failed to enqueue task", "task", task.Task, "return_id", returnID, "error", err)
	}
}
