package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
)

// CreatePaymentInput is the payload for recording a payment.
type CreatePaymentInput struct {
	OrderID       uint                 `json:"order_id" validate:"required"`
	Method        models.PaymentMethod `json:"method" validate:"required,oneof=credit_card debit_card paypal bank_transfer stripe other"`
	Amount        decimal.Decimal      `json:"amount"`
	TransactionID string               `json:"transaction_id"`
}

// PaymentService handles payment business logic. The gateway is simulated:
// processing a payment marks it completed and assigns a transaction ID.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repositories.PaymentRepository, orderRepo repositories.OrderRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}
}

func generatePaymentNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("PAY-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// GetAllPayments retrieves all payments.
func (s *PaymentService) GetAllPayments() ([]models.Payment, error) {
	return s.paymentRepo.GetAll()
}

// GetPaymentByID retrieves a single payment by its ID.
func (s *PaymentService) GetPaymentByID(id uint) (*models.Payment, error) {
	return s.paymentRepo.GetByID(id)
}

// CreatePayment records a new pending payment against an existing order.
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*models.Payment, error) {
	if err := validate.Struct(input); err != nil {
		return nil, apperrors.NewValidation("invalid payment: %v", err)
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.NewValidation("payment amount must be positive")
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		PaymentNumber:  generatePaymentNumber(),
		OrderID:        order.ID,
		Status:         models.PaymentStatusPending,
		Method:         input.Method,
		Amount:         input.Amount,
		RefundedAmount: decimal.Zero,
		Currency:       order.Currency,
		TransactionID:  input.TransactionID,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, nil
}

// ProcessPayment simulates the payment gateway: the payment is marked
// completed and a transaction ID is assigned if none exists.
func (s *PaymentService) ProcessPayment(id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment.Status = models.PaymentStatusCompleted
	payment.CompletedAt = &now
	if payment.TransactionID == "" {
		payment.TransactionID = fmt.Sprintf("TXN-%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16]))
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ProcessRefund refunds part or all of a completed payment. With no requested
// amount the remaining balance is refunded. The refunded amount never exceeds
// the payment amount; the status becomes refunded when the payment is fully
// refunded and partially_refunded otherwise.
func (s *PaymentService) ProcessRefund(id uint, requestedAmount *decimal.Decimal) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentStatusCompleted &&
		payment.Status != models.PaymentStatusPartiallyRefunded {
		return nil, apperrors.NewInvalidOperation("payment %d is not completed and cannot be refunded", payment.ID)
	}

	available := payment.Amount.Sub(payment.RefundedAmount)
	amountToRefund := available
	if requestedAmount != nil {
		amountToRefund = *requestedAmount
	}
	if !amountToRefund.IsPositive() {
		return nil, apperrors.NewValidation("refund amount must be positive")
	}
	if amountToRefund.GreaterThan(available) {
		return nil, apperrors.NewInvalidOperation("refund amount %s exceeds available amount %s", amountToRefund, available)
	}

	now := time.Now().UTC()
	payment.RefundedAmount = payment.RefundedAmount.Add(amountToRefund)
	payment.RefundedAt = &now
	if payment.RefundedAmount.GreaterThanOrEqual(payment.Amount) {
		payment.Status = models.PaymentStatusRefunded
	} else {
		payment.Status = models.PaymentStatusPartiallyRefunded
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}
