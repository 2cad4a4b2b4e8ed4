// Package workers implements the background task consumers. Tasks arrive from
// the durable queue with at-least-once delivery, so every handler re-fetches
// its entity, verifies it is still in the qualifying state and skips
// gracefully when it is not or when the work was already done.
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/streadway/amqp"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
	"ordermgmt/internal/services"
	"ordermgmt/pkg/rabbitmq"
)

// Worker dispatches queued task messages to their handlers.
type Worker struct {
	orders     repositories.OrderRepository
	returns    repositories.ReturnRepository
	invoices   repositories.InvoiceRepository
	invoiceSvc *services.InvoiceService

	hardLimit time.Duration
	softLimit time.Duration
}

// NewWorker creates a Worker. hardLimit kills a task; softLimit only logs a
// warning so slow tasks surface before they are killed.
func NewWorker(
	orders repositories.OrderRepository,
	returns repositories.ReturnRepository,
	invoices repositories.InvoiceRepository,
	invoiceSvc *services.InvoiceService,
	hardLimit, softLimit time.Duration,
) *Worker {
	return &Worker{
		orders:     orders,
		returns:    returns,
		invoices:   invoices,
		invoiceSvc: invoiceSvc,
		hardLimit:  hardLimit,
		softLimit:  softLimit,
	}
}

// HandleDelivery is the queue consumer entry point. A nil return acknowledges
// the message. Malformed and unknown messages are acknowledged and dropped;
// retrying them can never succeed.
func (w *Worker) HandleDelivery(msg amqp.Delivery) error {
	var task rabbitmq.TaskMessage
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		slog.Error("dropping malformed task message", "body", string(msg.Body), "error", err)
		return nil
	}

	switch task.Task {
	case rabbitmq.TaskGenerateOrderInvoice:
		return w.run(task.Task, func(ctx context.Context) error {
			return w.GenerateOrderInvoice(ctx, task.OrderID)
		})
	case rabbitmq.TaskGenerateReturnInvoice:
		return w.run(task.Task, func(ctx context.Context) error {
			return w.GenerateReturnInvoice(ctx, task.ReturnID)
		})
	case rabbitmq.TaskSendStatusNotification:
		return w.run(task.Task, func(ctx context.Context) error {
			return w.SendStatusNotification(ctx, task.Entity, task.EntityID, task.Status)
		})
	default:
		slog.Error("dropping unknown task", "task", task.Task)
		return nil
	}
}

// run executes a handler under the hard time limit, warning once the soft
// limit passes.
func (w *Worker) run(task string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.hardLimit)
	defer cancel()

	softTimer := time.AfterFunc(w.softLimit, func() {
		slog.Warn("task exceeded soft time limit", "task", task, "soft_limit", w.softLimit)
	})
	defer softTimer.Stop()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("task %s exceeded time limit of %s", task, w.hardLimit)
	}
}

// GenerateOrderInvoice generates the PDF invoice for a shipped order and
// records it. The order is re-fetched; if it no longer exists or has left the
// shipped state the task is skipped, and a duplicate delivery is skipped when
// an invoice already exists. The PDF file is written before the database
// record so no record ever references a missing file.
func (w *Worker) GenerateOrderInvoice(ctx context.Context, orderID uint) error {
	order, err := w.orders.GetByID(orderID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			slog.Error("order not found for invoice generation, dropping task", "order_id", orderID)
			return nil
		}
		return err
	}

	if order.Status != models.OrderStatusShipped {
		slog.Warn("order not in shipped state, skipping invoice generation",
			"order_id", orderID, "status", order.Status)
		return nil
	}

	existing, err := w.invoices.GetByOrderID(orderID)
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Info("invoice already exists for order, skipping",
			"order_id", orderID, "invoice_number", existing.InvoiceNumber)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := w.invoiceSvc.GenerateOrderInvoice(order)
	if err != nil {
		slog.Error("failed to generate invoice PDF", "order_id", orderID, "error", err)
		return err
	}

	invoice := &models.Invoice{
		InvoiceNumber: services.GenerateInvoiceNumber(),
		InvoiceType:   models.InvoiceTypeOrder,
		OrderID:       &order.ID,
	}
	if err := w.recordInvoice(invoice, path); err != nil {
		slog.Error("failed to record invoice", "order_id", orderID, "error", err)
		return err
	}

	slog.Info("invoice generated", "order_id", orderID,
		"order_number", order.OrderNumber, "invoice_number", invoice.InvoiceNumber, "path", path)
	return nil
}

// GenerateReturnInvoice generates the PDF credit memo for a processed or
// refunded return, with the same skip and ordering rules as order invoices.
func (w *Worker) GenerateReturnInvoice(ctx context.Context, returnID uint) error {
	ret, err := w.returns.GetByID(returnID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			slog.Error("return not found for credit memo generation, dropping task", "return_id", returnID)
			return nil
		}
		return err
	}

	if ret.Status != models.ReturnStatusProcessed && ret.Status != models.ReturnStatusRefunded {
		slog.Warn("return not in completed state, skipping credit memo generation",
			"return_id", returnID, "status", ret.Status)
		return nil
	}

	existing, err := w.invoices.GetByReturnID(returnID)
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Info("credit memo already exists for return, skipping",
			"return_id", returnID, "invoice_number", existing.InvoiceNumber)
		return nil
	}

	order, err := w.orders.GetByID(ret.OrderID)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := w.invoiceSvc.GenerateReturnInvoice(ret, order)
	if err != nil {
		slog.Error("failed to generate credit memo PDF", "return_id", returnID, "error", err)
		return err
	}

	invoice := &models.Invoice{
		InvoiceNumber: services.GenerateInvoiceNumber(),
		InvoiceType:   models.InvoiceTypeReturn,
		ReturnID:      &ret.ID,
	}
	if err := w.recordInvoice(invoice, path); err != nil {
		slog.Error("failed to record credit memo", "return_id", returnID, "error", err)
		return err
	}

	slog.Info("credit memo generated", "return_id", returnID,
		"return_number", ret.ReturnNumber, "invoice_number", invoice.InvoiceNumber, "path", path)
	return nil
}

// recordInvoice persists the invoice row for an already-written file. If the
// insert fails the file is removed so disk and database stay consistent.
func (w *Worker) recordInvoice(invoice *models.Invoice, path string) error {
	invoice.FilePath = path
	invoice.FileName = filepath.Base(path)
	if info, err := os.Stat(path); err == nil {
		invoice.FileSize = info.Size()
	}
	if err := w.invoices.Create(invoice); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Error("failed to remove orphaned invoice file", "path", path, "error", rmErr)
		}
		return err
	}
	return nil
}

// SendStatusNotification simulates the customer notification for a status
// change. The entity is re-fetched so stale notifications are dropped.
func (w *Worker) SendStatusNotification(_ context.Context, entity string, id uint, status string) error {
	switch entity {
	case "order":
		order, err := w.orders.GetByID(id)
		if err != nil {
			slog.Error("order not found for notification, dropping task", "order_id", id)
			return nil
		}
		if string(order.Status) != status {
			slog.Warn("order status changed since notification was queued, skipping",
				"order_id", id, "queued_status", status, "current_status", order.Status)
			return nil
		}
		slog.Info("sending order status notification",
			"order_id", id, "order_number", order.OrderNumber,
			"email", order.CustomerEmail, "status", order.Status)
	case "return":
		ret, err := w.returns.GetByID(id)
		if err != nil {
			slog.Error("return not found for notification, dropping task", "return_id", id)
			return nil
		}
		if string(ret.Status) != status {
			slog.Warn("return status changed since notification was queued, skipping",
				"return_id", id, "queued_status", status, "current_status", ret.Status)
			return nil
		}
		slog.Info("sending return status notification",
			"return_id", id, "return_number", ret.ReturnNumber, "status", ret.Status)
	default:
		slog.Error("dropping notification for unknown entity", "entity", entity)
	}
	return nil
}
