// Package rabbitmq wraps the AMQP connection used as the durable background
// task queue. Tasks are published after the originating database commit and
// consumed by the worker with manual acknowledgement.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// TaskQueue is the queue all background tasks go through.
const TaskQueue = "task_queue"

// Task names understood by the worker.
const (
	TaskGenerateOrderInvoice   = "generate_order_invoice"
	TaskGenerateReturnInvoice  = "generate_return_invoice"
	TaskSendStatusNotification = "send_status_notification"
)

// TaskMessage is the wire format of a queued task. Delivery is at-least-once;
// handlers must tolerate duplicates.
type TaskMessage struct {
	Task     string `json:"task"`
	OrderID  uint   `json:"order_id,omitempty"`
	ReturnID uint   `json:"return_id,omitempty"`
	Entity   string `json:"entity,omitempty"`
	EntityID uint   `json:"entity_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// task queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		TaskQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", TaskQueue, err)
	}

	log.Printf("RabbitMQ client connected, %s declared", TaskQueue)

	return &Client{conn: conn, channel: ch}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishTask enqueues a task message as persistent JSON on the task queue.
func (c *Client) PublishTask(task TaskMessage) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task message: %w", err)
	}

	err = c.channel.Publish(
		"",        // default exchange
		TaskQueue, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

// ConsumeTasks registers a consumer on the task queue and processes deliveries
// with the given handler in a goroutine. A nil handler result acknowledges the
// message; an error nacks it without requeueing, so permanent failures are not
// retried forever.
func (c *Client) ConsumeTasks(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(TaskQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack off, we ack manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				log.Printf("Error processing task %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, false); nackErr != nil {
					log.Printf("Error nacking task %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking task %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
