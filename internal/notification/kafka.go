package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/commercekit/order-lifecycle/internal/order/domain"
	"github.com/commercekit/order-lifecycle/internal/order/ports"
)

// Ensure KafkaNotifier implements the port at compile time.
var _ ports.Notification = (*KafkaNotifier)(nil)

const (
	eventPendingApproval = "OrderPendingApproval"
	eventPaidConfirmed   = "OrderPaid"
)

// KafkaNotifier publishes order state-change events. The active trace
// context is injected into the message headers so consumers can join the
// producing request's trace.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

type orderEvent struct {
	EventID    string  `json:"event_id"`
	OrderID    int64   `json:"order_id"`
	Product    string  `json:"product"`
	State      string  `json:"state"`
	TotalPrice float64 `json:"total_price"`
}

func (n *KafkaNotifier) SendPendingApproval(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, eventPendingApproval, order)
}

func (n *KafkaNotifier) SendPaidConfirmation(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, eventPaidConfirmed, order)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, order *domain.Order) error {
	payload, err := json.Marshal(orderEvent{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		Product:    order.ProductName,
		State:      string(order.State),
		TotalPrice: order.TotalPrice,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(eventType)}}
	headers = injectTraceHeaders(ctx, headers)

	msg := kafka.Message{
		Key:     []byte(strconv.FormatInt(order.ID, 10)),
		Value:   payload,
		Headers: headers,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event for order %d: %w", eventType, order.ID, err)
	}
	return nil
}

// injectTraceHeaders copies the W3C trace context of ctx into Kafka headers.
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
