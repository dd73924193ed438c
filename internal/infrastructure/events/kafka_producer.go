// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

// OrderEvent is the message value. Messages are keyed by store id so one
// store's events stay ordered within a partition.
type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"orderId"`
	UserID        string               `json:"userId"`
	StoreID       string               `json:"storeId"`
	Status        entity.OrderStatus   `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	ItemCount     int                  `json:"itemCount"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

func NewOrderEvent(event string, o *entity.Order) OrderEvent {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return OrderEvent{
		Type:          event,
		OrderID:       o.ID,
		UserID:        o.UserID,
		StoreID:       o.StoreID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		ItemCount:     n,
		OccurredAt:    time.Now().UTC(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer hands messages to a single writer goroutine through a buffered
// inbox. Publish never blocks a request: when the inbox is full the event is
// dropped and logged.
type Producer struct {
	w       messageWriter
	logger  logrus.FieldLogger
	inbox   chan kafka.Message
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	timeout time.Duration
}

func NewProducer(brokers []string, topic string, buf int, logger logrus.FieldLogger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, buf, logger)
}

func newProducer(w messageWriter, buf int, logger logrus.FieldLogger) *Producer {
	if buf <= 0 {
		buf = 256
	}
	return &Producer{
		w:       w,
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}
}

// Start runs the writer loop until Close drains the inbox.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			p.write(m)
		}
		if err := p.w.Close(); err != nil {
			p.logger.WithError(err).Warn("kafka writer close failed")
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.logger.WithError(err).WithField("key", string(m.Key)).Error("kafka write failed")
	}
}

// Publish implements gateway.OrderEvents.
func (p *Producer) Publish(_ context.Context, event string, o *entity.Order) {
	value, err := json.Marshal(NewOrderEvent(event, o))
	if err != nil {
		p.logger.WithError(err).Error("encode order event failed")
		return
	}
	msg := kafka.Message{
		Key:     []byte(o.StoreID),
		Value:   value,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "event", Value: []byte(event)}},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.inbox <- msg:
	default:
		p.logger.WithFields(logrus.Fields{"event": event, "order_id": o.ID}).Warn("order event dropped: inbox full")
	}
}

// Close stops accepting events and waits until buffered ones are flushed.
func (p *Producer) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}

// Nop discards events when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, *entity.Order) {}
