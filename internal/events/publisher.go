package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"oventreats/internal/models"
)

const exchangeName = "bakery.orders"

// OrderMessage is the JSON body published for order lifecycle events.
type OrderMessage struct {
	OrderID       string    `json:"orderId"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	DeliveryDate  time.Time `json:"deliveryDate"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher emits order events to an AMQP topic exchange so downstream
// consumers (notification senders, dashboards) can react without polling.
// A nil *Publisher is valid and drops every event, which keeps the wiring
// unconditional for deployments without a broker.
type Publisher struct {
	conn *amqp.Connection
}

func NewPublisher(amqpURL string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// OrderCreated publishes an order.created event. Publish failures are logged
// and swallowed; an event is never worth failing the order for.
func (p *Publisher) OrderCreated(order models.Order) {
	p.publish("order.created", order)
}

// StatusChanged publishes an order.status.<status> event.
func (p *Publisher) StatusChanged(order models.Order) {
	p.publish("order.status."+order.Status, order)
}

func (p *Publisher) publish(routingKey string, order models.Order) {
	if p == nil || p.conn == nil {
		return
	}

	ch, err := p.conn.Channel()
	if err != nil {
		log.Println("[EVENTS] [ERROR] failed to open channel:", err)
		return
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		log.Println("[EVENTS] [ERROR] failed to declare exchange:", err)
		return
	}

	body, err := json.Marshal(OrderMessage{
		OrderID:       order.ID,
		Status:        order.Status,
		Total:         order.Total,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		DeliveryDate:  order.DeliveryDate,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		log.Println("[EVENTS] [ERROR] failed to marshal message:", err)
		return
	}

	err = ch.Publish(exchangeName, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		log.Println("[EVENTS] [ERROR] failed to publish message:", err)
	}
}
