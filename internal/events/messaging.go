package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange              = "grocery.events"
	CheckoutCompletedRoutingKey = "checkout.completed.v1"
	groceryServiceName          = "grocery-service-go"
)

// Dial connects to RabbitMQ.
func Dial(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}

func declareEventsExchange(ch channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
