package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeRPC Exchange = "cloudlet.rpc"
	ExchangeDLQ Exchange = "cloudlet.dlq"

	// ExchangeDefault — default exchange, через него ответы уходят в reply-очередь клиента.
	ExchangeDefault Exchange = ""
)

// Queues — имена очередей.
const (
	QueueRPCRequests Queue = "cloudlet.rpc.requests"
	QueueDLQRPC      Queue = "dlq.rpc"
)

// Routing keys.
const (
	RoutingKeyRequest RoutingKey = "request"
	RoutingKeyDLQRPC  RoutingKey = "rpc"
)

// SetupTopology объявляет exchanges, очереди и привязки RPC.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchanges
		if err := declareExchanges(ch); err != nil {
			return err
		}

		// 2. Создаём queues
		if err := declareQueues(ch); err != nil {
			return err
		}

		// 3. Привязываем queues к exchanges
		if err := bindQueues(ch); err != nil {
			return err
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeRPC, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Нераспознанные запросы уходят в DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQRPC),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		{QueueRPCRequests, dlqArgs},
		{QueueDLQRPC, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueRPCRequests, RoutingKeyRequest, ExchangeRPC},
		{QueueDLQRPC, RoutingKeyDLQRPC, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Cloudlet RabbitMQ Topology:

    cloudlet.rpc (direct)
    └── cloudlet.rpc.requests [routing: request]
            Consumer: cloudlet-rpc
            DLQ: dlq.rpc

    (default exchange)
    └── amq.gen-* [exclusive reply queue per client]
            Consumer: cloudlet CLI (--transport amqp)

    cloudlet.dlq (direct)
    └── dlq.rpc [routing: rpc]
            Manual processing
  `
}
