package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeRPCRequest MessageType = "rpc.request"
	MessageTypeRPCReply   MessageType = "rpc.reply"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения. Для запросов совпадает
	// с request id операции.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// Properties — AMQP-свойства публикации для request/reply.
type Properties struct {
	// ReplyTo — очередь, в которую сервер отправит ответ.
	ReplyTo string

	// CorrelationID — связывает ответ с запросом.
	CorrelationID string

	// Expiration — TTL сообщения. 0 — без TTL.
	Expiration time.Duration

	// Persistent — сообщение переживёт рестарт RabbitMQ.
	Persistent bool
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message, props Properties) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Transient,
		MessageId:     msg.ID,
		Timestamp:     msg.Timestamp,
		Type:          string(msg.Type),
		ReplyTo:       props.ReplyTo,
		CorrelationId: props.CorrelationID,
		Body:          body,
	}
	if props.Persistent {
		publishing.DeliveryMode = amqp.Persistent
	}
	if props.Expiration > 0 {
		publishing.Expiration = fmt.Sprintf("%d", props.Expiration.Milliseconds())
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			publishing,
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
			"correlation_id", props.CorrelationID,
		)

		return nil
	})
}

// PublishRequest публикует RPC-запрос операции.
// Потребитель: cloudlet-rpc.
func (p *Publisher) PublishRequest(ctx context.Context, req RPCRequest, props Properties) error {
	msg := &Message{
		ID:        req.RequestID,
		Type:      MessageTypeRPCRequest,
		Payload:   req,
		Timestamp: time.Now(),
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	return p.Publish(ctx, ExchangeRPC, RoutingKeyRequest, msg, props)
}

// PublishReply публикует ответ в reply-очередь клиента через default exchange.
// Потребитель: клиент, отправивший запрос.
func (p *Publisher) PublishReply(ctx context.Context, replyTo, correlationID string, reply RPCReply) error {
	msg := &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeRPCReply,
		Payload:   reply,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeDefault, RoutingKey(replyTo), msg, Properties{CorrelationID: correlationID})
}
