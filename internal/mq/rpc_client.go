package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Cloudlet/internal/invoke"
)

// errReplyChannelClosed — брокер закрыл канал reply-очереди.
var errReplyChannelClosed = errors.New("reply channel closed")

// DefaultRPCTimeout — сколько клиент ждёт ответа.
const DefaultRPCTimeout = 30 * time.Second

// RPCClientConfig — конфигурация RPCClient.
type RPCClientConfig struct {
	// Region — регион, передаётся в запросе и в диагностике.
	Region string

	// Timeout — ожидание ответа. 0 — DefaultRPCTimeout.
	Timeout time.Duration
}

// publishFunc отправляет RPC-запрос брокеру.
type publishFunc func(ctx context.Context, req RPCRequest, props Properties) error

// RPCClient — invoke.Backend поверх RabbitMQ request/reply.
//
// Ответы приходят в эксклюзивную очередь клиента и сопоставляются с
// запросами по CorrelationId. Эксклюзивная очередь живёт, пока жив канал:
// после переподключения Connection она потеряна, и все последующие
// вызовы завершаются TransportError. Клиент рассчитан на один короткий
// процесс CLI; долгоживущему процессу нужен новый RPCClient.
type RPCClient struct {
	endpoint string
	publish  publishFunc
	logger   *slog.Logger
	region   string
	timeout  time.Duration

	replyQueue string

	mu      sync.Mutex
	pending map[string]chan RPCReply
	done    chan struct{}
}

func newRPCClient(endpoint string, publish publishFunc, logger *slog.Logger, cfg RPCClientConfig) *RPCClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RPCClient{
		endpoint: endpoint,
		publish:  publish,
		logger:   logger,
		region:   cfg.Region,
		timeout:  timeout,
		pending:  make(map[string]chan RPCReply),
		done:     make(chan struct{}),
	}
}

// NewRPCClient объявляет reply-очередь и начинает слушать ответы.
func NewRPCClient(ctx context.Context, conn *Connection, logger *slog.Logger, cfg RPCClientConfig) (*RPCClient, error) {
	c := newRPCClient(conn.Endpoint(), NewPublisher(conn, logger).PublishRequest, logger, cfg)

	err := conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		q, err := ch.QueueDeclare(
			"",    // name (server-generated)
			false, // durable
			true,  // delete when unused
			true,  // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare reply queue: %w", err)
		}

		deliveries, err := ch.Consume(
			q.Name, // queue
			"",     // consumer tag
			true,   // auto-ack
			true,   // exclusive
			false,  // no-local
			false,  // no-wait
			nil,    // args
		)
		if err != nil {
			return fmt.Errorf("consume reply queue: %w", err)
		}

		c.replyQueue = q.Name
		go c.receive(deliveries)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Invoke отправляет запрос и ждёт ответ.
func (c *RPCClient) Invoke(ctx context.Context, call invoke.Call, req, resp any) error {
	target := invoke.Target{
		Endpoint: c.endpoint,
		Region:   c.region,
		Service:  call.Service,
		Action:   call.Action,
	}

	rpcReq, err := NewRequest(call, req, c.region)
	if err != nil {
		return err
	}

	replies := make(chan RPCReply, 1)
	c.mu.Lock()
	c.pending[rpcReq.RequestID] = replies
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, rpcReq.RequestID)
		c.mu.Unlock()
	}()

	c.logger.Debug("dispatching request",
		"endpoint", target.Endpoint,
		"region", c.region,
		"service", call.Service,
		"action", call.Action,
		"request_id", rpcReq.RequestID,
	)

	err = c.publish(ctx, rpcReq, Properties{
		ReplyTo:       c.replyQueue,
		CorrelationID: rpcReq.RequestID,
		Expiration:    c.timeout,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return invoke.DiagnoseTransport(err, target)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	select {
	case reply := <-replies:
		return reply.Decode(resp)
	case <-c.done:
		return invoke.DiagnoseTransport(errReplyChannelClosed, target)
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return invoke.DiagnoseTransport(fmt.Errorf("no reply within %s: %w", c.timeout, waitCtx.Err()), target)
	}
}

// receive раздаёт ответы ожидающим вызовам. Закрытие deliveries
// закрывает done: ожидающие и будущие вызовы получают ошибку.
func (c *RPCClient) receive(deliveries <-chan amqp.Delivery) {
	defer close(c.done)

	for raw := range deliveries {
		msg, err := decodeMessage(raw.Body)
		if err != nil {
			c.logger.Warn("failed to unmarshal reply", "error", err)
			continue
		}
		reply, err := ParsePayload[RPCReply](msg)
		if err != nil {
			c.logger.Warn("failed to parse reply payload", "error", err)
			continue
		}

		c.mu.Lock()
		replies, ok := c.pending[raw.CorrelationId]
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("reply for unknown request", "correlation_id", raw.CorrelationId)
			continue
		}
		select {
		case replies <- reply:
		default:
		}
	}
}
