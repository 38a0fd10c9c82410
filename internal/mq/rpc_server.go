package mq

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shaiso/Cloudlet/internal/telemetry"
)

// RPCHandler обрабатывает RPC-запрос и всегда возвращает ответ.
type RPCHandler func(ctx context.Context, req RPCRequest) RPCReply

// RPCServerConfig — конфигурация RPCServer.
type RPCServerConfig struct {
	// Handler — обработчик запросов.
	Handler RPCHandler

	// Prefetch — сколько запросов брать из очереди одновременно.
	Prefetch int

	// Metrics — метрики обработанных сообщений (может быть nil).
	Metrics *telemetry.OperationMetrics
}

// RPCServer потребляет запросы из cloudlet.rpc.requests и отвечает в
// reply-очередь клиента.
type RPCServer struct {
	consumer  *Consumer
	publisher *Publisher
	handler   RPCHandler
	metrics   *telemetry.OperationMetrics
	logger    *slog.Logger
}

// NewRPCServer создаёт RPCServer.
func NewRPCServer(conn *Connection, logger *slog.Logger, cfg RPCServerConfig) *RPCServer {
	s := &RPCServer{
		publisher: NewPublisher(conn, logger),
		handler:   cfg.Handler,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
	s.consumer = NewConsumer(conn, logger, ConsumerConfig{
		Queue:    string(QueueRPCRequests),
		Handler:  s.handle,
		Prefetch: cfg.Prefetch,
	})
	return s
}

// Start запускает обработку запросов. Блокирует до отмены ctx.
func (s *RPCServer) Start(ctx context.Context) error {
	return s.consumer.Start(ctx)
}

// Stop останавливает обработку.
func (s *RPCServer) Stop() {
	s.consumer.Stop()
}

// handle обрабатывает одно сообщение. Ошибка публикации ответа
// возвращает запрос в очередь.
func (s *RPCServer) handle(ctx context.Context, d *Delivery) error {
	replyTo := d.ReplyTo()
	if replyTo == "" {
		s.logger.Warn("request without reply_to, dropping", "message_id", d.Message.ID)
		s.metrics.ObserveRPC(telemetry.OutcomeRejected)
		return nil
	}

	reply := s.serve(ctx, d)
	if err := s.publisher.PublishReply(ctx, replyTo, d.CorrelationID(), reply); err != nil {
		s.metrics.ObserveRPC(telemetry.OutcomeError)
		return err
	}

	s.metrics.ObserveRPC(reply.outcome())
	return nil
}

// serve разбирает запрос и вызывает обработчик.
func (s *RPCServer) serve(ctx context.Context, d *Delivery) RPCReply {
	if d.Message.Type != MessageTypeRPCRequest {
		return ErrorReply(http.StatusBadRequest, "BAD_REQUEST",
			"unexpected message type "+string(d.Message.Type), d.Message.ID)
	}

	req, err := ParsePayload[RPCRequest](&d.Message)
	if err != nil {
		return ErrorReply(http.StatusBadRequest, "BAD_REQUEST", err.Error(), d.Message.ID)
	}
	if req.RequestID == "" {
		req.RequestID = d.Message.ID
	}

	ctx = telemetry.ContextWithRequestID(ctx, req.RequestID)
	ctx = telemetry.WithLogger(ctx, telemetry.WithRequestID(s.logger, req.RequestID))
	return s.handler(ctx, req)
}
