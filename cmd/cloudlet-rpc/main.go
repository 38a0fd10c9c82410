// Cloudlet RPC — обработчик операций через RabbitMQ.
//
// Слушает очередь cloudlet.rpc.requests, выполняет операции тем же
// Dispatcher, что и HTTP API, и отвечает в reply-очередь клиента.
// Экземпляры масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Cloudlet/internal/api"
	"github.com/shaiso/Cloudlet/internal/mq"
	"github.com/shaiso/Cloudlet/internal/repo"
	"github.com/shaiso/Cloudlet/internal/telemetry"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting cloudlet-rpc")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := repo.OpenStore(ctx, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	conn, err := mq.NewConnection(mq.DefaultURL(), "cloudlet-rpc", logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("RabbitMQ connected", "endpoint", conn.Endpoint())

	if err := mq.SetupTopology(ctx, conn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}
	logger.Debug("topology ready", "topology", mq.TopologyInfo())

	metrics := telemetry.NewOperationMetrics(prometheus.DefaultRegisterer)
	dispatcher := api.NewDispatcher(api.DispatcherConfig{
		Store:   store,
		Region:  os.Getenv("CLOUDLET_REGION"),
		Metrics: metrics,
		Logger:  logger,
	})

	server := mq.NewRPCServer(conn, logger, mq.RPCServerConfig{
		Handler:  dispatcher.ServeRPC,
		Prefetch: 10,
		Metrics:  metrics,
	})
	go func() {
		if err := server.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("rpc server stopped", "error", err)
			cancel()
		}
	}()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !conn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("amqp disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("RPC_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	server.Stop()
	logger.Info("cloudlet-rpc stopped")
}
