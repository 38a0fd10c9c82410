package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы операции для label outcome.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // отказ сервиса: валидация, not found, конфликт
	OutcomeError    = "error"    // внутренняя ошибка
)

// LabelUnknown заменяет service и action, которых нет в каталоге:
// имена из запроса не попадают в label'ы.
const LabelUnknown = "unknown"

// OperationMetrics — метрики обработанных операций API.
type OperationMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rpc        *prometheus.CounterVec
}

// NewOperationMetrics регистрирует метрики в reg.
// Для тестов передают prometheus.NewRegistry(), в сервисах — DefaultRegisterer.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	factory := promauto.With(reg)
	return &OperationMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudlet_operations_total",
			Help: "Total operations handled, by service, action and outcome",
		}, []string{"service", "action", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cloudlet_operation_duration_seconds",
			Help:    "Operation handling latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "action"}),
		rpc: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudlet_rpc_messages_total",
			Help: "AMQP RPC messages consumed, by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveOperation записывает одну обработанную операцию.
// Безопасно вызывать на nil.
func (m *OperationMetrics) ObserveOperation(service, action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(service, action, outcome).Inc()
	m.duration.WithLabelValues(service, action).Observe(elapsed.Seconds())
}

// ObserveRPC записывает обработанное RPC-сообщение.
func (m *OperationMetrics) ObserveRPC(outcome string) {
	if m == nil {
		return
	}
	m.rpc.WithLabelValues(outcome).Inc()
}
