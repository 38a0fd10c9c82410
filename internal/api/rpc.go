package api

import (
	"context"
	"net/http"

	"github.com/shaiso/Cloudlet/internal/mq"
	"github.com/shaiso/Cloudlet/internal/telemetry"
)

// ServeRPC выполняет RPC-запрос через Dispatcher. Ответ совпадает с
// HTTP-ответом: data при успехе, error с кодом иначе.
//
// Регион запроса перекрывает регион Dispatcher'а в ARN ресурсов.
func (d *Dispatcher) ServeRPC(ctx context.Context, req mq.RPCRequest) mq.RPCReply {
	logger := telemetry.FromContextOr(ctx, telemetry.WithRequestID(d.logger, req.RequestID))
	ctx = ContextWithRegion(ctx, req.Region)

	result, err := d.Dispatch(ctx, req.Service, req.Action, req.Body)
	if err != nil {
		status, detail := DescribeError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("internal error", "error", err, "service", req.Service, "action", req.Action)
		}
		return mq.ErrorReply(status, string(detail.Code), detail.Message, req.RequestID)
	}

	reply, err := mq.DataReply(result)
	if err != nil {
		logger.Error("failed to encode reply", "error", err)
		return mq.ErrorReply(http.StatusInternalServerError, string(ErrCodeInternalError), "internal server error", req.RequestID)
	}
	return reply
}
