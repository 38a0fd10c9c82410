package invoke

import (
	"context"
	"fmt"
	"log/slog"
)

// Invoke выполняет одну операцию.
//
// Порядок: проекция → подтверждение → сборка запроса → один вызов backend'а.
// Ошибка возвращается только для проблем до вызова (проекция, параметры);
// ошибка самого вызова кладётся в Envelope.Err. Отказ в подтверждении —
// пустой Envelope без ошибки.
func Invoke[Req, Resp any](ctx context.Context, rt Runtime, op *Operation[Req, Resp], inv *Invocation) (*Envelope, error) {
	logger := rt.logger().With("service", op.Service, "action", op.Action)

	projector, err := op.compile(inv)
	if err != nil {
		return nil, err
	}

	if op.Mutating && !confirmed(rt, op, inv) {
		logger.Debug("operation not confirmed, skipping")
		return &Envelope{}, nil
	}

	req := new(Req)
	warnings, err := assemble(logger, req, inv.Params)
	if err != nil {
		return nil, err
	}

	resp := new(Resp)
	if err := rt.Backend.Invoke(ctx, op.Call(), req, resp); err != nil {
		logger.Debug("operation failed", "error", err)
		return &Envelope{Err: err, Warnings: warnings}, nil
	}

	return &Envelope{
		Payload:  projector.Apply(resp, inv.Params),
		Response: resp,
		Warnings: warnings,
	}, nil
}

// confirmed спрашивает Confirmer. При --force Confirmer не вызывается.
func confirmed[Req, Resp any](rt Runtime, op *Operation[Req, Resp], inv *Invocation) bool {
	if inv.Force {
		return true
	}
	if rt.Confirmer == nil {
		return false
	}
	return rt.Confirmer.Confirm(false, op.resourceDescription(inv.Params), op.ActionLabel())
}

// assemble собирает запрос и превращает пропущенные обязательные
// параметры в предупреждения.
func assemble(logger *slog.Logger, req any, params Params) ([]string, error) {
	missing, err := Assemble(req, params)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, name := range missing {
		msg := fmt.Sprintf("parameter %s is marked as required but no value was supplied; "+
			"the service will decide whether the request is valid", name)
		logger.Warn("required parameter not supplied", "parameter", name)
		warnings = append(warnings, msg)
	}
	return warnings, nil
}
