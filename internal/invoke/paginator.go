package invoke

import (
	"context"
	"fmt"
)

// PageState — состояние пагинатора.
type PageState int

const (
	PageReady     PageState = iota // ещё ничего не запрошено
	PageFetching                   // запрос страницы в полёте
	PageHasMore                    // backend вернул token, будет следующая страница
	PageExhausted                  // token пустой, страниц больше нет
	PageStopped                    // ручной режим: одна страница и стоп
	PageFailed                     // вызов или emit завершились ошибкой
)

// String возвращает имя состояния.
func (s PageState) String() string {
	switch s {
	case PageReady:
		return "ready"
	case PageFetching:
		return "fetching"
	case PageHasMore:
		return "has_more"
	case PageExhausted:
		return "exhausted"
	case PageStopped:
		return "stopped"
	case PageFailed:
		return "failed"
	default:
		return fmt.Sprintf("PageState(%d)", int(s))
	}
}

// PageSummary — итог пагинации.
type PageSummary struct {
	// State — конечное состояние: Exhausted, Stopped или Failed.
	State PageState

	// Pages — сколько страниц получено успешно.
	Pages int

	// NextToken — последний token от backend'а. В ручном режиме его
	// передают в следующий вызов.
	NextToken string

	// Manual — вызывающий сам управляет страницами.
	Manual bool

	// Echo — значение входного параметра при проекции ^Name.
	Echo any

	// Err — ошибка, остановившая цикл.
	Err error
}

// Paginate выполняет list-операцию, следуя continuation token.
//
// Каждая страница передаётся в emit сразу после получения. Ошибка вызова
// передаётся в emit как Envelope с Err и останавливает цикл, уже
// отданные страницы остаются у вызывающего. Если token передан явно или
// выставлен NoAutoIteration, выполняется ровно один запрос.
//
// Ошибка возвращается для проблем до первого вызова и для ошибки emit.
func Paginate[Req, Resp any](ctx context.Context, rt Runtime, op *Operation[Req, Resp], inv *Invocation, emit func(*Envelope) error) (*PageSummary, error) {
	if !op.Paginated() {
		return nil, fmt.Errorf("%w: %s", ErrNotPaginated, op.Action)
	}
	logger := rt.logger().With("service", op.Service, "action", op.Action)

	projector, err := op.compile(inv)
	if err != nil {
		return nil, err
	}
	echo := projector.Kind() == ProjectInput

	req := new(Req)
	warnings, err := assemble(logger, req, inv.Params)
	if err != nil {
		return nil, err
	}

	summary := &PageSummary{
		State:  PageReady,
		Manual: inv.NoAutoIteration || inv.Params.Has(op.TokenParam),
	}
	token := inv.Params.String(op.TokenParam)
	consumed := make(map[string]bool)

	for {
		if err := setParam(req, op.TokenParam, token); err != nil {
			return nil, err
		}
		if token != "" {
			consumed[token] = true
		}

		summary.State = PageFetching
		resp := new(Resp)
		if err := rt.Backend.Invoke(ctx, op.Call(), req, resp); err != nil {
			logger.Debug("page request failed", "page", summary.Pages+1, "error", err)
			summary.State = PageFailed
			summary.Err = err
			if emitErr := emit(&Envelope{Err: err, Warnings: warnings}); emitErr != nil {
				return summary, emitErr
			}
			break
		}

		summary.Pages++
		next := op.NextToken(resp)
		summary.NextToken = next

		page := &Envelope{Response: resp, Warnings: warnings}
		if !echo {
			page.Payload = projector.Apply(resp, inv.Params)
		}
		warnings = nil

		if err := emit(page); err != nil {
			summary.State = PageFailed
			summary.Err = err
			return summary, err
		}

		if summary.Manual {
			summary.State = PageStopped
			break
		}
		if next == "" {
			summary.State = PageExhausted
			break
		}
		if consumed[next] {
			summary.State = PageFailed
			summary.Err = fmt.Errorf("%w: %s", ErrTokenRepeated, next)
			break
		}

		summary.State = PageHasMore
		token = next
	}

	if echo {
		summary.Echo = projector.Apply(nil, inv.Params)
	}
	logger.Debug("pagination finished", "state", summary.State, "pages", summary.Pages)
	return summary, nil
}
