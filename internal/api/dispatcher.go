package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/domain"
	"github.com/shaiso/Cloudlet/internal/repo"
	"github.com/shaiso/Cloudlet/internal/telemetry"
)

const (
	// DefaultMaxResults — размер страницы, если maxResults не передан.
	DefaultMaxResults = 50

	// MaxMaxResults — верхняя граница maxResults.
	MaxMaxResults = 100
)

// ResourceStore — хранилище ресурсов. Реализуется repo.ResourceRepo.
type ResourceStore interface {
	Create(ctx context.Context, res *domain.Resource) error
	Get(ctx context.Context, service, kind string, id uuid.UUID) (*domain.Resource, error)
	List(ctx context.Context, service, kind string, limit int, after *domain.PageToken) ([]domain.Resource, *domain.PageToken, error)
	Update(ctx context.Context, res *domain.Resource) error
	Delete(ctx context.Context, service, kind string, id uuid.UUID) error
}

// OpError — отказ сервиса с кодом и HTTP-статусом.
type OpError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func opError(status int, code ErrorCode, format string, args ...any) *OpError {
	return &OpError{Status: status, Code: code, Message: fmt.Sprintf(format, args...)}
}

// DispatcherConfig — зависимости Dispatcher.
type DispatcherConfig struct {
	Registry *catalog.Registry
	Store    ResourceStore
	Region   string
	Metrics  *telemetry.OperationMetrics
	Logger   *slog.Logger
}

// Dispatcher выполняет action'ы каталога над хранилищем ресурсов.
// Один Dispatcher обслуживает и HTTP, и AMQP RPC.
type Dispatcher struct {
	registry *catalog.Registry
	store    ResourceStore
	region   string
	metrics  *telemetry.OperationMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher создаёт Dispatcher. Пустой Registry заменяется catalog.Default().
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	registry := cfg.Registry
	if registry == nil {
		registry = catalog.Default()
	}
	region := cfg.Region
	if region == "" {
		region = "local"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		store:    cfg.Store,
		region:   region,
		metrics:  cfg.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// regionKey — ключ региона запроса в контексте.
type regionKey struct{}

// ContextWithRegion кладёт регион запроса в контекст. Пустой регион
// не меняет контекст: Dispatcher использует свой.
func ContextWithRegion(ctx context.Context, region string) context.Context {
	region = strings.TrimSpace(region)
	if region == "" {
		return ctx
	}
	return context.WithValue(ctx, regionKey{}, region)
}

// regionFor возвращает регион из контекста или регион Dispatcher'а.
func (d *Dispatcher) regionFor(ctx context.Context) string {
	if region, ok := ctx.Value(regionKey{}).(string); ok {
		return region
	}
	return d.region
}

// Dispatch выполняет action сервиса с JSON-телом запроса.
// Ошибки сервиса возвращаются как *OpError, остальные — внутренние.
//
// Логгер берётся из контекста (его кладут RequestID и RPCServer) и
// дополняется service и action. Имена вне каталога попадают в метрики
// как telemetry.LabelUnknown.
func (d *Dispatcher) Dispatch(ctx context.Context, service, action string, body json.RawMessage) (any, error) {
	start := time.Now()
	logger := telemetry.WithOperation(telemetry.FromContextOr(ctx, d.logger), service, action)
	ctx = telemetry.WithLogger(ctx, logger)

	serviceLabel, actionLabel := telemetry.LabelUnknown, telemetry.LabelUnknown
	svc, verb, kind, err := d.resolve(service, action)
	if svc != nil {
		serviceLabel = svc.Name
	}
	var result any
	if err == nil {
		actionLabel = action
		result, err = d.execute(ctx, svc, verb, kind, body)
	}

	outcome := telemetry.OutcomeSuccess
	if err != nil {
		var opErr *OpError
		if errors.As(err, &opErr) && opErr.Status < http.StatusInternalServerError {
			outcome = telemetry.OutcomeRejected
		} else {
			outcome = telemetry.OutcomeError
		}
	}
	d.metrics.ObserveOperation(serviceLabel, actionLabel, outcome, time.Since(start))

	logger.Debug("operation dispatched", "outcome", outcome)
	return result, err
}

// resolve находит сервис и разбирает action. При неизвестном action
// сервис всё равно возвращается.
func (d *Dispatcher) resolve(service, action string) (*catalog.Service, catalog.Verb, catalog.Kind, error) {
	svc, err := d.registry.Lookup(service)
	if err != nil {
		return nil, "", catalog.Kind{}, opError(http.StatusNotFound, ErrCodeUnknownOperation, "unknown service %q", service)
	}
	verb, kind, err := svc.ParseAction(action)
	if err != nil {
		return svc, "", catalog.Kind{}, opError(http.StatusNotFound, ErrCodeUnknownOperation,
			"service %s has no operation %s", service, action)
	}
	return svc, verb, kind, nil
}

func (d *Dispatcher) execute(ctx context.Context, svc *catalog.Service, verb catalog.Verb, kind catalog.Kind, body json.RawMessage) (any, error) {
	fields := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, opError(http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: %v", err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}

	op := operation{d: d, service: svc, kind: kind, region: d.regionFor(ctx), fields: fields}
	switch verb {
	case catalog.VerbCreate:
		return op.create(ctx)
	case catalog.VerbGet:
		return op.get(ctx)
	case catalog.VerbList:
		return op.list(ctx)
	case catalog.VerbUpdate:
		return op.update(ctx)
	case catalog.VerbDelete:
		return op.delete(ctx)
	default:
		return nil, opError(http.StatusNotFound, ErrCodeUnknownOperation, "unsupported verb %s", verb)
	}
}

// operation — один вызов action'а над типом ресурса.
type operation struct {
	d       *Dispatcher
	service *catalog.Service
	kind    catalog.Kind
	region  string
	fields  map[string]any
}

func (op operation) create(ctx context.Context) (any, error) {
	name, err := op.requiredString("name")
	if err != nil {
		return nil, err
	}
	status := domain.ResourceStatusActive
	if v, ok := op.fields["status"]; ok && v != nil {
		if status, err = parseStatus(v); err != nil {
			return nil, err
		}
	}

	now := op.d.now().UTC()
	res := &domain.Resource{
		ID:         uuid.New(),
		Service:    op.service.Name,
		Kind:       op.kind.Name,
		Name:       name,
		Status:     status,
		Attributes: op.attributes(false),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := op.d.store.Create(ctx, res); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, opError(http.StatusConflict, ErrCodeConflict,
				"%s with name %s already exists", op.kind.Name, name)
		}
		return nil, err
	}
	return op.item(res), nil
}

func (op operation) get(ctx context.Context) (any, error) {
	res, err := op.load(ctx)
	if err != nil {
		return nil, err
	}
	return op.item(res), nil
}

func (op operation) list(ctx context.Context) (any, error) {
	limit := DefaultMaxResults
	if v, ok := op.fields["maxResults"]; ok && v != nil {
		n, isNum := v.(float64)
		if !isNum || n != math.Trunc(n) || n < 1 {
			return nil, opError(http.StatusBadRequest, ErrCodeValidation,
				"maxResults must be a positive integer")
		}
		limit = int(math.Min(n, MaxMaxResults))
	}

	var after *domain.PageToken
	if v, ok := op.fields["nextToken"]; ok && v != nil {
		raw, isString := v.(string)
		if !isString {
			return nil, opError(http.StatusBadRequest, ErrCodeInvalidToken, "nextToken must be a string")
		}
		if raw != "" {
			token, err := domain.DecodePageToken(raw)
			if err != nil {
				return nil, opError(http.StatusBadRequest, ErrCodeInvalidToken, "invalid nextToken")
			}
			after = token
		}
	}

	resources, next, err := op.d.store.List(ctx, op.service.Name, op.kind.Name, limit, after)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, len(resources))
	for i := range resources {
		items[i] = op.wire(&resources[i])
	}
	result := map[string]any{op.kind.ListField(): items}
	if next != nil {
		result["nextToken"] = next.Encode()
	}
	return result, nil
}

func (op operation) update(ctx context.Context) (any, error) {
	res, err := op.load(ctx)
	if err != nil {
		return nil, err
	}

	if v, ok := op.fields["name"]; ok && v != nil {
		name, isString := v.(string)
		if !isString || name == "" {
			return nil, opError(http.StatusBadRequest, ErrCodeValidation, "name must be a non-empty string")
		}
		res.Name = name
	}
	if v, ok := op.fields["status"]; ok && v != nil {
		if res.Status, err = parseStatus(v); err != nil {
			return nil, err
		}
	}
	res.Merge(op.attributes(true))
	res.UpdatedAt = op.d.now().UTC()

	if err := op.d.store.Update(ctx, res); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, op.notFound(res.ID.String())
		case errors.Is(err, repo.ErrAlreadyExists):
			return nil, opError(http.StatusConflict, ErrCodeConflict,
				"%s with name %s already exists", op.kind.Name, res.Name)
		}
		return nil, err
	}
	return op.item(res), nil
}

func (op operation) delete(ctx context.Context) (any, error) {
	id, err := op.id()
	if err != nil {
		return nil, err
	}
	if err := op.d.store.Delete(ctx, op.service.Name, op.kind.Name, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, op.notFound(id.String())
		}
		return nil, err
	}
	return map[string]any{}, nil
}

// load читает ресурс по <kind>Id.
func (op operation) load(ctx context.Context) (*domain.Resource, error) {
	id, err := op.id()
	if err != nil {
		return nil, err
	}
	res, err := op.d.store.Get(ctx, op.service.Name, op.kind.Name, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, op.notFound(id.String())
		}
		return nil, err
	}
	return res, nil
}

func (op operation) id() (uuid.UUID, error) {
	field := op.kind.IDField()
	raw, err := op.requiredString(field)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		// Чужой формат идентификатора не может существовать в хранилище.
		return uuid.Nil, op.notFound(raw)
	}
	return id, nil
}

func (op operation) requiredString(field string) (string, error) {
	v, ok := op.fields[field]
	if !ok || v == nil {
		return "", opError(http.StatusBadRequest, ErrCodeValidation, "%s is required", field)
	}
	s, isString := v.(string)
	if !isString || s == "" {
		return "", opError(http.StatusBadRequest, ErrCodeValidation, "%s must be a non-empty string", field)
	}
	return s, nil
}

// attributes возвращает поля запроса, кроме служебных.
// При keepNil ключи со значением null сохраняются: Merge их удалит.
func (op operation) attributes(keepNil bool) map[string]any {
	reserved := map[string]bool{
		"name":      true,
		"status":    true,
		"arn":       true,
		"createdAt": true,
		"updatedAt": true,
	}
	reserved[op.kind.IDField()] = true

	attrs := make(map[string]any)
	for k, v := range op.fields {
		if reserved[k] || (v == nil && !keepNil) {
			continue
		}
		attrs[k] = v
	}
	return attrs
}

func (op operation) item(res *domain.Resource) map[string]any {
	return map[string]any{op.kind.ItemField(): op.wire(res)}
}

// wire — представление ресурса на проводе. Служебные поля перекрывают атрибуты.
func (op operation) wire(res *domain.Resource) map[string]any {
	out := make(map[string]any, len(res.Attributes)+6)
	for k, v := range res.Attributes {
		out[k] = v
	}
	out[op.kind.IDField()] = res.ID.String()
	out["arn"] = res.ARN(op.region)
	out["name"] = res.Name
	out["status"] = string(res.Status)
	out["createdAt"] = res.CreatedAt
	out["updatedAt"] = res.UpdatedAt
	return out
}

func (op operation) notFound(id string) *OpError {
	return opError(http.StatusNotFound, ErrCodeNotFound, "%s %s not found", op.kind.Name, id)
}

func parseStatus(v any) (domain.ResourceStatus, error) {
	s, _ := v.(string)
	status := domain.ResourceStatus(s)
	if !status.IsValid() {
		return "", opError(http.StatusBadRequest, ErrCodeValidation,
			"status must be one of %s, %s", domain.ResourceStatusActive, domain.ResourceStatusDisabled)
	}
	return status, nil
}
