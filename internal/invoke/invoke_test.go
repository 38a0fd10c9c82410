package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"reflect"
	"strings"
	"testing"
)

// --- Тестовые запросы и ответы ---

type widgetState string

type widget struct {
	ID   string  `json:"widgetId"`
	Name *string `json:"name,omitempty"`
}

type deleteWidgetRequest struct {
	WidgetID *string `json:"widgetId,omitempty" param:"WidgetId,required" desc:"Widget identifier"`
}

type deleteWidgetResponse struct{}

type createWidgetRequest struct {
	Name     *string           `json:"name,omitempty" param:"Name,required"`
	Size     *int32            `json:"size,omitempty" param:"Size"`
	Enabled  *bool             `json:"enabled,omitempty" param:"Enabled"`
	State    *widgetState      `json:"state,omitempty" param:"State"`
	Labels   []string          `json:"labels,omitempty" param:"Label"`
	Tags     map[string]string `json:"tags,omitempty" param:"Tag"`
	Blob     []byte            `json:"blob,omitempty" param:"Blob"`
	Internal string            `json:"-"`
}

type createWidgetResponse struct {
	Widget *widget `json:"widget,omitempty"`
}

type listWidgetsRequest struct {
	MaxResults *int32  `json:"maxResults,omitempty" param:"MaxResult"`
	NextToken  *string `json:"nextToken,omitempty" param:"NextToken"`
	Prefix     *string `json:"prefix,omitempty" param:"Prefix"`
}

type listWidgetsResponse struct {
	Widgets   []widget `json:"widgets"`
	NextToken *string  `json:"nextToken,omitempty"`
}

func strPtr(s string) *string { return &s }

// --- Fakes ---

// fakeBackend отвечает по сценарию и запоминает запросы.
type fakeBackend struct {
	calls    []Call
	requests []json.RawMessage
	respond  func(n int, req any, resp any) error
}

func (b *fakeBackend) Invoke(_ context.Context, call Call, req, resp any) error {
	b.calls = append(b.calls, call)
	data, _ := json.Marshal(req)
	b.requests = append(b.requests, data)
	if b.respond == nil {
		return nil
	}
	return b.respond(len(b.calls), req, resp)
}

type recordingConfirmer struct {
	answer   bool
	calls    int
	resource string
	action   string
}

func (c *recordingConfirmer) Confirm(_ bool, resource, action string) bool {
	c.calls++
	c.resource = resource
	c.action = action
	return c.answer
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var deleteWidget = &Operation[deleteWidgetRequest, deleteWidgetResponse]{
	Command:       "widgets widget delete",
	Service:       "widgets",
	Action:        "DeleteWidget",
	Mutating:      true,
	ConfirmParams: []string{"WidgetId"},
	Default:       NoOutput(),
	PassThru:      "WidgetId",
}

var createWidget = &Operation[createWidgetRequest, createWidgetResponse]{
	Command:       "widgets widget create",
	Service:       "widgets",
	Action:        "CreateWidget",
	Mutating:      true,
	ConfirmParams: []string{"Name"},
	Default:       Field("Widget"),
}

var listWidgets = &Operation[listWidgetsRequest, listWidgetsResponse]{
	Command:    "widgets widget list",
	Service:    "widgets",
	Action:     "ListWidgets",
	Default:    Field("Widgets"),
	TokenParam: "NextToken",
	NextToken: func(r *listWidgetsResponse) string {
		if r.NextToken == nil {
			return ""
		}
		return *r.NextToken
	},
}

// --- Assemble ---

func TestAssemble_OnlySuppliedFields(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		wantKeys []string
	}{
		{
			name:     "nothing supplied",
			params:   Params{},
			wantKeys: nil,
		},
		{
			name:     "single field",
			params:   Params{"Name": "w1"},
			wantKeys: []string{"name"},
		},
		{
			name: "all kinds",
			params: Params{
				"Name":    "w1",
				"Size":    int32(3),
				"Enabled": false,
				"State":   "ACTIVE",
				"Label":   []string{"a", "b"},
				"Tag":     map[string]string{"k": "v"},
				"Blob":    []byte{1, 2},
			},
			wantKeys: []string{"blob", "enabled", "labels", "name", "size", "state", "tags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req createWidgetRequest
			if _, err := Assemble(&req, tt.params); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			data, _ := json.Marshal(req)
			var fields map[string]any
			json.Unmarshal(data, &fields)

			var keys []string
			for k := range fields {
				keys = append(keys, k)
			}
			if len(keys) != len(tt.wantKeys) {
				t.Fatalf("expected fields %v, got %s", tt.wantKeys, data)
			}
			for _, k := range tt.wantKeys {
				if _, ok := fields[k]; !ok {
					t.Errorf("expected field %s in %s", k, data)
				}
			}
		})
	}
}

func TestAssemble_ExplicitFalseIsSent(t *testing.T) {
	var req createWidgetRequest
	if _, err := Assemble(&req, Params{"Enabled": false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Enabled == nil || *req.Enabled {
		t.Errorf("expected Enabled=false to be set, got %v", req.Enabled)
	}
	if req.State != nil {
		t.Errorf("State should stay nil, got %v", *req.State)
	}
}

func TestAssemble_EnumConversion(t *testing.T) {
	var req createWidgetRequest
	if _, err := Assemble(&req, Params{"State": "ACTIVE"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.State == nil || *req.State != widgetState("ACTIVE") {
		t.Errorf("expected State=ACTIVE, got %v", req.State)
	}
}

func TestAssemble_MissingRequired(t *testing.T) {
	var req createWidgetRequest
	missing, err := Assemble(&req, Params{"Size": int32(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"Name"}) {
		t.Errorf("expected missing [Name], got %v", missing)
	}

	missing, err = Assemble(&createWidgetRequest{}, Params{"Name": nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"Name"}) {
		t.Errorf("explicit nil should count as missing, got %v", missing)
	}
}

func TestAssemble_Errors(t *testing.T) {
	var req createWidgetRequest

	_, err := Assemble(&req, Params{"Bogus": "x"})
	if !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}

	_, err = Assemble(&req, Params{"Size": "three"})
	if !errors.Is(err, ErrParamType) {
		t.Errorf("expected ErrParamType, got %v", err)
	}

	_, err = Assemble(req, Params{})
	if err == nil {
		t.Error("expected error for non-pointer request")
	}
}

func TestDescribe(t *testing.T) {
	infos, err := Describe(reflect.TypeFor[createWidgetRequest]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 7 {
		t.Fatalf("expected 7 params, got %d", len(infos))
	}
	if infos[0].Name != "Name" || !infos[0].Required {
		t.Errorf("expected required Name first, got %+v", infos[0])
	}
	if infos[1].Required {
		t.Error("Size should not be required")
	}
}

// --- Projection ---

func TestParseProjection(t *testing.T) {
	tests := []struct {
		expr    string
		want    Projection
		wantErr bool
	}{
		{expr: "*", want: WholeResponse()},
		{expr: "^WidgetId", want: EchoInput("WidgetId")},
		{expr: "Widget.Name", want: Field("Widget.Name")},
		{expr: " Widgets ", want: Field("Widgets")},
		{expr: "", wantErr: true},
		{expr: "^", wantErr: true},
		{expr: "Widget..Name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseProjection(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProjection) {
					t.Fatalf("expected ErrInvalidProjection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSelectProjection(t *testing.T) {
	def := Field("Widgets")

	got, err := SelectProjection(&Invocation{}, def, "WidgetId")
	if err != nil || got != def {
		t.Errorf("expected default projection, got %+v, %v", got, err)
	}

	got, err = SelectProjection(&Invocation{PassThru: true}, def, "WidgetId")
	if err != nil || got != EchoInput("WidgetId") {
		t.Errorf("pass-thru should echo input, got %+v, %v", got, err)
	}

	_, err = SelectProjection(&Invocation{PassThru: true, SelectSet: true, Select: "*"}, def, "WidgetId")
	if !errors.Is(err, ErrSelectWithPassThru) {
		t.Errorf("expected ErrSelectWithPassThru, got %v", err)
	}

	got, err = SelectProjection(&Invocation{SelectSet: true, Select: "*"}, def, "")
	if err != nil || got != WholeResponse() {
		t.Errorf("expected whole response, got %+v, %v", got, err)
	}
}

func TestCompile_UnknownField(t *testing.T) {
	reqType := reflect.TypeFor[createWidgetRequest]()
	respType := reflect.TypeFor[createWidgetResponse]()

	if _, err := Compile(Field("Widget.Color"), reqType, respType); !errors.Is(err, ErrInvalidProjection) {
		t.Errorf("expected ErrInvalidProjection for unknown field, got %v", err)
	}
	if _, err := Compile(Field("Widget.Name.Length"), reqType, respType); !errors.Is(err, ErrInvalidProjection) {
		t.Errorf("expected ErrInvalidProjection for non-struct step, got %v", err)
	}
	if _, err := Compile(EchoInput("Color"), reqType, respType); !errors.Is(err, ErrInvalidProjection) {
		t.Errorf("expected ErrInvalidProjection for unknown input, got %v", err)
	}
}

func TestProjector_Apply(t *testing.T) {
	reqType := reflect.TypeFor[createWidgetRequest]()
	respType := reflect.TypeFor[createWidgetResponse]()
	resp := &createWidgetResponse{Widget: &widget{ID: "w-1", Name: strPtr("first")}}
	params := Params{"Name": "first"}

	tests := []struct {
		name       string
		projection Projection
		want       any
	}{
		{name: "whole", projection: WholeResponse(), want: resp},
		{name: "nothing", projection: NoOutput(), want: nil},
		{name: "field by go name", projection: Field("Widget.ID"), want: "w-1"},
		{name: "field by json name", projection: Field("widget.widgetId"), want: "w-1"},
		{name: "pointer leaf is dereferenced", projection: Field("Widget.Name"), want: "first"},
		{name: "echo input", projection: EchoInput("name"), want: "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projector, err := Compile(tt.projection, reqType, respType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			first := projector.Apply(resp, params)
			second := projector.Apply(resp, params)
			if !reflect.DeepEqual(first, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, first)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("projection is not idempotent: %v vs %v", first, second)
			}
		})
	}
}

func TestProjector_NilIntermediate(t *testing.T) {
	projector, err := Compile(Field("Widget.Name"), reflect.TypeFor[createWidgetRequest](), reflect.TypeFor[createWidgetResponse]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := projector.Apply(&createWidgetResponse{}, nil); got != nil {
		t.Errorf("expected nil for nil intermediate, got %v", got)
	}
}

// --- Invoke ---

func TestInvoke_DeleteForced(t *testing.T) {
	backend := &fakeBackend{}
	confirmer := &recordingConfirmer{answer: false}
	rt := Runtime{Backend: backend, Confirmer: confirmer, Logger: quietLogger()}

	env, err := Invoke(context.Background(), rt, deleteWidget, &Invocation{
		Params: Params{"WidgetId": "w-1"},
		Force:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(backend.calls) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(backend.calls))
	}
	if confirmer.calls != 0 {
		t.Errorf("confirmer must not be consulted with force, got %d calls", confirmer.calls)
	}
	if env.Err != nil || env.Payload != nil {
		t.Errorf("expected empty payload and no error, got %+v", env)
	}
	if env.Response == nil {
		t.Error("raw response should be kept in envelope")
	}
	if backend.calls[0] != (Call{Service: "widgets", Action: "DeleteWidget"}) {
		t.Errorf("unexpected call %+v", backend.calls[0])
	}
}

func TestInvoke_Declined(t *testing.T) {
	backend := &fakeBackend{}
	confirmer := &recordingConfirmer{answer: false}
	rt := Runtime{Backend: backend, Confirmer: confirmer, Logger: quietLogger()}

	env, err := Invoke(context.Background(), rt, deleteWidget, &Invocation{
		Params: Params{"WidgetId": "w-1"},
	})
	if err != nil {
		t.Fatalf("declined confirmation must not be an error: %v", err)
	}
	if !env.Empty() {
		t.Errorf("expected empty envelope, got %+v", env)
	}
	if len(backend.calls) != 0 {
		t.Errorf("expected no dispatch, got %d", len(backend.calls))
	}
	if confirmer.resource != "WidgetId=w-1" {
		t.Errorf("unexpected resource description %q", confirmer.resource)
	}
	if confirmer.action != "widgets widget delete (DeleteWidget)" {
		t.Errorf("unexpected action label %q", confirmer.action)
	}
}

func TestInvoke_NilConfirmerDeclines(t *testing.T) {
	backend := &fakeBackend{}
	env, err := Invoke(context.Background(), Runtime{Backend: backend, Logger: quietLogger()}, deleteWidget, &Invocation{
		Params: Params{"WidgetId": "w-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !env.Empty() || len(backend.calls) != 0 {
		t.Errorf("expected no dispatch without confirmer, got %+v", env)
	}
}

func TestInvoke_PassThruEchoesInput(t *testing.T) {
	backend := &fakeBackend{}
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	env, err := Invoke(context.Background(), rt, deleteWidget, &Invocation{
		Params:   Params{"WidgetId": "w-9"},
		Force:    true,
		PassThru: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Payload != "w-9" {
		t.Errorf("expected echoed input w-9, got %v", env.Payload)
	}
}

func TestInvoke_ProjectionFailsBeforeDispatch(t *testing.T) {
	backend := &fakeBackend{}
	confirmer := &recordingConfirmer{answer: true}
	rt := Runtime{Backend: backend, Confirmer: confirmer, Logger: quietLogger()}

	_, err := Invoke(context.Background(), rt, createWidget, &Invocation{
		Params:    Params{"Name": "x"},
		Select:    "Widget.Color",
		SelectSet: true,
	})
	if !errors.Is(err, ErrInvalidProjection) {
		t.Fatalf("expected ErrInvalidProjection, got %v", err)
	}
	if len(backend.calls) != 0 || confirmer.calls != 0 {
		t.Error("nothing should happen after projection failure")
	}
}

func TestInvoke_MissingRequiredWarnsAndDispatches(t *testing.T) {
	backend := &fakeBackend{}
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	env, err := Invoke(context.Background(), rt, createWidget, &Invocation{
		Params: Params{"Size": int32(2)},
		Force:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.calls) != 1 {
		t.Fatalf("expected dispatch despite missing required param, got %d", len(backend.calls))
	}
	if len(env.Warnings) != 1 || !strings.Contains(env.Warnings[0], "Name") {
		t.Errorf("expected warning about Name, got %v", env.Warnings)
	}
	if string(backend.requests[0]) != `{"size":2}` {
		t.Errorf("unexpected request body %s", backend.requests[0])
	}
}

func TestInvoke_ServiceErrorPassedThrough(t *testing.T) {
	serviceErr := &ServiceError{Code: "NOT_FOUND", Message: "widget w-1 not found", StatusCode: 404}
	backend := &fakeBackend{respond: func(int, any, any) error { return serviceErr }}
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	env, err := Invoke(context.Background(), rt, deleteWidget, &Invocation{
		Params: Params{"WidgetId": "w-1"},
		Force:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Err != serviceErr {
		t.Errorf("service error must be passed through unchanged, got %v", env.Err)
	}
	if env.Payload != nil || env.Response != nil {
		t.Error("failed envelope must not carry payload")
	}
	if len(backend.calls) != 1 {
		t.Errorf("no retries expected, got %d calls", len(backend.calls))
	}
}

func TestInvoke_TransportErrorDiagnostics(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "widgets.nowhere.invalid", IsNotFound: true}
	target := Target{Endpoint: "https://widgets.nowhere.invalid", Region: "eu-west-7", Service: "widgets", Action: "DeleteWidget"}
	backend := &fakeBackend{respond: func(int, any, any) error { return DiagnoseTransport(dnsErr, target) }}
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	env, err := Invoke(context.Background(), rt, deleteWidget, &Invocation{
		Params: Params{"WidgetId": "w-1"},
		Force:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var transportErr *TransportError
	if !errors.As(env.Err, &transportErr) {
		t.Fatalf("expected TransportError, got %T", env.Err)
	}
	if transportErr.Kind != TransportNameResolution {
		t.Errorf("expected name resolution kind, got %s", transportErr.Kind)
	}
	msg := env.Err.Error()
	for _, want := range []string{"Name resolution failure", "eu-west-7", "https://widgets.nowhere.invalid", "no such host"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message should contain %q, got:\n%s", want, msg)
		}
	}
	if !errors.Is(env.Err, dnsErr) {
		t.Error("original error should stay in the chain")
	}
}

func TestDiagnoseTransport_Connectivity(t *testing.T) {
	err := DiagnoseTransport(errors.New("connection refused"), Target{Endpoint: "http://localhost:1"})
	if err.Kind != TransportConnectivity {
		t.Errorf("expected connectivity kind, got %s", err.Kind)
	}
	if !strings.Contains(err.Error(), "Endpoint: http://localhost:1") {
		t.Errorf("diagnostics missing endpoint: %s", err.Error())
	}
}

// --- Paginate ---

// pagedBackend отдаёт страницы с заданными token'ами по порядку.
func pagedBackend(tokens []string) *fakeBackend {
	return &fakeBackend{respond: func(n int, _ any, resp any) error {
		r := resp.(*listWidgetsResponse)
		r.Widgets = []widget{{ID: tokens[n-1] + "-item"}}
		if tokens[n-1] != "" {
			r.NextToken = strPtr(tokens[n-1])
		}
		return nil
	}}
}

func TestPaginate_FollowsTokensUntilEmpty(t *testing.T) {
	backend := pagedBackend([]string{"a", "b", ""})
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	var pages []*Envelope
	summary, err := Paginate(context.Background(), rt, listWidgets, &Invocation{Params: Params{}}, func(env *Envelope) error {
		pages = append(pages, env)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pages) != 3 || summary.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d (summary %d)", len(pages), summary.Pages)
	}
	if summary.State != PageExhausted {
		t.Errorf("expected exhausted, got %s", summary.State)
	}

	wantRequests := []string{`{}`, `{"nextToken":"a"}`, `{"nextToken":"b"}`}
	for i, want := range wantRequests {
		if string(backend.requests[i]) != want {
			t.Errorf("request %d: expected %s, got %s", i, want, backend.requests[i])
		}
	}

	items, ok := pages[0].Payload.([]widget)
	if !ok || len(items) != 1 || items[0].ID != "a-item" {
		t.Errorf("unexpected first page payload %#v", pages[0].Payload)
	}
}

func TestPaginate_ManualModeSingleFetch(t *testing.T) {
	tests := []struct {
		name string
		inv  *Invocation
		want string
	}{
		{
			name: "explicit token",
			inv:  &Invocation{Params: Params{"NextToken": "start"}},
			want: `{"nextToken":"start"}`,
		},
		{
			name: "no auto iteration",
			inv:  &Invocation{Params: Params{}, NoAutoIteration: true},
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := pagedBackend([]string{"more", "x"})
			rt := Runtime{Backend: backend, Logger: quietLogger()}

			summary, err := Paginate(context.Background(), rt, listWidgets, tt.inv, func(*Envelope) error { return nil })
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(backend.calls) != 1 {
				t.Fatalf("expected exactly one fetch, got %d", len(backend.calls))
			}
			if string(backend.requests[0]) != tt.want {
				t.Errorf("expected request %s, got %s", tt.want, backend.requests[0])
			}
			if summary.State != PageStopped || !summary.Manual {
				t.Errorf("expected stopped manual summary, got %+v", summary)
			}
			if summary.NextToken != "more" {
				t.Errorf("returned token should be exposed, got %q", summary.NextToken)
			}
		})
	}
}

func TestPaginate_FailureKeepsEmittedPages(t *testing.T) {
	failure := &ServiceError{Code: "THROTTLED", Message: "slow down"}
	backend := &fakeBackend{respond: func(n int, _ any, resp any) error {
		if n == 2 {
			return failure
		}
		resp.(*listWidgetsResponse).NextToken = strPtr("next")
		return nil
	}}
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	var pages []*Envelope
	summary, err := Paginate(context.Background(), rt, listWidgets, &Invocation{Params: Params{}}, func(env *Envelope) error {
		pages = append(pages, env)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.State != PageFailed || summary.Err != failure {
		t.Errorf("expected failed summary with service error, got %+v", summary)
	}
	if summary.Pages != 1 {
		t.Errorf("expected 1 successful page, got %d", summary.Pages)
	}
	if len(pages) != 2 || pages[0].Err != nil || pages[1].Err != failure {
		t.Errorf("expected one page then one error envelope, got %+v", pages)
	}
}

func TestPaginate_RepeatedTokenStops(t *testing.T) {
	backend := &fakeBackend{respond: func(_ int, _ any, resp any) error {
		resp.(*listWidgetsResponse).NextToken = strPtr("same")
		return nil
	}}
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	summary, err := Paginate(context.Background(), rt, listWidgets, &Invocation{Params: Params{}}, func(*Envelope) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(summary.Err, ErrTokenRepeated) {
		t.Errorf("expected ErrTokenRepeated, got %v", summary.Err)
	}
	if len(backend.calls) != 2 {
		t.Errorf("consumed token must not be re-requested, got %d calls", len(backend.calls))
	}
}

func TestPaginate_EchoInputReturnedOnce(t *testing.T) {
	backend := pagedBackend([]string{"a", ""})
	rt := Runtime{Backend: backend, Logger: quietLogger()}

	var pages []*Envelope
	summary, err := Paginate(context.Background(), rt, listWidgets, &Invocation{
		Params:    Params{"Prefix": "wid"},
		Select:    "^Prefix",
		SelectSet: true,
	}, func(env *Envelope) error {
		pages = append(pages, env)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Echo != "wid" {
		t.Errorf("expected echo wid, got %v", summary.Echo)
	}
	for i, page := range pages {
		if page.Payload != nil {
			t.Errorf("page %d should have no payload in echo mode, got %v", i, page.Payload)
		}
	}
}

func TestPaginate_EmitErrorStops(t *testing.T) {
	backend := pagedBackend([]string{"a", "b", ""})
	rt := Runtime{Backend: backend, Logger: quietLogger()}
	stop := errors.New("stop")

	summary, err := Paginate(context.Background(), rt, listWidgets, &Invocation{Params: Params{}}, func(*Envelope) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if summary.State != PageFailed || len(backend.calls) != 1 {
		t.Errorf("expected stop after first page, got %+v with %d calls", summary, len(backend.calls))
	}
}

func TestPaginate_NotPaginated(t *testing.T) {
	op := &Operation[listWidgetsRequest, listWidgetsResponse]{Service: "widgets", Action: "ListWidgets"}
	_, err := Paginate(context.Background(), Runtime{Backend: &fakeBackend{}}, op, &Invocation{}, func(*Envelope) error { return nil })
	if !errors.Is(err, ErrNotPaginated) {
		t.Errorf("expected ErrNotPaginated, got %v", err)
	}
}
