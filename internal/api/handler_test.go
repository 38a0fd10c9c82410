package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shaiso/Cloudlet/internal/telemetry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := NewHandler(Config{Dispatcher: newTestDispatcher(t)})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandler_InvokeOperation(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/mediapipelines/CreateMediaPipeline", `{"name":"live"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("expected generated request id header")
	}

	var dr struct {
		Data struct {
			MediaPipeline map[string]any `json:"mediaPipeline"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dr.Data.MediaPipeline["name"] != "live" {
		t.Errorf("unexpected response: %v", dr.Data.MediaPipeline)
	}
}

func TestHandler_ErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)

	header := http.Header{}
	header.Set(HeaderRequestID, "req-42")
	resp := post(t, srv, "/api/v1/kms/GetKey", `{"keyId":"00000000-0000-0000-0000-000000000001"}`, header)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var er ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Error.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", er.Error.Code)
	}
	if er.Error.RequestID != "req-42" {
		t.Errorf("expected request id to be echoed, got %q", er.Error.RequestID)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/kms/ListKeys")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHandler_ListServices(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/services")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var lr struct {
		Data  []ServiceResponse `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lr.Total != 4 || lr.Data[0].Name != "auditmanager" {
		t.Errorf("unexpected services: %+v", lr)
	}
	if len(lr.Data[0].Actions) != 10 {
		t.Errorf("expected 10 auditmanager actions, got %v", lr.Data[0].Actions)
	}
}

func TestHandler_RegionHeader(t *testing.T) {
	srv := newTestServer(t)

	header := http.Header{}
	header.Set(HeaderRegion, "eu-central-1")
	resp := post(t, srv, "/api/v1/kms/CreateKey", `{"name":"k1"}`, header)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var dr struct {
		Data struct {
			Key struct {
				Arn string `json:"arn"`
			} `json:"key"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(dr.Data.Key.Arn, ":eu-central-1:") {
		t.Errorf("expected header region in arn, got %q", dr.Data.Key.Arn)
	}
}

func TestRequestID_ContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		telemetry.FromContextOr(r.Context(), slog.Default()).Info("inside")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/kms/ListKeys", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != "req-7" {
		t.Errorf("expected request id header, got %q", rec.Header().Get(HeaderRequestID))
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log %q: %v", buf.String(), err)
	}
	if entry["msg"] != "inside" || entry["request_id"] != "req-7" {
		t.Errorf("expected request-scoped logger, got %v", entry)
	}
}
