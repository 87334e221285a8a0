package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
	"github.com/nerrad567/gray-logic-runtime/internal/events"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/logging"
)

// testComponent is a minimal component for populating devices.
type testComponent struct {
	ecs.Base
}

func newTestServer(t *testing.T) (*Server, *ecs.Runtime, *events.Bus) {
	t.Helper()

	bus := events.NewBus(8)
	t.Cleanup(bus.Close)

	rt := ecs.New(ecs.WithEmitter(bus))
	t.Cleanup(rt.Close)

	logger := logging.New(config.LoggingConfig{Level: "error", Output: "stderr"}, "test")

	s, err := New(Deps{
		Config:  config.APIConfig{Host: "127.0.0.1", Port: 0},
		WS:      config.WebSocketConfig{Path: "/ws", SendBuffer: 8, PingInterval: 30},
		Logger:  logger,
		Runtime: rt,
		Bus:     bus,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, rt, bus
}

func registerTestDevice(t *testing.T, rt *ecs.Runtime, addr string) {
	t.Helper()
	_, err := rt.RegisterDevice(context.Background(), addr, func(e *ecs.Entity) error {
		return e.AttachComponent(&testComponent{Base: ecs.NewBase("test.state")})
	})
	if err != nil {
		t.Fatalf("RegisterDevice(%q) error = %v", addr, err)
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doRequest(t, s.buildRouter(), http.MethodGet, "/api/v1/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v, want status ok and version test", body)
	}
}

func TestHandleListDevices(t *testing.T) {
	s, rt, _ := newTestServer(t)
	registerTestDevice(t, rt, "AA:01")
	registerTestDevice(t, rt, "AA:02")

	rec := doRequest(t, s.buildRouter(), http.MethodGet, "/api/v1/devices/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Devices []string `json:"devices"`
		Count   int      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if body.Count != 2 || len(body.Devices) != 2 {
		t.Errorf("count = %d, devices = %v, want 2", body.Count, body.Devices)
	}
	if body.Devices[0] != "AA:01" || body.Devices[1] != "AA:02" {
		t.Errorf("devices = %v, want sorted [AA:01 AA:02]", body.Devices)
	}
}

func TestHandleGetDevice(t *testing.T) {
	s, rt, _ := newTestServer(t)
	registerTestDevice(t, rt, "AA:01")
	router := s.buildRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/devices/AA:01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var detail deviceDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if detail.Address != "AA:01" || detail.EntityID == "" {
		t.Errorf("detail = %+v, want address AA:01 and non-empty entity id", detail)
	}
	if len(detail.Components) != 1 || detail.Components[0] != "test.state" {
		t.Errorf("components = %v, want [test.state]", detail.Components)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/devices/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown device status = %d, want 404", rec.Code)
	}
}

func TestDeviceRoutes_ReadOnly(t *testing.T) {
	s, rt, _ := newTestServer(t)
	registerTestDevice(t, rt, "AA:01")
	router := s.buildRouter()

	// No mutating verbs on the device surface. Destruction goes through
	// the runtime API, never over HTTP.
	for _, method := range []string{http.MethodDelete, http.MethodPost, http.MethodPut} {
		rec := doRequest(t, router, method, "/api/v1/devices/AA:01")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s status = %d, want 405", method, rec.Code)
		}
	}

	if _, err := rt.ResolveDevice(context.Background(), "AA:01"); err != nil {
		t.Errorf("device no longer resolvable after rejected requests: %v", err)
	}
}

func TestHandleGraph(t *testing.T) {
	s, rt, _ := newTestServer(t)
	registerTestDevice(t, rt, "AA:01")

	rec := doRequest(t, s.buildRouter(), http.MethodGet, "/api/v1/runtime/graph")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var g ecs.Graph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("unmarshalling graph: %v", err)
	}
	if g.EntityCount != 1 || g.DeviceCount != 1 || len(g.Entities) != 1 {
		t.Errorf("graph = %+v, want one entity and one device", g)
	}
	if g.Entities[0].DeviceID != "AA:01" {
		t.Errorf("entity device id = %q, want AA:01", g.Entities[0].DeviceID)
	}
}

func TestHandleStats(t *testing.T) {
	s, rt, _ := newTestServer(t)
	registerTestDevice(t, rt, "AA:01")

	rec := doRequest(t, s.buildRouter(), http.MethodGet, "/api/v1/runtime/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Gateway ecs.Stats `json:"gateway"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling stats: %v", err)
	}
	if body.Gateway.UnitsProcessed == 0 {
		t.Error("gateway units_processed = 0, want at least 1 after registration")
	}
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	s, _, _ := newTestServer(t)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := doRequest(t, s.recoveryMiddleware(panicking), http.MethodGet, "/panic")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	s, _, _ := newTestServer(t)
	handler := s.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := doRequest(t, handler, http.MethodGet, "/")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID header generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want fixed-id", got)
	}
}

func TestWebSocket_StreamsEvents(t *testing.T) {
	s, rt, bus := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.hub = NewHub(s.wsCfg, s.logger, bus)
	go s.hub.Run(ctx)

	srv := httptest.NewServer(s.buildRouter())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Wait for the client to register so the broadcast reaches it.
	deadline := time.Now().Add(time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(time.Millisecond)
	}

	registerTestDevice(t, rt, "AA:09")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading websocket message: %v", err)
	}

	var ev WSEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshalling event: %v", err)
	}
	if ev.Type != "runtime_event" || ev.Event.DeviceID != "AA:09" {
		t.Errorf("event = %+v, want runtime_event for AA:09", ev)
	}
}
