package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
)

// recordingSink captures samples for assertions.
type recordingSink struct {
	mu       sync.Mutex
	gateway  int
	registry int
	devices  int
	entities int
}

func (r *recordingSink) WriteGatewaySample(_ string, _ int, _, _ uint64, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateway++
}

func (r *recordingSink) WriteRegistrySample(_ string, devices, entities int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry++
	r.devices = devices
	r.entities = entities
}

func (r *recordingSink) snapshot() recordingSink {
	r.mu.Lock()
	defer r.mu.Unlock()
	return recordingSink{
		gateway:  r.gateway,
		registry: r.registry,
		devices:  r.devices,
		entities: r.entities,
	}
}

func TestSampler_RecordsGatewayAndPopulation(t *testing.T) {
	rt := ecs.New()
	defer rt.Close()

	ctx := context.Background()
	if _, err := rt.RegisterDevice(ctx, "AA:01", func(_ *ecs.Entity) error { return nil }); err != nil {
		t.Fatalf("RegisterDevice() error = %v", err)
	}

	sink := &recordingSink{}
	s := NewSampler(rt, sink, "test-site", time.Hour, nil)
	s.sample(ctx)

	got := sink.snapshot()
	if got.gateway != 1 {
		t.Errorf("gateway samples = %d, want 1", got.gateway)
	}
	if got.registry != 1 {
		t.Errorf("registry samples = %d, want 1", got.registry)
	}
	if got.devices != 1 || got.entities != 1 {
		t.Errorf("population = (%d devices, %d entities), want (1, 1)", got.devices, got.entities)
	}
}

func TestSampler_RunStopsOnCancel(t *testing.T) {
	rt := ecs.New()
	defer rt.Close()

	sink := &recordingSink{}
	s := NewSampler(rt, sink, "test-site", 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if sink.snapshot().gateway == 0 {
		t.Error("no gateway samples recorded while running")
	}
}

func TestNewSampler_DefaultInterval(t *testing.T) {
	rt := ecs.New()
	defer rt.Close()

	s := NewSampler(rt, &recordingSink{}, "test-site", 0, nil)
	if s.interval != defaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, defaultInterval)
	}
}
