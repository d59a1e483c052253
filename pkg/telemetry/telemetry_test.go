package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{
			name: "custom config",
			config: Config{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				EnableTracing:  true,
				EnableMetrics:  true,
			},
		},
		{
			name: "metrics only",
			config: Config{
				ServiceName:   "test-service",
				EnableTracing: false,
				EnableMetrics: true,
			},
		},
		{
			name: "tracing only",
			config: Config{
				ServiceName:   "test-service",
				EnableTracing: true,
				EnableMetrics: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(ctx, tt.config)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if m == nil {
				t.Fatal("New() returned nil Metrics")
			}
			defer m.Shutdown(ctx)
		})
	}
}

func TestNoop(t *testing.T) {
	m := Noop()
	if m == nil {
		t.Fatal("Noop() returned nil")
	}

	// None of these should panic even without a configured SDK.
	m.NodeAdded("WORKER")
	m.EdgeAdded("JOB", "COMPONENTSETUP")
	m.LivenessTransition("COMPONENTSTART", true)
	m.ScheduleDuration(5 * time.Millisecond)
	m.ReadySetSize(3)

	ctx, span := m.StartSpan(context.Background(), "test.op")
	if ctx == nil {
		t.Error("StartSpan returned nil context")
	}
	span.RecordError(nil)
	span.End()
}

func TestMetrics_NilReceiverSafe(t *testing.T) {
	var m *Metrics

	// A nil *Metrics must behave like a no-op recorder so depgraph.Graph
	// and scheduler never need to nil-check before calling out to it.
	m.NodeAdded("WORKER")
	m.EdgeAdded("JOB", "COMPONENTSETUP")
	m.LivenessTransition("COMPONENTSTART", false)
	m.ScheduleDuration(time.Millisecond)
	m.ReadySetSize(1)

	ctx, span := m.StartSpan(context.Background(), "test.op")
	if ctx == nil {
		t.Error("StartSpan returned nil context")
	}
	span.End()

	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on nil Metrics error = %v", err)
	}
}

func TestMetrics_ReadySetSizeDelta(t *testing.T) {
	m := Noop()

	// Exercises the increasing/decreasing/no-change delta paths; none
	// should panic, and repeated identical values must be a no-op.
	m.ReadySetSize(5)
	m.ReadySetSize(5)
	m.ReadySetSize(2)
	m.ReadySetSize(8)
}

func TestNew_IsolatedRegistriesAcrossInstances(t *testing.T) {
	ctx := context.Background()

	// Two Metrics instances in the same process must not collide on a
	// shared global Prometheus registerer (each New() call creates its own
	// registry precisely to avoid "duplicate collector" panics).
	a, err := New(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("New() first instance error = %v", err)
	}
	defer a.Shutdown(ctx)

	b, err := New(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("New() second instance error = %v", err)
	}
	defer b.Shutdown(ctx)

	if a.Handler() == nil || b.Handler() == nil {
		t.Fatal("expected non-nil handlers from both instances")
	}
}

func TestMetrics_Shutdown(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	// Shutdown should tolerate being called again.
	_ = m.Shutdown(ctx)
}
