package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "flumotion-depgraph"

	metricNodesAdded          = "depgraph.nodes.added"
	metricEdgesAdded          = "depgraph.edges.added"
	metricLivenessTransitions = "depgraph.liveness.transitions"
	metricScheduleDuration    = "scheduler.what_should_be_started.duration"
	metricReadySetSize        = "scheduler.ready_set.size"
)

// Config holds telemetry configuration.
type Config struct {
	// ServiceName identifies this process in the exported resource.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment (e.g., "production", "staging", "development").
	Environment string

	// EnableTracing enables distributed tracing.
	EnableTracing bool

	// EnableMetrics enables metrics collection.
	EnableMetrics bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// Metrics records the dependency graph and scheduler's observable metrics
// (spec.md §6, "Observable side-effect channel") over OpenTelemetry
// instruments backed by a Prometheus exporter.
type Metrics struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	tracer        trace.Tracer
	registry      *promclient.Registry

	nodesAdded          metric.Int64Counter
	edgesAdded          metric.Int64Counter
	livenessTransitions metric.Int64Counter
	scheduleDuration    metric.Float64Histogram
	readySetSize        metric.Int64UpDownCounter

	mu               sync.Mutex
	lastReadySetSize int64
}

// New creates a Metrics recorder with a Prometheus exporter registered
// against a dedicated Prometheus registry (not the global DefaultRegisterer
// — that would panic on a second New() call in the same process, which
// every test binary running more than one server_test.go case does) and,
// when cfg.EnableTracing is set, a tracer taken from the global
// TracerProvider. Serve Handler() at /metrics.
func New(ctx context.Context, cfg Config) (*Metrics, error) {
	m := &Metrics{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if cfg.EnableMetrics {
		if err := m.initMetrics(res); err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	} else {
		m.meter = otel.GetMeterProvider().Meter(cfg.ServiceName)
		if err := m.createInstruments(); err != nil {
			return nil, fmt.Errorf("create metric instruments: %w", err)
		}
	}

	if cfg.EnableTracing {
		m.tracer = otel.GetTracerProvider().Tracer(cfg.ServiceName)
	}

	return m, nil
}

// Noop returns a Metrics recorder over the global (by default no-op) meter
// and tracer providers. Used as the default when a caller does not supply
// an explicit Metrics via depgraph.WithMetrics / scheduler.WithMetrics.
func Noop() *Metrics {
	m := &Metrics{
		meter:  otel.GetMeterProvider().Meter(serviceName),
		tracer: otel.GetTracerProvider().Tracer(serviceName),
	}
	_ = m.createInstruments()
	return m
}

func (m *Metrics) initMetrics(res *resource.Resource) error {
	m.registry = promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(m.registry))
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}

	m.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(m.meterProvider)
	m.meter = m.meterProvider.Meter(serviceName)

	return m.createInstruments()
}

// Handler returns the HTTP handler serving this Metrics' Prometheus
// exposition. Returns a handler for an empty registry (valid, just
// label-less) if metrics were never enabled.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.HandlerFor(promclient.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) createInstruments() error {
	var err error

	m.nodesAdded, err = m.meter.Int64Counter(
		metricNodesAdded,
		metric.WithDescription("Total number of TDAG vertices added"),
	)
	if err != nil {
		return err
	}

	m.edgesAdded, err = m.meter.Int64Counter(
		metricEdgesAdded,
		metric.WithDescription("Total number of TDAG edges added"),
	)
	if err != nil {
		return err
	}

	m.livenessTransitions, err = m.meter.Int64Counter(
		metricLivenessTransitions,
		metric.WithDescription("Total number of liveness state transitions"),
	)
	if err != nil {
		return err
	}

	m.scheduleDuration, err = m.meter.Float64Histogram(
		metricScheduleDuration,
		metric.WithDescription("WhatShouldBeStarted pass duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	m.readySetSize, err = m.meter.Int64UpDownCounter(
		metricReadySetSize,
		metric.WithDescription("Size of the most recent WhatShouldBeStarted result"),
	)
	if err != nil {
		return err
	}

	return nil
}

// NodeAdded records the addition of a vertex of the given kind.
func (m *Metrics) NodeAdded(kind string) {
	if m == nil || m.nodesAdded == nil {
		return
	}
	m.nodesAdded.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// EdgeAdded records the addition of an edge between the given parent and
// child kinds.
func (m *Metrics) EdgeAdded(parentKind, childKind string) {
	if m == nil || m.edgesAdded == nil {
		return
	}
	m.edgesAdded.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("parent_kind", parentKind),
		attribute.String("child_kind", childKind),
	))
}

// LivenessTransition records a liveness flag flip for a vertex of the given
// kind to the given value.
func (m *Metrics) LivenessTransition(kind string, value bool) {
	if m == nil || m.livenessTransitions == nil {
		return
	}
	m.livenessTransitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("value", value),
	))
}

// ScheduleDuration records the wall-clock duration of one
// WhatShouldBeStarted pass.
func (m *Metrics) ScheduleDuration(d time.Duration) {
	if m == nil || m.scheduleDuration == nil {
		return
	}
	m.scheduleDuration.Record(context.Background(), float64(d.Milliseconds()))
}

// ReadySetSize records the size of the most recent WhatShouldBeStarted
// result. The underlying instrument is an UpDownCounter, so this tracks the
// delta from the last recorded size to emulate gauge semantics.
func (m *Metrics) ReadySetSize(n int) {
	if m == nil || m.readySetSize == nil {
		return
	}
	m.mu.Lock()
	delta := int64(n) - m.lastReadySetSize
	m.lastReadySetSize = int64(n)
	m.mu.Unlock()
	if delta != 0 {
		m.readySetSize.Add(context.Background(), delta)
	}
}

// Span wraps a trace.Span so callers need not import the trace package
// directly for the common End()/RecordError() path.
type Span struct {
	span trace.Span
}

// End completes the span.
func (s Span) End() {
	if s.span != nil {
		s.span.End()
	}
}

// RecordError records err on the span, if non-nil.
func (s Span) RecordError(err error) {
	if s.span != nil && err != nil {
		s.span.RecordError(err)
	}
}

// StartSpan starts a new span named name as a child of any span already in
// ctx. Safe to call on a nil *Metrics.
func (m *Metrics) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	if m == nil || m.tracer == nil {
		return ctx, Span{}
	}
	ctx, span := m.tracer.Start(ctx, name)
	return ctx, Span{span: span}
}

// Shutdown flushes and stops the underlying MeterProvider, if this Metrics
// owns one (i.e. it was built by New with EnableMetrics set).
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.meterProvider == nil {
		return nil
	}
	if err := m.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}
