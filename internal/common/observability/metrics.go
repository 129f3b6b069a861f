// Package observability exposes OpenTelemetry metrics for the worker
// manager. The Prometheus exporter feeds the /metrics endpoint, so these
// counters appear next to the handler-level prometheus metrics.
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Worker timeouts range from 10s for scoring to 60s for parsing, so the
// duration buckets stretch well past the usual sub-second completions.
var durationBucketsMs = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000}

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

// New wires the meter provider into the global Prometheus registry. A
// failed exporter leaves a no-op Observability so job handling never
// depends on metrics being available.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.handled",
		otelmetric.WithDescription("Zeebe jobs handled per task type"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job handling duration per task type"),
		otelmetric.WithUnit("ms"),
		otelmetric.WithExplicitBucketBoundaries(durationBucketsMs...),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
	}
}

// RecordJobHandled counts a handled job regardless of outcome. Per-outcome
// counters live in the prometheus metrics package next to the handlers.
func (o *Observability) RecordJobHandled(ctx context.Context, taskType string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("taskType", taskType),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("taskType", taskType),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
