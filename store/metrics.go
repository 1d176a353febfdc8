package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	failedKey = "failed"
	sizeKey   = "block_size"
)

var meter = otel.Meter("store")

type metrics struct {
	put       metric.Float64Histogram
	gc        metric.Float64Histogram
	gcRemoved metric.Int64Counter
	unreg     func() error
}

func (s *Store) WithMetrics() error {
	put, err := meter.Float64Histogram("matrix_store_put_time_histogram",
		metric.WithDescription("matrix store put time histogram(s)"))
	if err != nil {
		return err
	}

	gc, err := meter.Float64Histogram("matrix_store_gc_time_histogram",
		metric.WithDescription("matrix store garbage collection time histogram(s)"))
	if err != nil {
		return err
	}

	gcRemoved, err := meter.Int64Counter("matrix_store_gc_removed_counter",
		metric.WithDescription("matrix store amount of garbage collected blocks"))
	if err != nil {
		return err
	}

	pinned, err := meter.Int64ObservableGauge("matrix_store_pinned_gauge",
		metric.WithDescription("matrix store amount of blocks pinned by live scopes"))
	if err != nil {
		return err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(pinned, int64(s.pinCount()))
		return nil
	}, pinned)
	if err != nil {
		return err
	}

	s.metrics = &metrics{
		put:       put,
		gc:        gc,
		gcRemoved: gcRemoved,
		unreg:     reg.Unregister,
	}
	return nil
}

func (m *metrics) observePut(ctx context.Context, dur time.Duration, size int, failed bool) {
	if m == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	m.put.Record(ctx, dur.Seconds(), metric.WithAttributes(
		attribute.Bool(failedKey, failed),
		attribute.Int(sizeKey, size)))
}

func (m *metrics) observeGC(ctx context.Context, dur time.Duration, removed int, failed bool) {
	if m == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	m.gc.Record(ctx, dur.Seconds(), metric.WithAttributes(
		attribute.Bool(failedKey, failed)))
	m.gcRemoved.Add(ctx, int64(removed))
}

func (m *metrics) close() error {
	if m == nil {
		return nil
	}
	return m.unreg()
}
