package publish

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const failedKey = "failed"

var meter = otel.Meter("share/publish")

type metrics struct {
	push          metric.Float64Histogram
	blocks        metric.Int64Counter
	failedCells   metric.Int64Counter
	failedColumns metric.Int64Counter
}

func (p *Publisher) WithMetrics() error {
	push, err := meter.Float64Histogram("publish_push_time_histogram",
		metric.WithDescription("matrix publish time histogram(s)"))
	if err != nil {
		return err
	}

	blocks, err := meter.Int64Counter("publish_blocks_counter",
		metric.WithDescription("amount of published DAG blocks"))
	if err != nil {
		return err
	}

	failedCells, err := meter.Int64Counter("publish_failed_cells_counter",
		metric.WithDescription("amount of cells dropped from published columns"))
	if err != nil {
		return err
	}

	failedColumns, err := meter.Int64Counter("publish_failed_columns_counter",
		metric.WithDescription("amount of columns dropped from published roots"))
	if err != nil {
		return err
	}

	p.metrics = &metrics{
		push:          push,
		blocks:        blocks,
		failedCells:   failedCells,
		failedColumns: failedColumns,
	}
	return nil
}

func (m *metrics) observePush(ctx context.Context, dur time.Duration, res *Result, err error) {
	if m == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	m.push.Record(ctx, dur.Seconds(), metric.WithAttributes(
		attribute.Bool(failedKey, err != nil)))
	if res != nil {
		m.failedCells.Add(ctx, int64(len(res.Failed)))
		m.failedColumns.Add(ctx, int64(len(res.FailedColumns)))
	}
}

func (m *metrics) observeBlock(ctx context.Context) {
	if m == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	m.blocks.Add(ctx, 1)
}
