package nodebuilder

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.uber.org/fx"

	"github.com/celestiaorg/da-matrix/libs/utils"
	"github.com/celestiaorg/da-matrix/nodebuilder/node"
	"github.com/celestiaorg/da-matrix/share/publish"
	"github.com/celestiaorg/da-matrix/store"
)

// ServiceInfo identifies the node with Store under 'path' in exported telemetry.
func ServiceInfo(path string) utils.ServiceInfo {
	return utils.ServiceInfo{
		Namespace:  "da-matrix",
		Name:       "node",
		Version:    node.GetBuildInfo().SemanticVersion,
		InstanceID: path,
	}
}

// WithMetrics enables metrics exporting for the node.
func WithMetrics(metricOpts []otlpmetrichttp.Option) fx.Option {
	return fx.Options(
		fx.Supply(metricOpts),
		fx.Invoke(InitializeMetrics),
		fx.Invoke(node.WithMetrics),
		fx.Invoke(func(s *store.Store) error {
			return s.WithMetrics()
		}),
		fx.Invoke(func(p *publish.Publisher) error {
			return p.WithMetrics()
		}),
	)
}

// InitializeMetrics initializes the global meter provider.
func InitializeMetrics(
	ctx context.Context,
	lc fx.Lifecycle,
	store Store,
	opts []otlpmetrichttp.Option,
) error {
	provider, err := utils.NewMetricProvider(ctx, ServiceInfo(store.Path()), 0, opts...)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	otel.SetMeterProvider(provider)
	return runtime.Start(
		runtime.WithMeterProvider(provider),
		runtime.WithMinimumReadMemStatsInterval(time.Second*30),
	)
}
