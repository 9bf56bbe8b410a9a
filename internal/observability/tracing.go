package observability

import (
	"context"

	"github.com/smallbiznis/giftcert/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// registerTracing installs an OTLP trace provider when tracing is enabled.
// The exporter dials lazily; a missing collector degrades to dropped spans
// rather than a startup failure.
func registerTracing(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) {
	if !cfg.TracingEnabled {
		return
	}

	var provider *sdktrace.TracerProvider

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			exporter, err := otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
				otlptracegrpc.WithInsecure(),
			)
			if err != nil {
				return err
			}

			res, err := resource.New(ctx,
				resource.WithAttributes(
					semconv.ServiceNameKey.String(cfg.AppName),
					semconv.ServiceVersionKey.String(cfg.AppVersion),
					semconv.DeploymentEnvironmentKey.String(cfg.Environment),
				),
			)
			if err != nil {
				return err
			}

			provider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter),
				sdktrace.WithResource(res),
			)
			otel.SetTracerProvider(provider)
			log.Info("tracing enabled", zap.String("endpoint", cfg.OTLPEndpoint))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if provider == nil {
				return nil
			}
			return provider.Shutdown(ctx)
		},
	})
}
