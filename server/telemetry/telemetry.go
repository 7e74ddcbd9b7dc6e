package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const instrumentationName = "ambush"

// Telemetry はトレースとログのプロバイダをまとめて持ちます。
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	// endpoint が無いときは nil で、ログは送りません
	loggerProvider *sdklog.LoggerProvider
}

// Setup はグローバルなトレーサープロバイダを設定します。
// endpoint が空ならエクスポートせず、スパンはプロセス内で捨てられます。
// endpoint があればスパンとログの両方をOTLPで送ります。
func Setup(ctx context.Context, serviceName, endpoint string) (*Telemetry, error) {
	resource, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	t := &Telemetry{}
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(resource)}
	if endpoint != "" {
		traceExporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(traceExporter))

		logExporter, err := otlploggrpc.New(ctx,
			otlploggrpc.WithEndpoint(endpoint),
			otlploggrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp log exporter: %w", err)
		}
		t.loggerProvider = sdklog.NewLoggerProvider(
			sdklog.WithResource(resource),
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		)
	}

	t.tracerProvider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(t.tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return t, nil
}

// LogHandler は base に加えて、level 以上のレコードをOTLPのログへ流すハンドラを返します。
// ログを送らない設定なら base をそのまま返します。
func (t *Telemetry) LogHandler(base slog.Handler, level slog.Leveler) slog.Handler {
	if t.loggerProvider == nil {
		return base
	}
	exported := otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(t.loggerProvider))
	return fanoutHandler{base, &levelHandler{level: level, Handler: exported}}
}

// Shutdown は溜まっているスパンとログを送り出してからプロバイダを止めます。
func (t *Telemetry) Shutdown(ctx context.Context) error {
	errs := []error{t.tracerProvider.ForceFlush(ctx), t.tracerProvider.Shutdown(ctx)}
	if t.loggerProvider != nil {
		errs = append(errs, t.loggerProvider.ForceFlush(ctx), t.loggerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
