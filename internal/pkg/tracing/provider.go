package tracing

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/urlutil"
)

// ShutdownFunc завершает экспорт трейсов, отправляя накопленные span-ы.
type ShutdownFunc func(context.Context) error

// NewNopTracerProvider возвращает shutdown-функцию для выключенного трейсинга.
func NewNopTracerProvider() ShutdownFunc {
	return func(context.Context) error { return nil }
}

// NewTracerProvider настраивает OTLP HTTP exporter с BatchSpanProcessor
// и регистрирует TracerProvider глобально.
// При выключенном трейсинге глобальный provider не меняется (noop OTel по умолчанию).
func NewTracerProvider(cfg Config, logger logging.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled {
		logger.Debug("трейсинг выключен")
		return NewNopTracerProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	// WithEndpoint принимает только host:port.
	endpointHost := cfg.Endpoint
	if u, parseErr := url.Parse(cfg.Endpoint); parseErr == nil && u.Host != "" {
		endpointHost = u.Host
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpointHost),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRate)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("OpenTelemetry трейсинг инициализирован",
		"endpoint", urlutil.MaskURL(cfg.Endpoint),
		"service_name", cfg.ServiceName,
		"sampling_rate", cfg.SamplingRate,
	)
	return tp.Shutdown, nil
}

// ContextWithOTelTraceID связывает trace ID из GenerateTraceID с OTel:
// span-ы, созданные из результата, получают тот же trace ID.
// Невалидный traceIDHex оставляет ctx без изменений.
func ContextWithOTelTraceID(ctx context.Context, traceIDHex string) context.Context {
	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

// newSampler: ParentBased с TraceIDRatioBased и для корня, и для remote parent,
// т.к. ContextWithOTelTraceID всегда выставляет FlagsSampled.
func newSampler(rate float64) sdktrace.Sampler {
	return sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(rate),
		sdktrace.WithRemoteParentSampled(sdktrace.TraceIDRatioBased(rate)),
	)
}
