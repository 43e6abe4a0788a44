//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/testshard/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideOutputWriter,
	ProvideTraceID,
	ProvideMetricsCollector,
	ProvideTracerProvider,
	ProvideExecutorFactory,
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт App через Wire DI.
// Реализация генерируется в wire_gen.go.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
