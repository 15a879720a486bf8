//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SharkScan/internal/usecase"
	"SharkScan/pkg/config"
	"SharkScan/pkg/server"
)

// InitializeApp wires the HTTP service.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}

// InitializeTradeService wires the pipeline without the HTTP layer.
func InitializeTradeService(cfg *config.Config) (*usecase.TradeService, func(), error) {
	wire.Build(PipelineSet)
	return nil, nil, nil
}
