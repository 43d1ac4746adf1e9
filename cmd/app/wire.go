//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/solarcook/internal/bootstrap"
	"github.com/yanqian/solarcook/internal/domain/efficiency"
	"github.com/yanqian/solarcook/internal/domain/prediction"
	"github.com/yanqian/solarcook/internal/domain/weather"
	"github.com/yanqian/solarcook/internal/infra/config"
	"github.com/yanqian/solarcook/internal/infra/geo/google"
	"github.com/yanqian/solarcook/internal/infra/solar/nasapower"
	"github.com/yanqian/solarcook/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/solarcook/internal/interface/http"
	"github.com/yanqian/solarcook/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMetrics,
		provideModelSource,
		provideRegistry,
		provideEfficiencyConfig,
		provideWeatherConfig,
		provideGeocoder,
		provideStationNamer,
		provideIrradianceClient,
		provideWeatherCache,
		provideHistoryRepository,
		providePublisher,
		prediction.NewService,
		efficiency.NewService,
		weather.NewService,
		wire.Bind(new(weather.Geocoder), new(*google.Geocoder)),
		wire.Bind(new(weather.StationNamer), new(*openweather.Client)),
		wire.Bind(new(weather.IrradianceClient), new(*nasapower.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
