package main

import (
	"context"
	"log/slog"
	"os"

	"citysim/config"
	"citysim/internal/delivery"
	"citysim/internal/delivery/http"
	"citysim/internal/delivery/http/middleware"
	"citysim/internal/delivery/http/router/handler"
	"citysim/internal/domain/service"
	"citysim/internal/infra/auth"
	logs "citysim/internal/infra/log"
	"citysim/internal/infra/persistence"
	"citysim/internal/infra/pubsub"
	"citysim/internal/infra/qrcode"
	"citysim/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			persistence.New,
		),
		pubsub.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			qrcode.New,
			service.NewSystemClock,
			impl.NewEconomyEngine,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewPlayerService,
			impl.NewPlotService,
			impl.NewBusinessService,
			impl.NewIncomeService,
			impl.NewTradeService,
			impl.NewWalletService,
			impl.NewTreasuryService,
			impl.NewSweepService,
			impl.NewDeviceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPlayerHandler,
			handler.NewPlotHandler,
			handler.NewBusinessHandler,
			handler.NewIncomeHandler,
			handler.NewTradeHandler,
			handler.NewWalletHandler,
			handler.NewDeviceHandler,
			handler.NewAdminHandler,
			handler.NewStatsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
