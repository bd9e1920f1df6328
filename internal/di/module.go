package di

import (
	"go.uber.org/fx"

	"github.com/posdesk/fulfillment/internal/app"
	"github.com/posdesk/fulfillment/internal/clock"
	"github.com/posdesk/fulfillment/internal/config"
	"github.com/posdesk/fulfillment/internal/logger"
	"github.com/posdesk/fulfillment/internal/server/http/handlers"
	"github.com/posdesk/fulfillment/internal/server/http/router"
	"github.com/posdesk/fulfillment/internal/storage/postgres"
	"github.com/posdesk/fulfillment/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.FulfillmentFacade) handlers.FulfillmentFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
