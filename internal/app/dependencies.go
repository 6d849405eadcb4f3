package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lifeweeks/lifeweeks/internal/config"
	"github.com/lifeweeks/lifeweeks/internal/event_bus"
	"github.com/lifeweeks/lifeweeks/internal/utils"
	"github.com/lifeweeks/lifeweeks/pkg/user"
	"github.com/lifeweeks/lifeweeks/pkg/user_weeks"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	WeeksService *weeks.ServiceImpl
	WeeksHandler *weeks.Handler

	UserRepo    user.Repo
	UserService user.Service
	UserHandler *user.Handler

	UserWeeksHandler         *user_weeks.Handler
	UserWeeksProfileListener *user_weeks.ProfileListener
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	return buildDependencies(user.NewUserRepo(db), cfg, &utils.SystemClock{})
}

func buildDependencies(userRepo user.Repo, cfg config.Application, clock utils.Clock) *Dependencies {
	deps := &Dependencies{Clock: clock, EventBus: event_bus.NewEventBus()}

	deps.WeeksService = weeks.NewService(deps.Clock, weeksOptions(cfg.Weeks))
	deps.WeeksHandler = weeks.NewHandler(deps.WeeksService, cfg.Weeks.DefaultLifespan, cfg.Weeks.DefaultTimezone)

	deps.UserRepo = userRepo
	deps.UserService = user.NewUserService(deps.UserRepo, deps.WeeksService, deps.Clock, deps.EventBus)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.UserWeeksHandler = user_weeks.NewHandler(deps.UserService, deps.WeeksService)
	deps.UserWeeksProfileListener = user_weeks.NewProfileListener(deps.WeeksService)
	deps.UserWeeksProfileListener.Subscribe(deps.EventBus)

	return deps
}

func weeksOptions(cfg config.Weeks) weeks.Options {
	options := weeks.DefaultOptions()
	if cfg.DefaultTimezone != "" {
		options.DefaultTimezone = cfg.DefaultTimezone
	}
	options.LenientUTC = cfg.LenientUTC
	if cfg.MaxPageSize > 0 {
		options.MaxPageSize = cfg.MaxPageSize
	}
	return options
}
