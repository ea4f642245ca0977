package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/api"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/dashboard"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/logging"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/render"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/web"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogFormat())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.New(config.APIURL(), config.APITimeout())
	renderer := dashboard.New(client, render.NewNumberFormat(config.DisplayLocale()))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	web.New(renderer, client, "ONEA - Optimisation Énergétique").Register(app)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	addr := config.DashboardAddr()
	log.Info().Str("addr", addr).Str("api", config.APIURL()).Msg("dashboard listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
