package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/cloud"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/http"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/logging"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogFormat())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.OpenFeedStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("feed store open failed")
	}
	defer closeStore()

	svcs := service.New(store, config.MQTTTopicPrefix())

	missing, err := svcs.Feeds.MissingFeeds(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not check stored feeds")
	} else if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.File()
		}
		log.Warn().Strs("missing", names).Msg("required feeds not yet published; run the analytics pipeline")
	}

	var refresher httpHandlers.Refresher
	if config.UseCloudServices() {
		lc, err := cloud.NewLambdaClient(ctx, config.AWSRegion(), config.LambdaFunction())
		if err != nil {
			log.Fatal().Err(err).Msg("lambda client init failed")
		}
		refresher = lc
		log.Info().Str("function", config.LambdaFunction()).Msg("analytics refresh enabled")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httpHandlers.Register(app, svcs, refresher)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
