package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/database"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/logging"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/metrics"
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

	prefix := config.MQTTTopicPrefix()
	svcs := service.New(store, prefix)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		feed, err := svcs.Ingest.FromMQTT(ictx, msg.Topic(), msg.Payload())
		label := string(feed)
		if label == "" {
			label = "unknown"
		}
		if err != nil {
			metrics.FeedIngested.WithLabelValues(label, "rejected").Inc()
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
			return
		}
		metrics.FeedIngested.WithLabelValues(label, "stored").Inc()
		log.Info().Str("feed", label).Int("bytes", len(msg.Payload())).Msg("feed stored")
	}

	topic := service.SubscriptionTopic(prefix)
	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID(config.MQTTClientID() + "-ingestor").
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			// Subscriptions are lost on reconnect with a clean session.
			if token := c.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
				log.Error().Err(token.Error()).Str("topic", topic).Msg("subscribe failed")
				return
			}
			log.Info().Str("topic", topic).Msg("subscribed")
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("ingestor stopping")
}
