package main

import (
	"flag"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/logging"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogFormat())

	dir := flag.String("dir", config.DataDir(), "directory holding the analytics pipeline output")
	flag.Parse()

	docs, missing, err := service.LoadFeedFiles(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("read feed files")
	}
	for _, f := range missing {
		ev := log.Warn()
		if f.Required() {
			ev = log.Error()
		}
		ev.Str("file", f.File()).Msg("feed file missing; skipped")
	}
	if len(docs) == 0 {
		log.Fatal().Str("dir", *dir).Msg("nothing to publish")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID(config.MQTTClientID() + "-publisher")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	prefix := config.MQTTTopicPrefix()
	failed := 0
	for _, doc := range docs {
		topic := service.FeedTopic(prefix, doc.Feed)
		token := client.Publish(topic, 1, true, []byte(doc.Payload))
		if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
			failed++
			log.Error().Err(token.Error()).Str("topic", topic).Msg("publish failed")
			continue
		}
		log.Info().Str("topic", topic).Int("bytes", len(doc.Payload)).Msg("published")
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("publishing incomplete")
	}
	log.Info().Int("feeds", len(docs)).Msg("publishing done")
}
