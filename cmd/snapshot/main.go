package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/api"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/cloud"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/dashboard"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/logging"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/render"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogFormat())

	out := flag.String("out", "dashboard.html", "output file when cloud services are disabled")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := api.New(config.APIURL(), config.APITimeout())
	renderer := dashboard.New(client, render.NewNumberFormat(config.DisplayLocale()))

	takenAt := time.Now()
	page := dashboard.NewPage("ONEA - Optimisation Énergétique")
	cycle := renderer.Render(ctx, page)

	var buf bytes.Buffer
	if err := page.Render(&buf, cycle); err != nil {
		log.Fatal().Err(err).Msg("page render failed")
	}

	statuses := make([]cloud.RoutineStatus, 0, len(dashboard.Routines))
	for _, r := range dashboard.Routines {
		statuses = append(statuses, cloud.RoutineStatus{
			Routine: string(r),
			State:   cycle.State(r).String(),
			Err:     cycle.Err(r),
		})
	}

	if !config.UseCloudServices() {
		if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
			log.Fatal().Err(err).Str("file", *out).Msg("write snapshot")
		}
		log.Info().Str("file", *out).Msg("snapshot written")
		return
	}

	s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
	if err != nil {
		log.Fatal().Err(err).Msg("s3 client init failed")
	}
	snap, err := s3c.UploadSnapshot(ctx, buf.Bytes(), takenAt)
	if err != nil {
		log.Fatal().Err(err).Msg("snapshot upload failed")
	}
	log.Info().Str("bucket", config.S3Bucket()).Str("key", snap.Key).Msg("snapshot uploaded")

	if config.SNSTopicArn() == "" {
		log.Warn().Msg("AWS_SNS_TOPIC_ARN not set; skipping notification")
		return
	}
	snsc, err := cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn())
	if err != nil {
		log.Fatal().Err(err).Msg("sns client init failed")
	}
	if err := snsc.SendSnapshotReport(ctx, snap, statuses, takenAt); err != nil {
		log.Fatal().Err(err).Msg("snapshot notification failed")
	}
}
