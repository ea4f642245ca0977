// Package dashboard runs the five fetch-and-render routines of a render
// cycle against a page.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/api"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/metrics"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/render"
)

// Source fetches the five feeds. *api.Client implements it.
type Source interface {
	KPI(ctx context.Context) (*domain.KPISnapshot, error)
	Predictions(ctx context.Context) ([]domain.PredictionPoint, error)
	Schedule(ctx context.Context) ([]domain.ScheduleSlot, error)
	Anomalies(ctx context.Context) (*domain.AnomalyFeed, error)
	Ranking(ctx context.Context) (*domain.StationRanking, error)
}

type Renderer struct {
	src     Source
	numbers render.NumberFormat
}

func New(src Source, numbers render.NumberFormat) *Renderer {
	return &Renderer{src: src, numbers: numbers}
}

// Render runs every routine concurrently against page and waits for all of
// them. A failing routine never affects the others.
func (r *Renderer) Render(ctx context.Context, page *Page) *Cycle {
	cycle := NewCycle()
	steps := map[Routine]func(context.Context) error{
		RoutineKPI: func(ctx context.Context) error {
			snap, err := r.src.KPI(ctx)
			if err != nil {
				return err
			}
			return render.KPIs(*snap, page.KPITargets(), r.numbers)
		},
		RoutinePredictions: func(ctx context.Context) error {
			points, err := r.src.Predictions(ctx)
			if err != nil {
				return err
			}
			return render.Predictions(points, page.Canvas(IDPredictionsChart))
		},
		RoutineSchedule: func(ctx context.Context) error {
			slots, err := r.src.Schedule(ctx)
			if err != nil {
				return err
			}
			return render.Schedule(slots, page.Canvas(IDScheduleChart))
		},
		RoutineAnomalies: func(ctx context.Context) error {
			feed, err := r.src.Anomalies(ctx)
			if err != nil {
				return err
			}
			return render.Anomalies(*feed, page.Container(IDAnomaliesList))
		},
		RoutineRanking: func(ctx context.Context) error {
			ranking, err := r.src.Ranking(ctx)
			if err != nil {
				return err
			}
			return render.Ranking(*ranking, page.Canvas(IDRankingChart))
		},
	}

	var wg conc.WaitGroup
	for _, routine := range Routines {
		routine := routine
		step := steps[routine]
		wg.Go(func() { r.run(ctx, cycle, routine, step) })
	}
	wg.Wait()
	return cycle
}

func (r *Renderer) run(ctx context.Context, cycle *Cycle, routine Routine, step func(context.Context) error) {
	if err := cycle.advance(routine, Loading, nil); err != nil {
		log.Error().Err(err).Str("routine", string(routine)).Msg("routine already started")
		return
	}
	start := time.Now()

	var err error
	var pc panics.Catcher
	pc.Try(func() { err = step(ctx) })
	if rec := pc.Recovered(); rec != nil {
		err = fmt.Errorf("routine panicked: %w", rec.AsError())
	}

	final := Rendered
	if err != nil {
		final = Failed
		log.Error().
			Err(err).
			Str("routine", string(routine)).
			Str("kind", failureKind(err)).
			Msg("render routine failed")
	}
	_ = cycle.advance(routine, final, err)

	metrics.RoutineDuration.WithLabelValues(string(routine)).Observe(time.Since(start).Seconds())
	metrics.RoutineOutcomes.WithLabelValues(string(routine), final.String()).Inc()
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, api.ErrNetwork):
		return "network"
	case errors.Is(err, api.ErrMalformed), errors.Is(err, render.ErrMalformed):
		return "malformed"
	default:
		return "internal"
	}
}
