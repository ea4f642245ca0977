package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

// ErrMalformedFeed reports a stored feed the KPI summary cannot be built from.
var ErrMalformedFeed = errors.New("malformed feed")

// KPI returns the stored kpi document when one was published, otherwise a
// snapshot derived from the schedule, anomaly and ranking feeds.
func (s *FeedService) KPI(ctx context.Context) (json.RawMessage, error) {
	doc, err := s.store.GetFeed(ctx, domain.FeedKPI)
	if err == nil {
		return doc.Payload, nil
	}
	if !errors.Is(err, domain.ErrFeedNotFound) {
		return nil, err
	}

	snap, err := s.deriveKPI(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

func (s *FeedService) deriveKPI(ctx context.Context) (*domain.KPISnapshot, error) {
	var schedule []domain.ScheduleSlot
	if err := s.decode(ctx, domain.FeedSchedule, &schedule); err != nil {
		return nil, err
	}
	var rules []domain.RuleAnomaly
	if err := s.decode(ctx, domain.FeedAnomalies, &rules); err != nil {
		return nil, err
	}
	var ml []json.RawMessage
	if err := s.decode(ctx, domain.FeedMLAnomalies, &ml); err != nil && !errors.Is(err, domain.ErrFeedNotFound) {
		return nil, err
	}
	var ranking domain.StationRanking
	if err := s.decode(ctx, domain.FeedRanking, &ranking); err != nil {
		return nil, err
	}

	var energy, cost float64
	for i, slot := range schedule {
		if slot.EnergyUsed == nil || slot.CostFCFA == nil {
			return nil, fmt.Errorf("%w: schedule slot %d lacks energy_used or cost_fcfa", ErrMalformedFeed, i)
		}
		energy += *slot.EnergyUsed
		cost += *slot.CostFCFA
	}

	critical := 0
	for _, a := range rules {
		if a.Severity != nil && *a.Severity == domain.SeverityCritical {
			critical++
		}
	}

	if len(ranking.ByEnergyConsumption) == 0 {
		return nil, fmt.Errorf("%w: ranking has no stations", ErrMalformedFeed)
	}
	top := ranking.ByEnergyConsumption[0]

	energy, cost = round2(energy), round2(cost)
	total := len(rules) + len(ml)
	return &domain.KPISnapshot{
		TotalEnergyKWh:    &energy,
		TotalCostFCFA:     &cost,
		TotalAnomalies:    &total,
		CriticalAnomalies: &critical,
		TopStationName:    top.StationName,
		TopStationEnergy:  top.TotalEnergyKWh,
	}, nil
}

func (s *FeedService) decode(ctx context.Context, feed domain.Feed, dst any) error {
	doc, err := s.store.GetFeed(ctx, feed)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(doc.Payload, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedFeed, feed, err)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
