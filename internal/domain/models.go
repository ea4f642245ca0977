package domain

import (
	"encoding/json"
	"time"
)

// KPISnapshot is the headline summary shown in the KPI cards. Absent fields
// stay nil so the view can tell "missing" apart from zero.
type KPISnapshot struct {
	TotalEnergyKWh    *float64 `json:"total_energy_kwh"`
	TotalCostFCFA     *float64 `json:"total_cost_fcfa"`
	TotalAnomalies    *int     `json:"total_anomalies"`
	CriticalAnomalies *int     `json:"critical_anomalies"`
	TopStationName    *string  `json:"top_station_name"`
	TopStationEnergy  *float64 `json:"top_station_energy"`
}

type PredictionPoint struct {
	Date              string   `json:"date,omitempty"`
	Hour              *int     `json:"hour"`
	EnergyPredicted   *float64 `json:"energy_predicted"`
	TempExtPredicted  *float64 `json:"temp_ext_predicted,omitempty"`
	HumidityPredicted *float64 `json:"humidity_predicted,omitempty"`
	HeatAlert         string   `json:"heat_alert,omitempty"`
}

type ScheduleSlot struct {
	Date       string   `json:"date,omitempty"`
	Hour       *int     `json:"hour"`
	PumpAction string   `json:"pump_action,omitempty"`
	PumpRate   *float64 `json:"pump_rate"`
	PriceKWh   *float64 `json:"price_kwh,omitempty"`
	EnergyUsed *float64 `json:"energy_used,omitempty"`
	CostFCFA   *float64 `json:"cost_fcfa"`
	LevelAfter *float64 `json:"level_after,omitempty"`
}

// Rule-based severities.
const (
	SeverityCritical = "CRITIQUE"
	SeverityMedium   = "MOYENNE"
	SeverityLow      = "FAIBLE"
)

// RuleAnomaly was flagged by threshold checks and carries its alert labels.
type RuleAnomaly struct {
	Date     *string  `json:"date"`
	Hour     *int     `json:"hour"`
	Severity *string  `json:"severity"`
	Flow     *float64 `json:"flow"`
	Energy   *float64 `json:"energy"`
	Level    *float64 `json:"level"`
	Alerts   []string `json:"alerts"`
}

// MLAnomaly was flagged by the outlier model; it has a subtype instead of alerts.
type MLAnomaly struct {
	Date    *string  `json:"date"`
	Hour    *int     `json:"hour"`
	Flow    *float64 `json:"flow"`
	Energy  *float64 `json:"energy"`
	Level   *float64 `json:"level"`
	Subtype *string  `json:"subtype"`
}

type AnomalyFeed struct {
	RuleBased []RuleAnomaly   `json:"rule_based"`
	MLBased   []MLAnomaly     `json:"ml_based"`
	Stats     json.RawMessage `json:"stats,omitempty"`
	Total     *int            `json:"total,omitempty"`
}

// Station energy categories used to colour the ranking chart.
const (
	CategoryVeryEnergyHungry = "TRES_ENERGIVORE"
	CategoryEnergyHungry     = "ENERGIVORE"
)

type RankedStation struct {
	Rank           int      `json:"rank,omitempty"`
	StationID      string   `json:"station_id,omitempty"`
	StationName    *string  `json:"station_name"`
	TotalEnergyKWh *float64 `json:"total_energy_kwh"`
	Category       string   `json:"category"`
}

type StationRanking struct {
	ByEnergyConsumption []RankedStation `json:"by_energy_consumption"`
}

// Feed names one precomputed document kind produced by the analytics pipeline.
type Feed string

const (
	FeedKPI          Feed = "kpi"
	FeedPredictions  Feed = "predictions"
	FeedSchedule     Feed = "schedule"
	FeedAnomalies    Feed = "anomalies"
	FeedMLAnomalies  Feed = "ml_anomalies"
	FeedAnomalyStats Feed = "anomaly_stats"
	FeedRanking      Feed = "ranking"
)

// Feeds lists every known feed in publishing order.
var Feeds = []Feed{
	FeedKPI,
	FeedPredictions,
	FeedSchedule,
	FeedAnomalies,
	FeedMLAnomalies,
	FeedAnomalyStats,
	FeedRanking,
}

var feedFiles = map[Feed]string{
	FeedKPI:          "kpi.json",
	FeedPredictions:  "predictions.json",
	FeedSchedule:     "pump_schedule.json",
	FeedAnomalies:    "anomalies.json",
	FeedMLAnomalies:  "ml_anomalies.json",
	FeedAnomalyStats: "hybrid_anomalies_stats.json",
	FeedRanking:      "stations_ranking.json",
}

// ParseFeed returns the feed with the given name.
func ParseFeed(name string) (Feed, bool) {
	f := Feed(name)
	_, ok := feedFiles[f]
	return f, ok
}

// File is the pipeline output file the feed is published from.
func (f Feed) File() string { return feedFiles[f] }

// Required reports whether the feed API cannot serve its endpoint without it.
// ML anomalies and their stats are optional add-ons to the rule-based list.
// KPIs are derived from the other feeds; a stored kpi document only
// overrides the derived snapshot.
func (f Feed) Required() bool {
	return f != FeedMLAnomalies && f != FeedAnomalyStats && f != FeedKPI
}

// FeedDocument is a stored feed payload. The payload is opaque JSON.
type FeedDocument struct {
	Feed      Feed            `json:"feed"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}
