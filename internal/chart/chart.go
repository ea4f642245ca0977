// Package chart models the subset of Chart.js configuration the dashboard
// draws. A Config marshals to the object passed to `new Chart(ctx, cfg)`.
package chart

import "encoding/json"

const (
	TypeLine = "line"
	TypeBar  = "bar"
)

type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset values are pointers so a missing point is sent as null.
type Dataset struct {
	Label           string     `json:"label"`
	Data            []*float64 `json:"data"`
	BorderColor     string     `json:"borderColor,omitempty"`
	BackgroundColor Colors     `json:"backgroundColor,omitempty"`
	Fill            bool       `json:"fill,omitempty"`
	Tension         float64    `json:"tension,omitempty"`
	YAxisID         string     `json:"yAxisID,omitempty"`
}

// Colors is one colour for the whole dataset or one per data point.
type Colors []string

func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

type Options struct {
	Responsive          bool             `json:"responsive"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
	IndexAxis           string           `json:"indexAxis,omitempty"`
	Plugins             *Plugins         `json:"plugins,omitempty"`
	Scales              map[string]Scale `json:"scales,omitempty"`
}

type Plugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Display bool `json:"display"`
}

type Scale struct {
	Type        string `json:"type,omitempty"`
	Display     bool   `json:"display,omitempty"`
	Position    string `json:"position,omitempty"`
	BeginAtZero bool   `json:"beginAtZero,omitempty"`
	Title       *Title `json:"title,omitempty"`
	Grid        *Grid  `json:"grid,omitempty"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Grid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

// Responsive returns the options every dashboard chart starts from.
func Responsive() Options {
	return Options{Responsive: true, MaintainAspectRatio: true}
}
