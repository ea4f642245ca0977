package render

import (
	"fmt"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/chart"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

// Predictions draws the forecast curve as one filled line series.
func Predictions(points []domain.PredictionPoint, c ChartTarget) error {
	if points == nil {
		return fmt.Errorf("%w: predictions are not a list", ErrMalformed)
	}

	labels := make([]string, len(points))
	energy := make([]*float64, len(points))
	for i, p := range points {
		labels[i] = hourLabel(p.Hour)
		energy[i] = p.EnergyPredicted
	}

	opts := chart.Responsive()
	opts.Plugins = &chart.Plugins{Legend: chart.Legend{Display: true}}
	opts.Scales = map[string]chart.Scale{
		"y": {BeginAtZero: true},
	}

	c.Draw(chart.Config{
		Type: chart.TypeLine,
		Data: chart.Data{
			Labels: labels,
			Datasets: []chart.Dataset{{
				Label:           "Énergie prévue (kWh)",
				Data:            energy,
				BorderColor:     "#667eea",
				BackgroundColor: chart.Colors{"rgba(102, 126, 234, 0.1)"},
				Fill:            true,
				Tension:         0.4,
			}},
		},
		Options: opts,
	})
	return nil
}
