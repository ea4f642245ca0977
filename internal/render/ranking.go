package render

import (
	"fmt"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/chart"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

// Bar colours by consumption tier.
const (
	ColorHigh    = "rgba(239, 68, 68, 0.7)"
	ColorMedium  = "rgba(251, 146, 60, 0.7)"
	ColorDefault = "rgba(34, 197, 94, 0.7)"
)

// CategoryColor maps a station category to its bar colour.
func CategoryColor(category string) string {
	switch category {
	case domain.CategoryVeryEnergyHungry:
		return ColorHigh
	case domain.CategoryEnergyHungry:
		return ColorMedium
	default:
		return ColorDefault
	}
}

// Ranking draws one horizontal bar per station, in the order received.
func Ranking(r domain.StationRanking, c ChartTarget) error {
	stations := r.ByEnergyConsumption
	if stations == nil {
		return fmt.Errorf("%w: ranking has no by_energy_consumption list", ErrMalformed)
	}

	labels := make([]string, len(stations))
	energy := make([]*float64, len(stations))
	colors := make(chart.Colors, len(stations))
	for i, s := range stations {
		labels[i] = str(s.StationName)
		energy[i] = s.TotalEnergyKWh
		colors[i] = CategoryColor(s.Category)
	}

	opts := chart.Responsive()
	opts.IndexAxis = "y"
	opts.Plugins = &chart.Plugins{Legend: chart.Legend{Display: false}}
	opts.Scales = map[string]chart.Scale{
		"x": {BeginAtZero: true},
	}

	c.Draw(chart.Config{
		Type: chart.TypeBar,
		Data: chart.Data{
			Labels: labels,
			Datasets: []chart.Dataset{{
				Label:           "Consommation (kWh)",
				Data:            energy,
				BackgroundColor: colors,
			}},
		},
		Options: opts,
	})
	return nil
}
