package render

import (
	"fmt"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/chart"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

const (
	pumpRateLabel = "Taux de pompage (%)"
	costLabel     = "Coût (FCFA)"
)

// Schedule draws pump rate (left axis) and cost (right axis) as grouped bars.
func Schedule(slots []domain.ScheduleSlot, c ChartTarget) error {
	if slots == nil {
		return fmt.Errorf("%w: schedule is not a list", ErrMalformed)
	}

	labels := make([]string, len(slots))
	rates := make([]*float64, len(slots))
	costs := make([]*float64, len(slots))
	for i, s := range slots {
		labels[i] = hourLabel(s.Hour)
		rates[i] = s.PumpRate
		costs[i] = s.CostFCFA
	}

	opts := chart.Responsive()
	opts.Scales = map[string]chart.Scale{
		"y": {
			Type:     "linear",
			Display:  true,
			Position: "left",
			Title:    &chart.Title{Display: true, Text: pumpRateLabel},
		},
		"y1": {
			Type:     "linear",
			Display:  true,
			Position: "right",
			Title:    &chart.Title{Display: true, Text: costLabel},
			Grid:     &chart.Grid{DrawOnChartArea: false},
		},
	}

	c.Draw(chart.Config{
		Type: chart.TypeBar,
		Data: chart.Data{
			Labels: labels,
			Datasets: []chart.Dataset{
				{
					Label:           pumpRateLabel,
					Data:            rates,
					BackgroundColor: chart.Colors{"rgba(52, 211, 153, 0.7)"},
					YAxisID:         "y",
				},
				{
					Label:           costLabel,
					Data:            costs,
					BackgroundColor: chart.Colors{"rgba(251, 146, 60, 0.7)"},
					YAxisID:         "y1",
				},
			},
		},
		Options: opts,
	})
	return nil
}
