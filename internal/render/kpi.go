package render

import (
	"fmt"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

// KPITargets are the six KPI text fields.
type KPITargets struct {
	Energy        TextTarget
	Cost          TextTarget
	Anomalies     TextTarget
	Critical      TextTarget
	Station       TextTarget
	StationEnergy TextTarget
}

// KPIs writes the snapshot into the KPI fields. The cost must be present
// because it goes through locale formatting; other gaps show "undefined".
func KPIs(s domain.KPISnapshot, t KPITargets, nf NumberFormat) error {
	if s.TotalCostFCFA == nil {
		return fmt.Errorf("%w: kpi snapshot has no total_cost_fcfa", ErrMalformed)
	}

	t.Energy.SetText(num(s.TotalEnergyKWh) + " kWh")
	t.Cost.SetText(nf.Localized(*s.TotalCostFCFA) + " FCFA")
	t.Anomalies.SetText(integer(s.TotalAnomalies))
	t.Critical.SetText(integer(s.CriticalAnomalies) + " critiques")
	t.Station.SetText(str(s.TopStationName))
	t.StationEnergy.SetText(num(s.TopStationEnergy) + " kWh")
	return nil
}
