package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

// AnomalyDisplayLimit caps the cards shown per section. Section headers
// always report the full count.
const AnomalyDisplayLimit = 5

type anomalyCard struct {
	Header   string
	Severity string
	Details  string
	Badges   []string
}

type anomalySection struct {
	Count int
	Cards []anomalyCard
}

type anomalyView struct {
	Empty bool
	Rules anomalySection
	ML    anomalySection
}

var anomaliesTmpl = template.Must(template.New("anomalies").Parse(`
{{- if .Empty -}}
<p style="text-align:center; color:#999;">✓ Aucune anomalie détectée</p>
{{- else -}}
{{- if .Rules.Count}}
<h3 style="color:#028090; margin-top:10px;">🔍 Détection par Règles ({{.Rules.Count}})</h3>
{{- range .Rules.Cards}}
<div class="anomaly-item {{.Severity}}" data-source="rule" style="border-left:4px solid #028090;">
  <div class="anomaly-header">
    {{.Header}}
    <span style="float:right; font-size:11px; color:#666;">RÈGLE</span>
  </div>
  <div class="anomaly-details">{{.Details}}</div>
  <div class="anomaly-alerts">{{range .Badges}}<span class="alert-badge">{{.}}</span>{{end}}</div>
</div>
{{- end}}
{{- end}}
{{- if .ML.Count}}
<h3 style="color:#02C39A; margin-top:20px;">🤖 Détection par IA ({{.ML.Count}})</h3>
{{- range .ML.Cards}}
<div class="anomaly-item" data-source="ml" style="border-left:4px solid #02C39A; background:#f0fdf4;">
  <div class="anomaly-header">
    {{.Header}}
    <span style="float:right; font-size:11px; color:#666;">ML (Isolation Forest)</span>
  </div>
  <div class="anomaly-details">{{.Details}}</div>
  <div class="anomaly-alerts">{{range .Badges}}<span class="alert-badge" style="background:#02C39A;">{{.}}</span>{{end}}</div>
</div>
{{- end}}
{{- end}}
<p style="text-align:center; color:#666; font-size:12px; margin-top:20px; padding:10px; background:#f9f9f9; border-radius:4px;">✓ Approche hybride : Règles (anomalies connues) + ML (patterns inhabituels)</p>
{{- end}}`))

// Anomalies renders the rule-based section, then the ML section, then the
// footer explaining the hybrid approach.
func Anomalies(feed domain.AnomalyFeed, m MarkupTarget) error {
	view, err := buildAnomalyView(feed)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := anomaliesTmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("render anomalies: %w", err)
	}
	m.SetHTML(template.HTML(buf.String()))
	return nil
}

func buildAnomalyView(feed domain.AnomalyFeed) (anomalyView, error) {
	rules, ml := feed.RuleBased, feed.MLBased
	if len(rules)+len(ml) == 0 {
		return anomalyView{Empty: true}, nil
	}

	view := anomalyView{
		Rules: anomalySection{Count: len(rules)},
		ML:    anomalySection{Count: len(ml)},
	}
	for i, a := range head(rules) {
		if a.Alerts == nil {
			return anomalyView{}, fmt.Errorf("%w: rule anomaly %d has no alerts list", ErrMalformed, i)
		}
		view.Rules.Cards = append(view.Rules.Cards, anomalyCard{
			Header:   fmt.Sprintf("%s - %sh - %s", str(a.Date), integer(a.Hour), str(a.Severity)),
			Severity: str(a.Severity),
			Details:  metricsLine(a.Flow, a.Energy, a.Level),
			Badges:   a.Alerts,
		})
	}
	for _, a := range head(ml) {
		view.ML.Cards = append(view.ML.Cards, anomalyCard{
			Header:  fmt.Sprintf("%s - %sh", str(a.Date), integer(a.Hour)),
			Details: metricsLine(a.Flow, a.Energy, a.Level),
			Badges:  []string{str(a.Subtype)},
		})
	}
	return view, nil
}

func head[T any](items []T) []T {
	if len(items) > AnomalyDisplayLimit {
		return items[:AnomalyDisplayLimit]
	}
	return items
}

func metricsLine(flow, energy, level *float64) string {
	return fmt.Sprintf("Débit: %s m³/h | Énergie: %s kWh | Niveau: %s%%", num(flow), num(energy), num(level))
}
