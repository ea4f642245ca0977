package dashboard

import "html/template"

var pageTmpl = template.Must(template.New("dashboard").Parse(pageHTML))

const pageHTML = `<!doctype html>
<html lang="fr">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    :root { --accent: #667eea; --ink: #1f2937; --muted: #6b7280; --card: #fff; --border: #e5e7eb; }
    * { box-sizing: border-box; }
    body { margin: 0; font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif; color: var(--ink); background: #f3f4f6; }
    header { padding: 20px 32px; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #fff; }
    h1 { margin: 0; font-size: 22px; }
    main { padding: 24px 32px 40px; display: grid; gap: 16px; }
    .kpis { display: grid; gap: 12px; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); }
    .card { background: var(--card); border: 1px solid var(--border); border-radius: 10px; padding: 14px 16px; }
    .card .label { color: var(--muted); font-size: 12px; }
    .card .value { font-size: 22px; margin-top: 6px; }
    .card .sub { color: var(--muted); font-size: 12px; margin-top: 4px; }
    .grid { display: grid; gap: 16px; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); }
    .panel { background: var(--card); border: 1px solid var(--border); border-radius: 10px; padding: 16px; }
    .panel h2 { margin: 0 0 12px; font-size: 16px; }
    .anomaly-item { padding: 10px 12px; margin: 8px 0; border-radius: 4px; background: #fafafa; }
    .anomaly-item.CRITIQUE { background: #fef2f2; }
    .anomaly-item.MOYENNE { background: #fff7ed; }
    .anomaly-header { font-weight: 600; font-size: 13px; }
    .anomaly-details { font-size: 12px; color: var(--muted); margin-top: 4px; }
    .alert-badge { display: inline-block; margin: 4px 4px 0 0; padding: 2px 8px; border-radius: 999px; background: #028090; color: #fff; font-size: 11px; }
    footer { padding: 0 32px 24px; color: var(--muted); font-size: 11px; }
  </style>
</head>
<body>
  <header><h1>{{.Title}}</h1></header>
  <main>
    <section class="kpis">
      <div class="card"><div class="label">Énergie totale</div><div class="value" id="kpi-energy">{{index .Texts "kpi-energy"}}</div></div>
      <div class="card"><div class="label">Coût total</div><div class="value" id="kpi-cost">{{index .Texts "kpi-cost"}}</div></div>
      <div class="card"><div class="label">Anomalies</div><div class="value" id="kpi-anomalies">{{index .Texts "kpi-anomalies"}}</div><div class="sub" id="kpi-critical">{{index .Texts "kpi-critical"}}</div></div>
      <div class="card"><div class="label">Station la plus énergivore</div><div class="value" id="kpi-station">{{index .Texts "kpi-station"}}</div><div class="sub" id="kpi-station-energy">{{index .Texts "kpi-station-energy"}}</div></div>
    </section>
    <section class="grid">
      <div class="panel"><h2>Prévisions énergétiques (24h)</h2><canvas id="predictionsChart"></canvas></div>
      <div class="panel"><h2>Planning de pompage optimisé</h2><canvas id="scheduleChart"></canvas></div>
      <div class="panel"><h2>Anomalies détectées</h2><div id="anomalies-list">{{index .Markup "anomalies-list"}}</div></div>
      <div class="panel"><h2>Classement des stations</h2><canvas id="rankingChart"></canvas></div>
    </section>
  </main>
  <footer>{{range .Summary}}<span data-routine="{{.Name}}" data-state="{{.State}}">{{.Name}}: {{.State}}</span> {{end}}</footer>
  <script>
  {{- range $id, $cfg := .Charts}}
    new Chart(document.getElementById({{$id}}).getContext('2d'), {{$cfg}});
  {{- end}}
  </script>
</body>
</html>
`
