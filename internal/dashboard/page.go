package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/chart"
	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/render"
)

// Element ids of the dashboard page.
const (
	IDKPIEnergy        = "kpi-energy"
	IDKPICost          = "kpi-cost"
	IDKPIAnomalies     = "kpi-anomalies"
	IDKPICritical      = "kpi-critical"
	IDKPIStation       = "kpi-station"
	IDKPIStationEnergy = "kpi-station-energy"

	IDPredictionsChart = "predictionsChart"
	IDScheduleChart    = "scheduleChart"
	IDRankingChart     = "rankingChart"

	IDAnomaliesList = "anomalies-list"
)

// Placeholder shown in text fields no routine has written.
const Placeholder = "--"

type TextNode struct {
	text string
	set  bool
}

func (n *TextNode) SetText(s string) { n.text, n.set = s, true }

func (n *TextNode) Text() string {
	if !n.set {
		return Placeholder
	}
	return n.text
}

func (n *TextNode) Rendered() bool { return n.set }

type Canvas struct {
	cfg *chart.Config
}

func (c *Canvas) Draw(cfg chart.Config) { c.cfg = &cfg }

// Chart is the last drawn configuration, nil while the canvas is blank.
func (c *Canvas) Chart() *chart.Config { return c.cfg }

type Container struct {
	html template.HTML
	set  bool
}

func (c *Container) SetHTML(h template.HTML) { c.html, c.set = h, true }

func (c *Container) HTML() template.HTML { return c.html }

func (c *Container) Rendered() bool { return c.set }

// Page holds every render target of the dashboard. Routines write disjoint
// targets, so a page is safe to share across one cycle's goroutines.
type Page struct {
	Title      string
	texts      map[string]*TextNode
	canvases   map[string]*Canvas
	containers map[string]*Container
}

func NewPage(title string) *Page {
	p := &Page{
		Title:      title,
		texts:      make(map[string]*TextNode),
		canvases:   make(map[string]*Canvas),
		containers: make(map[string]*Container),
	}
	for _, id := range []string{IDKPIEnergy, IDKPICost, IDKPIAnomalies, IDKPICritical, IDKPIStation, IDKPIStationEnergy} {
		p.texts[id] = &TextNode{}
	}
	for _, id := range []string{IDPredictionsChart, IDScheduleChart, IDRankingChart} {
		p.canvases[id] = &Canvas{}
	}
	p.containers[IDAnomaliesList] = &Container{}
	return p
}

// Text returns the text node with the given id, or nil.
func (p *Page) Text(id string) *TextNode { return p.texts[id] }

// Canvas returns the chart canvas with the given id, or nil.
func (p *Page) Canvas(id string) *Canvas { return p.canvases[id] }

// Container returns the markup container with the given id, or nil.
func (p *Page) Container(id string) *Container { return p.containers[id] }

func (p *Page) KPITargets() render.KPITargets {
	return render.KPITargets{
		Energy:        p.texts[IDKPIEnergy],
		Cost:          p.texts[IDKPICost],
		Anomalies:     p.texts[IDKPIAnomalies],
		Critical:      p.texts[IDKPICritical],
		Station:       p.texts[IDKPIStation],
		StationEnergy: p.texts[IDKPIStationEnergy],
	}
}

type pageView struct {
	Title   string
	Texts   map[string]string
	Charts  map[string]template.JS
	Markup  map[string]template.HTML
	Summary []routineView
}

type routineView struct {
	Name  Routine
	State string
}

// Render writes the full HTML document. cycle may be nil.
func (p *Page) Render(w io.Writer, cycle *Cycle) error {
	view := pageView{
		Title:  p.Title,
		Texts:  make(map[string]string, len(p.texts)),
		Charts: make(map[string]template.JS),
		Markup: make(map[string]template.HTML, len(p.containers)),
	}
	for id, n := range p.texts {
		view.Texts[id] = n.Text()
	}
	for id, c := range p.canvases {
		if c.cfg == nil {
			continue
		}
		b, err := json.Marshal(c.cfg)
		if err != nil {
			return fmt.Errorf("marshal chart %s: %w", id, err)
		}
		view.Charts[id] = template.JS(b)
	}
	for id, c := range p.containers {
		view.Markup[id] = c.html
	}
	if cycle != nil {
		for _, r := range Routines {
			view.Summary = append(view.Summary, routineView{Name: r, State: cycle.State(r).String()})
		}
	}
	return pageTmpl.Execute(w, view)
}
