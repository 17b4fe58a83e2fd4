// Package grafana assembles Grafana dashboards whose panel targets are rendered
// with the query builder. The types only cover the subset of the dashboard JSON
// model the rows of this package use.
package grafana

import "encoding/json"

const (
	SortAlphaIgnoreCaseAsc = 5
	Show                   = 0
	HideLabel              = 1
	NullConnected          = "connected"
	Green                  = "#7EB26D"
	Red                    = "#E24D42"
	graphType              = "graph"
	queryTemplateType      = "query"
	customTemplateType     = "custom"
	schemaVersion          = 12
	// sharedCrosshairTooltip is the graphTooltip value that duplicates the crosshair on every panel.
	sharedCrosshairTooltip = 1
)

type Dashboard struct {
	UID           string     `json:"uid"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Tags          []string   `json:"tags"`
	GraphTooltip  int        `json:"graphTooltip"`
	Refresh       string     `json:"refresh"`
	SchemaVersion int        `json:"schemaVersion"`
	Templating    Templating `json:"templating"`
	Rows          []Row      `json:"rows"`
}

// AutoPanelIDs gives every panel without an ID a unique one, continuing after
// the highest ID already set.
func (d *Dashboard) AutoPanelIDs() {
	next := 0
	for _, row := range d.Rows {
		for _, panel := range row.Panels {
			if panel.ID > next {
				next = panel.ID
			}
		}
	}
	for i := range d.Rows {
		for j := range d.Rows[i].Panels {
			if d.Rows[i].Panels[j].ID == 0 {
				next++
				d.Rows[i].Panels[j].ID = next
			}
		}
	}
}

type Row struct {
	Title     string  `json:"title"`
	ShowTitle bool    `json:"showTitle"`
	Collapse  bool    `json:"collapse"`
	Panels    []Panel `json:"panels"`
}

// Targets returns the targets of every panel in the row, in panel order.
func (r Row) Targets() []Target {
	var targets []Target
	for _, p := range r.Panels {
		targets = append(targets, p.Targets...)
	}
	return targets
}

// Panel is a graph panel.
type Panel struct {
	ID              int              `json:"id,omitempty"`
	Type            string           `json:"type"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Span            int              `json:"span,omitempty"`
	Targets         []Target         `json:"targets"`
	YAxes           YAxes            `json:"yaxes"`
	Legend          Legend           `json:"legend"`
	LineWidth       int              `json:"linewidth"`
	Transparent     bool             `json:"transparent"`
	NullPointMode   string           `json:"nullPointMode"`
	SteppedLine     bool             `json:"steppedLine"`
	SeriesOverrides []SeriesOverride `json:"seriesOverrides,omitempty"`
	Tooltip         Tooltip          `json:"tooltip"`
}

// Target is one query of a panel. Expr is a rendered PromQL expression and
// is never parsed back.
type Target struct {
	Expr         string `json:"expr"`
	LegendFormat string `json:"legendFormat,omitempty"`
	RefID        string `json:"refId"`
}

type YAxis struct {
	Format   string `json:"format"`
	Label    string `json:"label,omitempty"`
	Decimals *int   `json:"decimals,omitempty"`
	Show     bool   `json:"show"`
}

// NewYAxis returns a visible axis.
func NewYAxis(label, format string) YAxis {
	return YAxis{Format: format, Label: label, Show: true}
}

// WithDecimals returns a copy of the axis rounding values to n decimals.
func (a YAxis) WithDecimals(n int) YAxis {
	a.Decimals = &n
	return a
}

// YAxes is encoded as the [left, right] array Grafana expects.
type YAxes struct {
	Left  YAxis
	Right YAxis
}

// LeftYAxes uses left for the left axis and a default short axis on the right.
func LeftYAxes(left YAxis) YAxes {
	return YAxes{Left: left, Right: NewYAxis("", "short")}
}

func (y YAxes) MarshalJSON() ([]byte, error) {
	return json.Marshal([]YAxis{y.Left, y.Right})
}

func (y *YAxes) UnmarshalJSON(data []byte) error {
	var axes []YAxis
	if err := json.Unmarshal(data, &axes); err != nil {
		return err
	}
	if len(axes) > 0 {
		y.Left = axes[0]
	}
	if len(axes) > 1 {
		y.Right = axes[1]
	}
	return nil
}

type Legend struct {
	Show     bool `json:"show"`
	HideZero bool `json:"hideZero"`
}

type Tooltip struct {
	Shared    bool   `json:"shared"`
	Sort      int    `json:"sort"`
	ValueType string `json:"value_type"`
}

// DefaultTooltip is a shared, unsorted, individual values tooltip.
func DefaultTooltip() Tooltip {
	return Tooltip{Shared: true, ValueType: "individual"}
}

// SeriesOverride changes how the series matching Alias is drawn.
type SeriesOverride struct {
	Alias     string `json:"alias"`
	Dashes    bool   `json:"dashes"`
	LineWidth int    `json:"linewidth"`
	Color     string `json:"color"`
}

type TemplateCurrent struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

type Template struct {
	Name       string           `json:"name"`
	Label      string           `json:"label"`
	Type       string           `json:"type"`
	Query      string           `json:"query"`
	Current    *TemplateCurrent `json:"current,omitempty"`
	IncludeAll bool             `json:"includeAll"`
	AllValue   string           `json:"allValue,omitempty"`
	Multi      bool             `json:"multi"`
	Regex      string           `json:"regex,omitempty"`
	Hide       int              `json:"hide"`
	Sort       int              `json:"sort"`
	Refresh    int              `json:"refresh"`
}

type Templating struct {
	List []Template `json:"list"`
}
