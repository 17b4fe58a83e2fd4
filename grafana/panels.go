package grafana

// PanelOption overrides one of the defaults set by Graph.
type PanelOption func(*Panel)

func WithSpan(span int) PanelOption {
	return func(p *Panel) {
		p.Span = span
	}
}

func WithLegend(legend Legend) PanelOption {
	return func(p *Panel) {
		p.Legend = legend
	}
}

func WithLineWidth(width int) PanelOption {
	return func(p *Panel) {
		p.LineWidth = width
	}
}

func WithTransparent(transparent bool) PanelOption {
	return func(p *Panel) {
		p.Transparent = transparent
	}
}

func WithNullPointMode(mode string) PanelOption {
	return func(p *Panel) {
		p.NullPointMode = mode
	}
}

func WithSteppedLine(stepped bool) PanelOption {
	return func(p *Panel) {
		p.SteppedLine = stepped
	}
}

func WithSeriesOverrides(overrides ...SeriesOverride) PanelOption {
	return func(p *Panel) {
		p.SeriesOverrides = append(p.SeriesOverrides, overrides...)
	}
}

func WithTooltip(tooltip Tooltip) PanelOption {
	return func(p *Panel) {
		p.Tooltip = tooltip
	}
}

// Graph returns a graph panel with thin stepped lines, a hidden legend and a transparent
// background. Targets without a RefID get A, B, C...
func Graph(title, description string, targets []Target, yAxes YAxes, opts ...PanelOption) Panel {
	panel := Panel{
		Type:          graphType,
		Title:         title,
		Description:   description,
		Targets:       refIDs(targets),
		YAxes:         yAxes,
		Legend:        Legend{Show: false},
		LineWidth:     1,
		Transparent:   true,
		NullPointMode: NullConnected,
		SteppedLine:   true,
		Tooltip:       DefaultTooltip(),
	}
	for _, opt := range opts {
		opt(&panel)
	}
	return panel
}

func refIDs(targets []Target) []Target {
	out := make([]Target, len(targets))
	for i, t := range targets {
		if t.RefID == "" {
			t.RefID = refID(i)
		}
		out[i] = t
	}
	return out
}

// refID returns A..Z, then AA, AB...
func refID(i int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	id := ""
	for i >= 0 {
		id = string(letters[i%len(letters)]) + id
		i = i/len(letters) - 1
	}
	return id
}
