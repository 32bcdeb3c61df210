package charts

import (
	"fmt"
	"strconv"

	"budgetboard/internal/logger"
	"budgetboard/internal/models"
)

// BarPalette colors bars by position, cycling after the last entry
var BarPalette = []string{
	"#ff4d4d",
	"#ffac40",
	"#00d5ff",
	"#8cff42",
	"#ff66b2",
	"#490fff",
	"#b266ff",
}

// Margin is the space reserved around the plotting area
type Margin struct {
	Top, Right, Bottom, Left float64
}

// BarLayout is the fixed geometry of the bar chart
type BarLayout struct {
	Width   int
	Height  int
	Margin  Margin
	Padding float64
	Radius  float64
	Ticks   int
}

// DefaultBarLayout is a 600x400 chart with room for rotated category labels
var DefaultBarLayout = BarLayout{
	Width:   600,
	Height:  400,
	Margin:  Margin{Top: 30, Right: 20, Bottom: 50, Left: 80},
	Padding: 0.2,
	Radius:  5,
	Ticks:   10,
}

// BarChart draws budget records as a vertical bar chart
type BarChart struct {
	layout  BarLayout
	palette []string
	log     *logger.Logger
}

// NewBarChart creates a bar chart with the default layout and palette
func NewBarChart(log *logger.Logger) *BarChart {
	if log == nil {
		log = logger.NewNop()
	}
	return &BarChart{
		layout:  DefaultBarLayout,
		palette: BarPalette,
		log:     log,
	}
}

// Layout returns the chart geometry
func (c *BarChart) Layout() BarLayout { return c.layout }

// Color returns the fill for the bar at position i
func (c *BarChart) Color(i int) string {
	if len(c.palette) == 0 {
		return "#000"
	}
	return c.palette[i%len(c.palette)]
}

// Scales builds the horizontal band scale and the niced vertical scale for records
func (c *BarChart) Scales(records []models.BudgetRecord) (*BandScale, *LinearScale) {
	l := c.layout
	x := NewBandScale(models.Titles(records), l.Margin.Left, float64(l.Width)-l.Margin.Right, l.Padding)

	maxBudget := 0.0
	for _, r := range records {
		if r.Budget > maxBudget {
			maxBudget = r.Budget
		}
	}
	y := NewLinearScale(0, maxBudget, float64(l.Height)-l.Margin.Bottom, l.Margin.Top).Nice(l.Ticks)
	return x, y
}

// Render replaces whatever is drawn under container with a fresh chart of records
func (c *BarChart) Render(container *Container, records []models.BudgetRecord) *SceneGraph {
	if removed := container.RemoveSVG(); removed > 0 {
		c.log.Debug("Removed previous bar chart", map[string]interface{}{"container": container.ID, "removed": removed})
	}

	g := c.Build(container.ID, records)
	container.Append(g)

	c.log.Debug("Bar chart rendered", map[string]interface{}{
		"container": container.ID,
		"bars":      len(records),
	})
	return g
}

// Build creates the scene graph for records without touching any container
func (c *BarChart) Build(id string, records []models.BudgetRecord) *SceneGraph {
	l := c.layout
	g := NewSceneGraph(id, l.Width, l.Height)
	x, y := c.Scales(records)
	baseline := float64(l.Height) - l.Margin.Bottom

	g.Root.Add(
		bottomAxis(x, baseline),
		leftAxis(y, l.Margin.Left, l.Ticks),
	)

	bw := x.Bandwidth()
	for i, r := range records {
		pos, _ := x.Position(r.Title)
		top := y.Scale(r.Budget)
		g.Root.Add(&Node{
			Kind:   KindRect,
			Class:  "bar",
			X:      pos,
			Y:      top,
			Width:  bw,
			Height: baseline - top,
			RX:     l.Radius,
			RY:     l.Radius,
			Attrs:  map[string]string{"fill": c.Color(i)},
			Data:   r,
		})
	}

	for _, r := range records {
		pos, _ := x.Position(r.Title)
		g.Root.Add(&Node{
			Kind:  KindText,
			Class: "label",
			X:     pos + bw/2,
			Y:     y.Scale(r.Budget) - 5,
			Text:  strconv.FormatFloat(r.Budget, 'f', -1, 64),
			Attrs: map[string]string{
				"text-anchor": "middle",
				"fill":        "#222",
				"font-size":   "14px",
				"font-weight": "bold",
			},
			Data: r,
		})
	}
	return g
}

const (
	tickSize    = 6
	tickPadding = 3
)

func axisGroup(transform, anchor string) *Node {
	return &Node{
		Kind:      KindGroup,
		Transform: transform,
		Attrs: map[string]string{
			"fill":        "none",
			"font-size":   "10",
			"font-family": "sans-serif",
			"text-anchor": anchor,
		},
	}
}

func bottomAxis(x *BandScale, baseline float64) *Node {
	axis := axisGroup(fmt.Sprintf("translate(0,%s)", num(baseline)), "middle")
	r0, r1 := x.Range()
	axis.Add(&Node{
		Kind:  KindPath,
		Class: "domain",
		D:     fmt.Sprintf("M%s,%dV0H%sV%d", num(r0), tickSize, num(r1), tickSize),
		Attrs: map[string]string{"stroke": "currentColor"},
	})

	center := x.Bandwidth() / 2
	for _, title := range x.Domain() {
		pos, _ := x.Position(title)
		tick := &Node{
			Kind:      KindGroup,
			Class:     "tick",
			Transform: fmt.Sprintf("translate(%s,0)", num(pos+center)),
			Attrs:     map[string]string{"opacity": "1"},
		}
		tick.Add(
			&Node{Kind: KindLine, Y2: tickSize, Attrs: map[string]string{"stroke": "currentColor"}},
			&Node{
				Kind:      KindText,
				Y:         tickSize + tickPadding,
				Text:      title,
				Transform: "rotate(-15)",
				Attrs: map[string]string{
					"fill":  "currentColor",
					"dy":    "0.71em",
					"style": "text-anchor: end; font-size: 14px; fill: #333;",
				},
			},
		)
		axis.Add(tick)
	}
	return axis
}

func leftAxis(y *LinearScale, left float64, count int) *Node {
	axis := axisGroup(fmt.Sprintf("translate(%s,0)", num(left)), "end")
	r0, r1 := y.Range()
	axis.Add(&Node{
		Kind:  KindPath,
		Class: "domain",
		D:     fmt.Sprintf("M%d,%sH0V%sH%d", -tickSize, num(r0), num(r1), -tickSize),
		Attrs: map[string]string{"stroke": "currentColor"},
	})

	format := y.TickFormat(count)
	for _, t := range y.Ticks(count) {
		tick := &Node{
			Kind:      KindGroup,
			Class:     "tick",
			Transform: fmt.Sprintf("translate(0,%s)", num(y.Scale(t))),
			Attrs:     map[string]string{"opacity": "1"},
		}
		tick.Add(
			&Node{Kind: KindLine, X2: -tickSize, Attrs: map[string]string{"stroke": "currentColor"}},
			&Node{
				Kind:  KindText,
				X:     -(tickSize + tickPadding),
				Text:  format(t),
				Attrs: map[string]string{"fill": "currentColor", "dy": "0.32em"},
			},
		)
		axis.Add(tick)
	}
	return axis
}
