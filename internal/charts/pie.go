package charts

import (
	"fmt"

	"budgetboard/internal/logger"
	"budgetboard/internal/models"
)

// PieState is the lifecycle state of a PieChart
type PieState int

const (
	PieEmpty PieState = iota
	PieRendered
)

func (s PieState) String() string {
	if s == PieRendered {
		return "rendered"
	}
	return "empty"
}

// PieBackend creates pie chart handles bound to a surface
type PieBackend interface {
	Name() string
	NewPie(surface *Surface, data *models.PieDataset) (ChartHandle, error)
}

// PieChart owns the single chart handle of one surface and rebuilds it on every update
type PieChart struct {
	surface *Surface
	backend PieBackend
	handle  ChartHandle
	state   PieState
	log     *logger.Logger
}

// NewPieChart creates an empty pie chart for surface
func NewPieChart(surface *Surface, backend PieBackend, log *logger.Logger) *PieChart {
	if log == nil {
		log = logger.NewNop()
	}
	return &PieChart{
		surface: surface,
		backend: backend,
		log:     log,
	}
}

// Update rebuilds the chart from data. A detached surface is left alone until the
// next update after mount. The previous handle is destroyed before the new one is created.
func (p *PieChart) Update(data *models.PieDataset) error {
	if data == nil {
		return fmt.Errorf("pie dataset is nil")
	}
	if !p.surface.Attached() {
		p.log.Debug("Pie surface not attached, skipping render", map[string]interface{}{"surface": p.surface.ID})
		return nil
	}

	if err := p.destroyHandle(); err != nil {
		return err
	}

	h, err := p.backend.NewPie(p.surface, data)
	if err != nil {
		return fmt.Errorf("failed to create %s pie chart: %w", p.backend.Name(), err)
	}

	p.handle = h
	p.state = PieRendered
	p.log.Debug("Pie chart rendered", map[string]interface{}{
		"surface": p.surface.ID,
		"handle":  h.ID(),
		"slices":  data.Len(),
		"backend": p.backend.Name(),
	})
	return nil
}

// Dispose destroys the current handle and returns the chart to the empty state
func (p *PieChart) Dispose() error {
	return p.destroyHandle()
}

func (p *PieChart) destroyHandle() error {
	if p.handle == nil {
		return nil
	}
	old := p.handle
	if err := old.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy pie handle %s: %w", old.ID(), err)
	}
	p.handle = nil
	p.state = PieEmpty
	p.log.Debug("Pie chart handle destroyed", map[string]interface{}{"handle": old.ID()})
	return nil
}

// State returns the current lifecycle state
func (p *PieChart) State() PieState {
	return p.state
}

// Handle returns the live handle, or nil when empty
func (p *PieChart) Handle() ChartHandle {
	return p.handle
}

// Surface returns the surface the chart draws on
func (p *PieChart) Surface() *Surface {
	return p.surface
}

// Backend returns the backend name
func (p *PieChart) Backend() string {
	return p.backend.Name()
}

// NewPieBackend returns the backend registered under name
func NewPieBackend(name string) (PieBackend, error) {
	switch name {
	case "", "raster":
		return RasterPieBackend{}, nil
	case "echarts":
		return EChartsPieBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown pie backend: %s", name)
	}
}
