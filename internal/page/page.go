package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgetboard/internal/charts"
	"budgetboard/internal/fetchers"
	"budgetboard/internal/logger"
	"budgetboard/internal/models"
)

//go:generate mockgen -destination=../mocks/mock_budget_source.go -package=mocks budgetboard/internal/page BudgetSource

// BudgetSource supplies the data behind both charts
type BudgetSource interface {
	FetchPieData(ctx context.Context) (*models.PieDataset, error)
	FetchBarData(ctx context.Context) ([]models.BudgetRecord, error)
}

const (
	PieSurfaceID   = "myChart"
	BarContainerID = "chart"
	PieSize        = 400
)

var (
	ErrClosed     = errors.New("page is closed")
	ErrNotMounted = errors.New("page is not mounted")
)

// Page wires the budget source to the pie and bar charts.
// Every state change happens on the page's event loop, one completion at a time.
type Page struct {
	source BudgetSource
	log    *logger.Logger

	canvas    *charts.Surface
	pie       *charts.PieChart
	container *charts.Container
	bar       *charts.BarChart

	// owned by the event loop
	pieData    *models.PieDataset
	barRecords []models.BudgetRecord
	mounted    bool
	pending    int
	idle       []chan struct{}

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a page and starts its event loop. Close stops it.
func New(source BudgetSource, backend charts.PieBackend, log *logger.Logger) *Page {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithComponent("page")

	canvas := charts.NewSurface(PieSurfaceID, PieSize, PieSize)
	p := &Page{
		source:    source,
		log:       log,
		canvas:    canvas,
		pie:       charts.NewPieChart(canvas, backend, log),
		container: charts.NewContainer(BarContainerID),
		bar:       charts.NewBarChart(log),
		events:    make(chan func()),
		done:      make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Page) loop() {
	for {
		select {
		case fn := <-p.events:
			fn()
		case <-p.done:
			return
		}
	}
}

// do runs fn on the event loop and waits for it to finish
func (p *Page) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case p.events <- task:
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mount attaches the drawing surfaces and starts both fetches.
// A pie dataset loaded before an earlier unmount is drawn again right away.
func (p *Page) Mount(ctx context.Context) error {
	var already bool
	err := p.do(ctx, func() {
		if p.mounted {
			already = true
			return
		}
		p.mounted = true
		p.canvas.Attach()
		p.container.Attach()
		if p.pieData != nil {
			p.renderPie()
		}
		p.pending += 2
	})
	if err != nil {
		return err
	}
	if already {
		p.log.Warn("Page already mounted")
		return nil
	}

	p.log.Info("Page mounted", map[string]interface{}{"pie_backend": p.pie.Backend()})
	p.startFetches(ctx)
	return nil
}

// Unmount tears down the pie handle and detaches both surfaces.
// Fetches still in flight complete against the detached surfaces and draw nothing.
func (p *Page) Unmount(ctx context.Context) error {
	if err := p.do(ctx, p.teardown); err != nil {
		return err
	}
	p.log.Info("Page unmounted")
	return nil
}

// Refresh fetches both datasets again for a mounted page
func (p *Page) Refresh(ctx context.Context) error {
	var mounted bool
	err := p.do(ctx, func() {
		mounted = p.mounted
		if mounted {
			p.pending += 2
		}
	})
	if err != nil {
		return err
	}
	if !mounted {
		return ErrNotMounted
	}
	p.startFetches(ctx)
	return nil
}

// Wait blocks until every fetch started so far has been applied.
// It is safe to call from any number of goroutines while fetches keep starting.
func (p *Page) Wait(ctx context.Context) error {
	ready := make(chan struct{})
	err := p.do(ctx, func() {
		if p.pending == 0 {
			close(ready)
			return
		}
		p.idle = append(p.idle, ready)
	})
	if err != nil {
		return err
	}

	select {
	case <-ready:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears down the charts and stops the event loop. Completions arriving afterwards are dropped.
func (p *Page) Close() {
	p.closeOnce.Do(func() {
		if err := p.do(context.Background(), p.teardown); err != nil {
			p.log.Debug("Skipping teardown on close", map[string]interface{}{"reason": err.Error()})
		}
		close(p.done)
		p.log.Debug("Page closed")
	})
}

// teardown disposes the pie handle and detaches both surfaces. Runs on the event loop.
func (p *Page) teardown() {
	if err := p.pie.Dispose(); err != nil {
		p.log.Error("Failed to dispose pie chart", err)
	}
	p.canvas.Detach()
	p.container.Detach()
	p.mounted = false
}

// startFetches launches both fetches. The caller has already counted them as pending.
func (p *Page) startFetches(ctx context.Context) {
	go p.fetchPie(ctx)
	go p.fetchBar(ctx)
}

func (p *Page) fetchPie(ctx context.Context) {
	data, err := p.source.FetchPieData(ctx)
	p.complete(func() {
		if err != nil {
			p.logFetchFailure("pie", err)
			return
		}
		p.pieData = data
		p.renderPie()
	})
}

func (p *Page) fetchBar(ctx context.Context) {
	records, err := p.source.FetchBarData(ctx)
	p.complete(func() {
		if err != nil {
			p.logFetchFailure("bar", err)
			return
		}
		if !p.container.Attached() {
			p.log.Debug("Bar container detached, dropping data", map[string]interface{}{"records": len(records)})
			return
		}
		p.barRecords = records
		p.bar.Render(p.container, records)
	})
}

// complete hands a fetch result to the event loop regardless of the caller's context
func (p *Page) complete(fn func()) {
	apply := func() {
		fn()
		p.pending--
		if p.pending == 0 {
			for _, ch := range p.idle {
				close(ch)
			}
			p.idle = nil
		}
	}
	if err := p.do(context.Background(), apply); err != nil {
		p.log.Debug("Dropping fetch completion", map[string]interface{}{"reason": err.Error()})
	}
}

func (p *Page) renderPie() {
	if err := p.pie.Update(p.pieData); err != nil {
		p.log.Error("Failed to render pie chart", err, map[string]interface{}{"surface": p.canvas.ID})
	}
}

func (p *Page) logFetchFailure(chart string, err error) {
	fields := map[string]interface{}{"chart": chart}
	if nerr, ok := fetchers.AsNetworkError(err); ok {
		for k, v := range nerr.Fields() {
			fields[k] = v
		}
	}
	p.log.Error("Failed to fetch budget data", err, fields)
}

// Snapshot is a copy of what the page currently shows
type Snapshot struct {
	ID             string
	TakenAt        time.Time
	Mounted        bool
	PieState       charts.PieState
	PieBackend     string
	PieContentType string
	PieContent     []byte
	PieData        *models.PieDataset
	BarSVG         []byte
	BarRecords     []models.BudgetRecord
}

// HasBar reports whether a bar chart has been drawn
func (s *Snapshot) HasBar() bool { return s.BarSVG != nil }

// Snapshot copies the current chart output
func (p *Page) Snapshot(ctx context.Context) (*Snapshot, error) {
	var (
		snap   *Snapshot
		encErr error
	)
	err := p.do(ctx, func() {
		snap = &Snapshot{
			ID:         uuid.NewString(),
			TakenAt:    time.Now().UTC(),
			Mounted:    p.mounted,
			PieState:   p.pie.State(),
			PieBackend: p.pie.Backend(),
			PieData:    p.pieData,
			BarRecords: append([]models.BudgetRecord(nil), p.barRecords...),
		}
		if h := p.pie.Handle(); h != nil {
			snap.PieContentType = h.ContentType()
			snap.PieContent = append([]byte(nil), h.Content()...)
		}
		if g := p.container.SVG(); g != nil {
			snap.BarSVG, encErr = g.SVG()
		}
	})
	if err != nil {
		return nil, err
	}
	if encErr != nil {
		return nil, fmt.Errorf("failed to snapshot bar chart: %w", encErr)
	}
	return snap, nil
}
