package charts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"budgetboard/internal/models"
)

type countingBackend struct {
	created []ChartHandle
	fail    error
}

func (b *countingBackend) Name() string { return "counting" }

func (b *countingBackend) NewPie(surface *Surface, data *models.PieDataset) (ChartHandle, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	h, err := bindHandle(surface, "pie", "text/plain", []byte(strings.Join(data.Labels, ",")))
	if err != nil {
		return nil, err
	}
	b.created = append(b.created, h)
	return h, nil
}

func testDataset(labels ...string) *models.PieDataset {
	data := make([]float64, len(labels))
	for i := range labels {
		data[i] = float64((i + 1) * 100)
	}
	return &models.PieDataset{
		Labels: labels,
		Datasets: []models.PieSeries{{
			Data:            data,
			BackgroundColor: []string{"#ffcd56", "#ff6384", "#36a2eb"},
		}},
	}
}

func TestPieChartUpdateReplacesHandle(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	surface.Attach()
	backend := &countingBackend{}
	pie := NewPieChart(surface, backend, nil)

	if pie.State() != PieEmpty {
		t.Fatalf("Expected initial state empty, got %s", pie.State())
	}

	if err := pie.Update(testDataset("Food", "Rent")); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	first := pie.Handle()

	if err := pie.Update(testDataset("Food", "Rent", "Fun")); err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if surface.LiveHandles() != 1 {
		t.Errorf("Expected exactly 1 live handle, got %d", surface.LiveHandles())
	}
	if !first.Destroyed() {
		t.Error("Expected first handle to be destroyed")
	}
	if pie.Handle() == first {
		t.Error("Expected a new handle after update")
	}
	if pie.State() != PieRendered {
		t.Errorf("Expected rendered state, got %s", pie.State())
	}
	if got := string(pie.Handle().Content()); got != "Food,Rent,Fun" {
		t.Errorf("Expected content built from full dataset, got %q", got)
	}
	if pie.Handle().Kind() != "pie" {
		t.Errorf("Expected handle kind pie, got %s", pie.Handle().Kind())
	}
}

func TestPieChartSkipsDetachedSurface(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	backend := &countingBackend{}
	pie := NewPieChart(surface, backend, nil)

	if err := pie.Update(testDataset("Food")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(backend.created) != 0 {
		t.Errorf("Expected no handle on a detached surface, got %d", len(backend.created))
	}
	if pie.State() != PieEmpty {
		t.Errorf("Expected state to stay empty, got %s", pie.State())
	}

	surface.Attach()
	if err := pie.Update(testDataset("Food")); err != nil {
		t.Fatalf("update after attach failed: %v", err)
	}
	if len(backend.created) != 1 {
		t.Errorf("Expected one handle after attach, got %d", len(backend.created))
	}
}

func TestPieChartDispose(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	surface.Attach()
	pie := NewPieChart(surface, &countingBackend{}, nil)

	if err := pie.Update(testDataset("Food")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	h := pie.Handle()
	if err := pie.Dispose(); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if surface.LiveHandles() != 0 {
		t.Errorf("Expected no live handles after dispose, got %d", surface.LiveHandles())
	}
	if h.Content() != nil {
		t.Error("Expected destroyed handle to drop its content")
	}
	if pie.State() != PieEmpty || pie.Handle() != nil {
		t.Error("Expected empty state after dispose")
	}
	if err := pie.Dispose(); err != nil {
		t.Errorf("second dispose should be a no-op, got %v", err)
	}
}

func TestPieChartBackendFailure(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	surface.Attach()
	backend := &countingBackend{}
	pie := NewPieChart(surface, backend, nil)

	if err := pie.Update(testDataset("Food")); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	backend.fail = errors.New("boom")
	if err := pie.Update(testDataset("Rent")); err == nil {
		t.Fatal("Expected error from failing backend")
	}
	if pie.State() != PieEmpty {
		t.Errorf("Expected empty state after failed rebuild, got %s", pie.State())
	}
	if surface.LiveHandles() != 0 {
		t.Errorf("Expected old handle destroyed, got %d live", surface.LiveHandles())
	}
}

func TestSurfaceRejectsSecondHandle(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	h, err := bindHandle(surface, "pie", "text/plain", nil)
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if _, err := bindHandle(surface, "pie", "text/plain", nil); !errors.Is(err, ErrSurfaceInUse) {
		t.Errorf("Expected ErrSurfaceInUse, got %v", err)
	}
	_ = h.Destroy()
	_ = h.Destroy()
	if surface.LiveHandles() != 0 {
		t.Errorf("Expected 0 live handles, got %d", surface.LiveHandles())
	}
}

func TestRasterPieBackend(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	h, err := RasterPieBackend{}.NewPie(surface, testDataset("Food", "Rent"))
	if err != nil {
		t.Fatalf("NewPie failed: %v", err)
	}
	defer h.Destroy()

	if h.ContentType() != "image/png" {
		t.Errorf("Expected image/png, got %s", h.ContentType())
	}
	if !bytes.HasPrefix(h.Content(), []byte("\x89PNG")) {
		t.Error("Expected PNG content")
	}
}

func TestRasterPieBackendNothingToDraw(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	ds := &models.PieDataset{Labels: []string{"Food"}, Datasets: []models.PieSeries{{Data: []float64{0}}}}

	h, err := RasterPieBackend{}.NewPie(surface, ds)
	if err != nil {
		t.Fatalf("NewPie failed: %v", err)
	}
	if h.Content() != nil {
		t.Error("Expected no image for an all-zero dataset")
	}
	if surface.LiveHandles() != 1 {
		t.Errorf("Expected the handle to be bound anyway, got %d", surface.LiveHandles())
	}
}

func TestEChartsPieBackend(t *testing.T) {
	surface := NewSurface("myChart", 400, 400)
	h, err := EChartsPieBackend{}.NewPie(surface, testDataset("Food", "Rent"))
	if err != nil {
		t.Fatalf("NewPie failed: %v", err)
	}
	defer h.Destroy()

	html := string(h.Content())
	for _, want := range []string{"echarts", "Food", "Rent", "#ff6384", "400px"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}
}

func TestNewPieBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "raster", false},
		{"raster", "raster", false},
		{"echarts", "echarts", false},
		{"canvas", "", true},
	}
	for _, tt := range tests {
		b, err := NewPieBackend(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewPieBackend(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewPieBackend(%q): %v", tt.name, err)
			continue
		}
		if b.Name() != tt.want {
			t.Errorf("NewPieBackend(%q) = %s, want %s", tt.name, b.Name(), tt.want)
		}
	}
}
