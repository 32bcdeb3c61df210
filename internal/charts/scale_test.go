package charts

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestBandScale(t *testing.T) {
	tests := []struct {
		name      string
		domain    []string
		positions []float64
		bandwidth float64
	}{
		{"single", []string{"Food"}, []float64{80 + (500-500/1.2*0.8)/2}, 500 / 1.2 * 0.8},
		{"two", []string{"Food", "Rent"}, []float64{125.454545454, 352.727272727}, 500 / 2.2 * 0.8},
		{"duplicates collapse", []string{"Food", "Rent", "Food"}, []float64{125.454545454, 352.727272727}, 500 / 2.2 * 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewBandScale(tt.domain, 80, 580, 0.2)
			if !approx(x.Bandwidth(), tt.bandwidth) {
				t.Errorf("bandwidth = %v, want %v", x.Bandwidth(), tt.bandwidth)
			}
			for i, v := range x.Domain() {
				pos, ok := x.Position(v)
				if !ok {
					t.Fatalf("%s missing from domain", v)
				}
				if math.Abs(pos-tt.positions[i]) > 1e-6 {
					t.Errorf("position(%s) = %v, want %v", v, pos, tt.positions[i])
				}
			}
		})
	}
}

func TestBandScaleUnknownValue(t *testing.T) {
	x := NewBandScale([]string{"Food"}, 80, 580, 0.2)
	if _, ok := x.Position("Rent"); ok {
		t.Error("Expected unknown value to be reported")
	}
}

func TestBandScaleEmpty(t *testing.T) {
	x := NewBandScale(nil, 80, 580, 0.2)
	if len(x.Domain()) != 0 {
		t.Errorf("Expected empty domain, got %v", x.Domain())
	}
	if math.IsNaN(x.Bandwidth()) || math.IsInf(x.Bandwidth(), 0) {
		t.Errorf("Expected finite bandwidth, got %v", x.Bandwidth())
	}
}

func TestLinearScaleNice(t *testing.T) {
	tests := []struct {
		d1   float64
		want float64
	}{
		{900, 900},
		{1234, 1300},
		{95, 100},
		{0.96, 1},
		{7, 7},
	}
	for _, tt := range tests {
		y := NewLinearScale(0, tt.d1, 350, 30).Nice(10)
		d0, d1 := y.Domain()
		if d0 != 0 || !approx(d1, tt.want) {
			t.Errorf("Nice([0,%v]) = [%v,%v], want [0,%v]", tt.d1, d0, d1, tt.want)
		}
	}
}

func TestLinearScaleDegenerate(t *testing.T) {
	y := NewLinearScale(0, 0, 350, 30).Nice(10)
	d0, d1 := y.Domain()
	if d0 != 0 || d1 != 0 {
		t.Errorf("Expected degenerate domain to stay [0,0], got [%v,%v]", d0, d1)
	}
	if got := y.Scale(0); got != 350 {
		t.Errorf("Expected 0 to map to bottom, got %v", got)
	}
	ticks := y.Ticks(10)
	if len(ticks) != 1 || ticks[0] != 0 {
		t.Errorf("Expected single zero tick, got %v", ticks)
	}
}

func TestLinearScaleMapping(t *testing.T) {
	y := NewLinearScale(0, 900, 350, 30)
	if got := y.Scale(0); got != 350 {
		t.Errorf("Scale(0) = %v, want 350", got)
	}
	if got := y.Scale(900); got != 30 {
		t.Errorf("Scale(900) = %v, want 30", got)
	}
	if got := y.Scale(450); !approx(got, 190) {
		t.Errorf("Scale(450) = %v, want 190", got)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		start, stop float64
		want        []float64
	}{
		{0, 900, []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900}},
		{0, 2000, []float64{0, 200, 400, 600, 800, 1000, 1200, 1400, 1600, 1800, 2000}},
		{0, 7, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5, 6, 6.5, 7}},
		{0, 1, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{0, 0, []float64{0}},
	}
	for _, tt := range tests {
		got := ticks(tt.start, tt.stop, 10)
		if len(got) != len(tt.want) {
			t.Errorf("ticks(%v,%v) = %v, want %v", tt.start, tt.stop, got, tt.want)
			continue
		}
		for i := range got {
			if !approx(got[i], tt.want[i]) {
				t.Errorf("ticks(%v,%v)[%d] = %v, want %v", tt.start, tt.stop, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTickFormat(t *testing.T) {
	tests := []struct {
		d1    float64
		value float64
		want  string
	}{
		{900, 500, "500"},
		{20000, 15000, "15,000"},
		{1, 0.5, "0.5"},
	}
	for _, tt := range tests {
		format := NewLinearScale(0, tt.d1, 350, 30).TickFormat(10)
		if got := format(tt.value); got != tt.want {
			t.Errorf("format(%v) over [0,%v] = %q, want %q", tt.value, tt.d1, got, tt.want)
		}
	}
}
