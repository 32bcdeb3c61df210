package charts

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	tickE10 = math.Sqrt(50)
	tickE5  = math.Sqrt(10)
	tickE2  = math.Sqrt(2)
)

// BandScale maps distinct categories onto evenly spaced bands of a continuous range
type BandScale struct {
	domain       []string
	index        map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64

	step      float64
	bandwidth float64
	start     float64
}

// NewBandScale builds a band scale over the distinct values of domain, keeping first-seen order
func NewBandScale(domain []string, r0, r1, padding float64) *BandScale {
	b := &BandScale{
		index:        make(map[string]int, len(domain)),
		r0:           r0,
		r1:           r1,
		paddingInner: padding,
		paddingOuter: padding,
		align:        0.5,
	}
	for _, d := range domain {
		if _, ok := b.index[d]; ok {
			continue
		}
		b.index[d] = len(b.domain)
		b.domain = append(b.domain, d)
	}
	b.rescale()
	return b
}

func (b *BandScale) rescale() {
	n := float64(len(b.domain))
	start, stop := b.r0, b.r1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	if reverse {
		// positions run from the far end
		b.start = start + b.step*(n-1)
		b.step = -b.step
		return
	}
	b.start = start
}

// Position returns the start of the band for value and whether value is in the domain
func (b *BandScale) Position(value string) (float64, bool) {
	i, ok := b.index[value]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth is the width of each band
func (b *BandScale) Bandwidth() float64 { return b.bandwidth }

// Domain returns the distinct categories in order
func (b *BandScale) Domain() []string {
	out := make([]string, len(b.domain))
	copy(out, b.domain)
	return out
}

// Range returns the output extent
func (b *BandScale) Range() (float64, float64) { return b.r0, b.r1 }

// LinearScale maps a continuous numeric domain onto a continuous range
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale creates a linear scale from [d0, d1] to [r0, r1]
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input extent
func (s *LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output extent
func (s *LinearScale) Range() (float64, float64) { return s.r0, s.r1 }

// Degenerate reports whether the domain has zero width
func (s *LinearScale) Degenerate() bool { return s.d0 == s.d1 }

// Scale maps v into the range. A degenerate domain maps everything to r0.
func (s *LinearScale) Scale(v float64) float64 {
	if s.Degenerate() {
		return s.r0
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Nice extends the domain to round values, using the same increments as Ticks(count).
// The domain only changes once the increment settles; a degenerate domain is left as is.
func (s *LinearScale) Nice(count int) *LinearScale {
	if s.Degenerate() {
		return s
	}
	start, stop := s.d0, s.d1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	var prestep float64
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, float64(count))
		if step == prestep {
			if reverse {
				start, stop = stop, start
			}
			s.d0, s.d1 = start, stop
			return s
		}
		if step > 0 {
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		} else if step < 0 {
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		} else {
			break
		}
		prestep = step
	}
	return s
}

// Ticks returns roughly count evenly spaced round values within the domain
func (s *LinearScale) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, float64(count))
}

// TickFormat formats tick values with thousands grouping and just enough decimals for the tick step
func (s *LinearScale) TickFormat(count int) func(float64) string {
	step := math.Abs(tickStep(s.d0, s.d1, float64(count)))
	precision := 0
	if step > 0 && !math.IsInf(step, 0) && !math.IsNaN(step) {
		precision = max(0, -decimalExponent(step))
	}
	p := message.NewPrinter(language.English)
	verb := "%." + strconv.Itoa(precision) + "f"
	return func(v float64) string {
		return p.Sprintf(verb, v)
	}
}

// decimalExponent is the power of ten of the leading digit of v in scientific notation
func decimalExponent(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return 0
	}
	exp, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return 0
	}
	return exp
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= tickE10:
		factor = 10
	case e >= tickE5:
		factor = 5
	case e >= tickE2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// tickIncrement returns a positive step, or the negated inverse of a fractional step
func tickIncrement(start, stop, count float64) float64 {
	_, _, inc := tickSpec(start, stop, count)
	return inc
}

func tickStep(start, stop, count float64) float64 {
	reverse := stop < start
	var inc float64
	if reverse {
		inc = tickIncrement(stop, start, count)
	} else {
		inc = tickIncrement(start, stop, count)
	}
	if inc < 0 {
		inc = 1 / -inc
	}
	if reverse {
		return -inc
	}
	return inc
}

func ticks(start, stop, count float64) []float64 {
	if !(count > 0) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	var i1, i2, inc float64
	if reverse {
		i1, i2, inc = tickSpec(stop, start, count)
	} else {
		i1, i2, inc = tickSpec(start, stop, count)
	}
	if !(i2 >= i1) {
		return nil
	}

	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var v float64
		if inc < 0 {
			v = (i1 + float64(i)) / -inc
		} else {
			v = (i1 + float64(i)) * inc
		}
		if reverse {
			out[n-1-i] = v
		} else {
			out[i] = v
		}
	}
	return out
}
