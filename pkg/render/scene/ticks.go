package scene

import (
	"strconv"

	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// DefaultTickCount is the number of ticks [CalculateTicks] aims for.
const DefaultTickCount = 10

// CalculateTicks returns ticks from lo in steps of (hi-lo)/(n-1), truncated,
// or 2 when that is zero. The last tick is at or past hi.
func CalculateTicks(lo, hi, n int) []int {
	n = max(n, 2)
	step := (hi - lo) / (n - 1)
	if step <= 0 {
		step = 2
	}
	var out []int
	for v := lo; v < hi; v += step {
		out = append(out, v)
	}
	if len(out) == 0 {
		return []int{lo}
	}
	if last := out[len(out)-1]; last < hi {
		out = append(out, last+step)
	}
	return out
}

// linspace returns n evenly spaced integers from a to b inclusive.
func linspace(a, b, n int) []int {
	if n < 2 {
		return []int{a}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = int(float64(a) + float64(i)*float64(b-a)/float64(n-1))
	}
	return out
}

func xTicks(c *prep.Chrom, setting theme.XTicks) []Tick {
	lo, hi := c.Shrink.Inverse(c.Lo), c.Shrink.Inverse(c.Hi)
	vals := CalculateTicks(lo, hi, DefaultTickCount)

	x := setting.For(c.Name)
	switch {
	case x.Count >= 2:
		vals = linspace(vals[0], vals[len(vals)-1], x.Count)
	case len(x.Values) > 0:
		vals = x.Values
	}

	pos, labels := vals, vals
	if len(c.Shrink.All()) > 0 {
		pos, labels = c.Shrink.RemapTicks(vals, c.Hi)
	}
	ticks := make([]Tick, len(pos))
	for i := range pos {
		ticks[i] = Tick{Value: float64(pos[i]), Label: strconv.Itoa(labels[i])}
	}
	return ticks
}
