package prep

import (
	"strconv"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/ranges"
)

// Params are the data-level plot arguments.
type Params struct {
	IDCols       []string // gene id columns; none plots every interval on its own
	MaxShown     int      // genes kept per dataset; <= 0 keeps all
	Packed       bool
	ColorCols    []string // defaults to IDCols
	ThicknessCol string
	DepthCol     string
	ThickCDS     bool
	Shrink       bool
	Limits       Limits
	Text         bool   // draw gene labels
	TextTemplate string // label template, default the gene id
	Tooltip      string // row tooltip template, default coordinates and id
	YLabels      []string
	Tracks       int      // aligned tracks below the gene panel
	Chromosomes  []string // restrict to these chromosomes
}

// Bounds is an optional lower and upper limit.
type Bounds struct {
	Lo, Hi       int
	HasLo, HasHi bool
}

// Limits sets the plotted range per chromosome. At most one of All, ByChrom
// and From is used, in that order of precedence. Sides left unset fall back
// to the data extent.
type Limits struct {
	All     *Bounds
	ByChrom map[string]Bounds
	From    *ranges.Dataset // min start and max end of its rows per chromosome
}

// IsZero reports whether no limits are set.
func (l Limits) IsZero() bool {
	return l.All == nil && l.ByChrom == nil && l.From == nil
}

// ParseLimits parses the command-line limits syntax:
//
//	100:5000           both bounds for every chromosome
//	:5000              upper bound only
//	1=100:5000,2=:300  per chromosome
func ParseLimits(s string) (Limits, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Limits{}, nil
	}
	if !strings.Contains(s, "=") {
		b, err := parseBounds(s)
		if err != nil {
			return Limits{}, err
		}
		return Limits{All: &b}, nil
	}
	by := make(map[string]Bounds)
	for _, part := range strings.Split(s, ",") {
		chrom, rng, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || chrom == "" {
			return Limits{}, errors.New(errors.ErrCodeInvalidLimits, "expected chrom=lo:hi, got %q", part)
		}
		b, err := parseBounds(rng)
		if err != nil {
			return Limits{}, err
		}
		by[chrom] = b
	}
	return Limits{ByChrom: by}, nil
}

func parseBounds(s string) (Bounds, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return Bounds{}, errors.New(errors.ErrCodeInvalidLimits, "expected lo:hi, got %q", s)
	}
	var b Bounds
	if lo = strings.TrimSpace(lo); lo != "" {
		n, err := strconv.Atoi(lo)
		if err != nil {
			return Bounds{}, errors.Wrap(errors.ErrCodeInvalidLimits, err, "lower limit %q", lo)
		}
		b.Lo, b.HasLo = n, true
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		n, err := strconv.Atoi(hi)
		if err != nil {
			return Bounds{}, errors.Wrap(errors.ErrCodeInvalidLimits, err, "upper limit %q", hi)
		}
		b.Hi, b.HasHi = n, true
	}
	if b.HasLo && b.HasHi && b.Lo >= b.Hi {
		return Bounds{}, errors.New(errors.ErrCodeInvalidLimits, "lower limit %d must be below upper limit %d", b.Lo, b.Hi)
	}
	return b, nil
}

// resolve returns the bounds that apply to chrom, before falling back to the
// data extent.
func (l Limits) resolve(chrom string) Bounds {
	switch {
	case l.All != nil:
		return *l.All
	case l.ByChrom != nil:
		return l.ByChrom[chrom]
	case l.From != nil:
		var b Bounds
		for _, iv := range l.From.Intervals {
			if iv.Chromosome != chrom {
				continue
			}
			if !b.HasLo || iv.Start < b.Lo {
				b.Lo, b.HasLo = iv.Start, true
			}
			if !b.HasHi || iv.End > b.Hi {
				b.Hi, b.HasHi = iv.End, true
			}
		}
		return b
	}
	return Bounds{}
}
