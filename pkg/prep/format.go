package prep

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/ranges"
)

var placeholder = regexp.MustCompile(`\{([^{}\[\]]+)(?:\[(-?\d*):(-?\d*)\])?\}`)

// Format expands {col} and {col[a:b]} placeholders with the row's column
// values. Slices follow half-open index rules and accept negative offsets
// counted from the end. A template of the form "$col" uses the value of col
// as the template itself.
func Format(template string, iv ranges.Interval) (string, error) {
	if strings.HasPrefix(template, "$") {
		if v, ok := iv.Get(template[1:]); ok {
			template = v
		}
	}

	var ferr error
	out := placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if ferr != nil {
			return m
		}
		sub := placeholder.FindStringSubmatch(m)
		col := strings.TrimSpace(sub[1])
		v, ok := iv.Get(col)
		if !ok {
			ferr = errors.New(errors.ErrCodeInvalidColumn, "template column %q is not present in the data", col)
			return m
		}
		if strings.Contains(m, "[") {
			v = slice(v, sub[2], sub[3])
		}
		return v
	})
	if ferr != nil {
		return "", ferr
	}
	return out, nil
}

func slice(s, a, b string) string {
	r := []rune(s)
	n := len(r)
	lo, hi := 0, n
	if a != "" {
		lo, _ = strconv.Atoi(a)
	}
	if b != "" {
		hi, _ = strconv.Atoi(b)
	}
	if lo < 0 {
		lo += n
	}
	if hi < 0 {
		hi += n
	}
	lo = max(0, min(lo, n))
	hi = max(0, min(hi, n))
	if lo >= hi {
		return ""
	}
	return string(r[lo:hi])
}

// NaturalLess orders strings with embedded numbers numerically, so "chr2"
// sorts before "chr10".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, ra := chunk(a)
		cb, rb := chunk(b)
		if ca != cb {
			na, errA := strconv.Atoi(ca)
			nb, errB := strconv.Atoi(cb)
			if errA == nil && errB == nil {
				if na != nb {
					return na < nb
				}
			} else {
				return ca < cb
			}
		}
		a, b = ra, rb
	}
	return len(a) < len(b)
}

func chunk(s string) (string, string) {
	digit := unicode.IsDigit(rune(s[0]))
	i := 1
	for i < len(s) && unicode.IsDigit(rune(s[i])) == digit {
		i++
	}
	return s[:i], s[i:]
}
