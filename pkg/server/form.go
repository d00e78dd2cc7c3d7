package server

import (
	"strconv"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// optionsFromForm overlays upload form fields on the server defaults.
// Lists are comma separated; "set" fields are key=value theme overrides.
func optionsFromForm(base pipeline.Options, form map[string][]string) (pipeline.Options, error) {
	o := base
	get := func(k string) (string, bool) {
		v, ok := form[k]
		if !ok || len(v) == 0 {
			return "", false
		}
		return strings.TrimSpace(v[0]), true
	}
	list := func(k string, dst *[]string) {
		if v, ok := get(k); ok && v != "" {
			*dst = splitList(v)
		}
	}
	str := func(k string, dst *string) {
		if v, ok := get(k); ok {
			*dst = v
		}
	}
	flag := func(k string, dst *bool) error {
		v, ok := get(k)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOption, err, "%s must be a boolean", k)
		}
		*dst = b
		return nil
	}

	list("id_cols", &o.IDCols)
	list("color_cols", &o.ColorCols)
	list("y_labels", &o.YLabels)
	list("chromosomes", &o.Chromosomes)
	str("thickness_col", &o.ThicknessCol)
	str("depth_col", &o.DepthCol)
	str("text_template", &o.TextTemplate)
	str("tooltip", &o.Tooltip)
	str("title_chr", &o.TitleChr)
	str("theme", &o.Theme)

	for k, dst := range map[string]*bool{
		"unpacked":      &o.Unpacked,
		"shrink":        &o.Shrink,
		"thick_cds":     &o.ThickCDS,
		"text":          &o.Text,
		"legend":        &o.Legend,
		"hide_warnings": &o.HideWarnings,
	} {
		if err := flag(k, dst); err != nil {
			return o, err
		}
	}

	if v, ok := get("max_shown"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, errors.Wrap(errors.ErrCodeInvalidOption, err, "max_shown must be an integer")
		}
		o.MaxShown = n
	}
	if v, ok := get("limits"); ok && v != "" {
		l, err := prep.ParseLimits(v)
		if err != nil {
			return o, err
		}
		o.Limits = l
	}

	if sets := form["set"]; len(sets) > 0 {
		overrides := make(map[string]any, len(base.Overrides)+len(sets))
		for k, v := range base.Overrides {
			overrides[k] = v
		}
		for _, kv := range sets {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return o, errors.New(errors.ErrCodeInvalidOption, "override %q must be key=value", kv)
			}
			overrides[strings.TrimSpace(k)] = theme.ParseValue(strings.TrimSpace(v))
		}
		o.Overrides = overrides
	}
	return o, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
