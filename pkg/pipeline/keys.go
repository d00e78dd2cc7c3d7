package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/rangeplot/pkg/cache"
)

// FigureKeyOpts returns cache key options for the prepared scene. Every
// option that changes the scene must appear here.
func (o *Options) FigureKeyOpts() cache.FigureKeyOpts {
	extra := map[string]any{
		"chromosomes":   o.Chromosomes,
		"text":          o.Text,
		"text_template": o.TextTemplate,
		"tooltip":       o.Tooltip,
		"legend":        o.Legend,
		"title_chr":     o.TitleChr,
		"y_labels":      o.YLabels,
		"hide_warnings": o.HideWarnings,
		"theme_options": o.ThemeOptions(),
		"tracks":        o.Tracks,
		"size":          [2]int{o.Width, o.Height},
	}
	if !o.Limits.IsZero() {
		extra["limits_all"] = o.Limits.All
		extra["limits_by_chrom"] = o.Limits.ByChrom
		if o.Limits.From != nil {
			data, _ := json.Marshal(o.Limits.From)
			extra["limits_from"] = cache.Hash(data)
		}
	}
	return cache.FigureKeyOpts{
		IDCols:       o.IDCols,
		MaxShown:     o.MaxShown,
		Packed:       !o.Unpacked,
		ColorCols:    o.ColorCols,
		ThicknessCol: o.ThicknessCol,
		DepthCol:     o.DepthCol,
		Shrink:       o.Shrink,
		ThickCDS:     o.ThickCDS,
		Theme:        o.Theme,
		Extra:        extra,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if format == "svg" && o.StaticSVG {
		format = "svg-static"
	}
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
	}
}
