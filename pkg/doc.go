// Package pkg provides the core libraries for rangeplot, a genomic interval
// plotter.
//
// # Overview
//
// rangeplot draws interval data (GFF, GTF, BED, VCF, TSV) with one panel per
// chromosome. Each gene is a row of exon boxes joined by intron lines, with
// strand arrows where there is room. Long stretches without intervals can be
// shrunk so that distant genes fit in one panel.
//
// # Architecture
//
// The typical data flow:
//
//	Interval files
//	      ↓
//	 [ranges] (read into datasets, one per file)
//	      ↓
//	 [prep] (group genes, assign colors and rows, shrink, limits)
//	      ↓
//	 [render/scene] (panels, glyphs, legend, tracks)
//	      ↓
//	 [render/sink] (HTML, SVG, PNG, PDF, JSON)
//
// [pipeline] runs these stages with caching, and [server] publishes the
// results over HTTP backed by a [store].
//
// # Quick Start
//
//	ds, _ := ranges.ReadFile("genes.gtf")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, []*ranges.Dataset{ds}, pipeline.Options{
//	    IDCols:  []string{"transcript_id"},
//	    Shrink:  true,
//	    Formats: []string{"png"},
//	})
//	os.WriteFile("genes.png", res.Artifacts["png"], 0o644)
//
// # Main Packages
//
// [ranges] - Interval datasets and the GFF/GTF, BED and TSV readers.
//
// [vcf] - VCF reader, INFO field splitting and aligned scatter tracks.
//
// [theme] - Theme options, named themes, colormaps and TOML option files.
//
// [layout] - Row assignment for packed and unpacked genes.
//
// [shrink] - Detection and compression of empty regions.
//
// [prep] - Turns datasets and parameters into a plottable frame.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [observability] - Optional hooks for pipeline, cache and server events.
//
// [errors] - Coded errors shared by every package.
//
// [ranges]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/ranges
// [vcf]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/vcf
// [theme]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/theme
// [layout]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/layout
// [shrink]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/shrink
// [prep]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/prep
// [render/scene]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/render/scene
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/server
// [store]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rangeplot/pkg/errors
package pkg
