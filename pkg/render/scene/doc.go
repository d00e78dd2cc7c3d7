// Package scene builds a renderer-independent description of a figure.
//
// # Overview
//
// [Build] turns a prepared [prep.Frame] into a [Figure]: one [Panel] per
// chromosome, each holding axes, ticks, shrunk-region shading, dataset
// separators and one [Glyph] per gene. A glyph is everything drawn for a
// gene: its hover bar, intron segments, exon boxes, strand chevrons and
// label.
//
// All coordinates are data coordinates: x in display base pairs (after the
// optional shrink transform) and y in panel rows, with the gene of row r
// centered at r+0.5. Backends in the sink package map them onto pixels.
//
//	frame, _ := prep.Prepare(datasets, params, opts)
//	fig := scene.Build(frame, opts, scene.Options{Title: "Chromosome {chrom}", Text: true})
//	png, _ := sink.RenderStatic(fig, "png", 1600, 800)
//
// # Ticks
//
// Default x ticks come from [CalculateTicks] over the plotted range. The
// x_ticks option overrides them with a count (evenly spaced between the
// first and last default tick), an explicit list, or a per-chromosome table
// of either. When a chromosome is shrunk, ticks inside removed gaps are
// dropped and the rest are placed at display positions while keeping their
// original values as labels.
//
// [prep.Frame]: github.com/matzehuels/rangeplot/pkg/prep.Frame
package scene
