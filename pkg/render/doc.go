// Package render groups the figure rendering packages.
//
// # Overview
//
// Rendering happens in two steps. The [scene] subpackage turns a prepared
// frame into a renderer-independent figure: panels, gene glyphs made of boxes
// and lines, labels, legend entries and aligned scatter tracks, all in data
// coordinates. The [sink] subpackage writes that figure out.
//
//	fig := scene.Build(frame, themeOpts, scene.Options{Legend: true})
//	svg := sink.RenderSVG(fig, sink.WithTooltips(), sink.WithHighlight())
//	png, err := sink.RenderStatic(fig, sink.FormatPNG, 1600, 800)
//
// # Output Formats
//
//   - html: a standalone page embedding the interactive SVG
//   - svg: interactive SVG with tooltips and legend highlighting
//   - png, pdf: drawn through gonum/plot
//   - json: the scene itself, readable again with [sink.ReadJSON]
//
// [scene]: github.com/matzehuels/rangeplot/pkg/render/scene
// [sink]: github.com/matzehuels/rangeplot/pkg/render/sink
// [sink.ReadJSON]: github.com/matzehuels/rangeplot/pkg/render/sink#ReadJSON
package render
