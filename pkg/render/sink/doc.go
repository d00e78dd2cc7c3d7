// Package sink renders a [scene.Figure] into output formats.
//
// # Overview
//
// A "sink" transforms a backend-neutral figure into bytes:
//
//   - Static: PNG, PDF or SVG drawn with gonum/plot ([RenderStatic])
//   - SVG: interactive SVG with hover highlighting and tooltips ([RenderSVG])
//   - HTML: a standalone page around the interactive SVG ([RenderHTML])
//   - JSON: the scene itself, for caching and external tools ([RenderJSON])
//
// [Render] dispatches on a format name and is what the pipeline calls.
//
// # Static Output
//
// [RenderStatic] draws one gonum plot per chromosome panel, stacked top to
// bottom with heights proportional to each panel's weight, followed by any
// aligned scatter tracks. Exons and shrunk regions are polygons; introns,
// chevrons and separators are lines; labels are right aligned.
//
//	png, err := sink.RenderStatic(fig, sink.FormatPNG, 1600, 800)
//
// # Interactive SVG
//
// [RenderSVG] writes the SVG by hand so every glyph can carry its tooltip:
//
//	svg := sink.RenderSVG(fig, sink.WithTooltips(), sink.WithHighlight())
//
// Hovering an exon highlights the whole gene, hovering a legend entry
// highlights every exon with that color tag.
//
// # JSON Output
//
// [RenderJSON] and [ReadJSON] round-trip the figure, so a cached scene can be
// rendered again in any format without repeating data preparation.
//
// [scene.Figure]: github.com/matzehuels/rangeplot/pkg/render/scene.Figure
package sink
