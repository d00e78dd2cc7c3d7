package scene

// Figure is a complete, backend-neutral figure.
type Figure struct {
	Title    string       `json:"title,omitempty"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Style    Style        `json:"style"`
	Panels   []Panel      `json:"panels"`
	Legend   []LegendItem `json:"legend,omitempty"`
	Tracks   []Track      `json:"tracks,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Style carries the theme values backends need that are not baked into
// individual primitives.
type Style struct {
	Background     string  `json:"background"`
	PlotBackground string  `json:"plot_background"`
	PlotBorder     string  `json:"plot_border"`
	GridColor      string  `json:"grid_color"`
	TitleColor     string  `json:"title_color"`
	TitleSize      float64 `json:"title_size"`
	TitleFont      string  `json:"title_font"`
	TextSize       float64 `json:"text_size"`
	TagBackground  string  `json:"tag_background"`
}

// Panel is one chromosome subplot.
type Panel struct {
	Chromosome string   `json:"chromosome"`
	Title      string   `json:"title"`
	XMin       float64  `json:"x_min"`
	XMax       float64  `json:"x_max"`
	YMin       float64  `json:"y_min"`
	YMax       float64  `json:"y_max"`
	Weight     float64  `json:"weight"` // relative panel height
	XTicks     []Tick   `json:"x_ticks"`
	YTicks     []Tick   `json:"y_ticks,omitempty"`
	Shrunk     []Region `json:"shrunk,omitempty"`
	Separators []Line   `json:"separators,omitempty"`
	Glyphs     []Glyph  `json:"glyphs"`
}

// Tick is an axis tick at a data position with its label.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Region is a shaded shrunk gap.
type Region struct {
	X0      float64 `json:"x0"`
	X1      float64 `json:"x1"`
	Fill    string  `json:"fill"`
	Tooltip string  `json:"tooltip"`
}

// Line is a straight segment.
type Line struct {
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Dashed bool    `json:"dashed,omitempty"`
}

// Box is a filled rectangle, usually an exon.
type Box struct {
	X0      float64 `json:"x0"`
	X1      float64 `json:"x1"`
	Y0      float64 `json:"y0"`
	Y1      float64 `json:"y1"`
	Fill    string  `json:"fill"`
	Border  string  `json:"border"`
	Tag     string  `json:"tag,omitempty"`
	Legend  bool    `json:"legend,omitempty"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// Label is a right-aligned text annotation.
type Label struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
	Size float64 `json:"size"`
}

// Glyph is everything drawn for one gene.
type Glyph struct {
	ID       string  `json:"id"`
	Dataset  int     `json:"dataset"`
	Y        float64 `json:"y"`
	Hover    Box     `json:"hover"`
	Introns  []Line  `json:"introns,omitempty"`
	Exons    []Box   `json:"exons"`
	Chevrons []Line  `json:"chevrons,omitempty"`
	Label    *Label  `json:"label,omitempty"`
}

// LegendItem is one entry of the color legend.
type LegendItem struct {
	Tag   string `json:"tag"`
	Color string `json:"color"`
}

// Track is an extra scatter plot aligned under the gene panel.
type Track struct {
	Title      string  `json:"title"`
	TitleSize  float64 `json:"title_size"`
	TitleColor string  `json:"title_color"`
	YLabel     string  `json:"y_label"`
	Height     float64 `json:"height"` // relative to the gene panel
	YSpace     float64 `json:"y_space"`
	YMin       float64 `json:"y_min"`
	YMax       float64 `json:"y_max"`
	Points     []Point `json:"points"`
}

// Point is one scatter marker. X is an original coordinate until [Build]
// maps it into the panel's display space.
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	Tooltip string  `json:"tooltip,omitempty"`
}
