package cache

// FigureKeyOpts holds every option that changes a prepared scene.
// Rendering-only settings (format, size) belong in [ArtifactKeyOpts].
type FigureKeyOpts struct {
	IDCols       []string       `json:"id_cols,omitempty"`
	MaxShown     int            `json:"max_shown"`
	Packed       bool           `json:"packed"`
	ColorCols    []string       `json:"color_cols,omitempty"`
	ThicknessCol string         `json:"thickness_col,omitempty"`
	DepthCol     string         `json:"depth_col,omitempty"`
	Shrink       bool           `json:"shrink"`
	ThickCDS     bool           `json:"thick_cds"`
	Theme        string         `json:"theme"`
	Extra        map[string]any `json:"extra,omitempty"` // limits, labels, overrides, templates
}

// ArtifactKeyOpts identifies one rendering of a scene.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// FigureKey keys a prepared scene by input data hash and options.
	FigureKey(dataHash string, opts FigureKeyOpts) string

	// ArtifactKey keys rendered output by scene hash and render options.
	ArtifactKey(figureHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FigureKey generates a key for a prepared scene.
func (DefaultKeyer) FigureKey(dataHash string, opts FigureKeyOpts) string {
	return hashKey("figure", dataHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", figureHash, opts)
}
