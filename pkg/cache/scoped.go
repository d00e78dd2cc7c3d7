package cache

// ScopedKeyer wraps a Keyer with a prefix so several servers (or users) can
// share one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lab-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FigureKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) FigureKey(dataHash string, opts FigureKeyOpts) string {
	return k.prefix + k.inner.FigureKey(dataHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(figureHash, opts)
}
