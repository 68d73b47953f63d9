package cache

// ScopedKeyer prefixes every key of an inner Keyer. The plotter server uses
// it to keep its entries apart from the CLI's when both share one Redis:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey implements Keyer.
func (k *ScopedKeyer) DocumentKey(drawingID string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(drawingID, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}
