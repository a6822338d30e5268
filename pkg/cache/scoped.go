package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple model sources (or
// multiple server instances sharing one Redis) get separate namespaces.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "srv1:")
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

// PackagesKey generates a prefixed key for a source's package list.
func (k *ScopedKeyer) PackagesKey(source string) string {
	return k.prefix + k.inner.PackagesKey(source)
}

// GraphKey generates a prefixed key for one package's export graph.
func (k *ScopedKeyer) GraphKey(source string, packageID int) string {
	return k.prefix + k.inner.GraphKey(source, packageID)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
