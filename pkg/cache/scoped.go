package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so several tenants
// can share one backend. The HTTP server scopes its keys this way when
// it shares a Redis instance with other deployments.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PlacementKey(opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(opts)
}

func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
