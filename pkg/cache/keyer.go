package cache

// PlacementKeyOpts are the inputs that determine a centered placement.
// The offset is absent: results are cached in the centered
// frame and translated on the way out.
type PlacementKeyOpts struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Distinct bool    `json:"distinct"`
	Strategy string  `json:"strategy"`
}

// ArtifactKeyOpts are the inputs that determine a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Labels   bool   `json:"labels"`
	Guides   bool   `json:"guides"`
	Graphviz bool   `json:"graphviz"`
}

// Keyer derives cache keys.
type Keyer interface {
	PlacementKey(opts PlacementKeyOpts) string
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// keyVersion is bumped whenever the cached encodings change shape.
const keyVersion = 1

// DefaultKeyer produces unscoped, versioned keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlacementKey returns "placement:<hash>".
func (DefaultKeyer) PlacementKey(opts PlacementKeyOpts) string {
	return hashKey("placement", keyVersion, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, resultHash, opts)
}
