package cache

// LayoutKeyOpts holds everything besides the table that changes a layout.
type LayoutKeyOpts struct {
	VizType     string `json:"viz_type"`
	OptionsHash string `json:"options_hash"`
}

// ArtifactKeyOpts holds everything besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Width       int     `json:"width,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	OptionsHash string  `json:"options_hash"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(tableHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns the key for a computed layout.
func (DefaultKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", tableHash, opts)
}

// ArtifactKey returns the key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
