package cache

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey identifies a composed document.
	DocumentKey(drawingID string, opts DocumentKeyOpts) string
	// ArtifactKey identifies an output rendered from a document, given the
	// hash of the document's encoding.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DocumentKeyOpts are the inputs that change a composed document.
type DocumentKeyOpts struct {
	Config      any     `json:"config"` // drawing parameters
	Paper       string  `json:"paper"`
	Orientation string  `json:"orientation"`
	Margin      float64 `json:"margin"`
	Hatch       any     `json:"hatch"`
	LineWidth   float64 `json:"line_width"`
	MaxTravel   float64 `json:"max_travel"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Title       string `json:"title,omitempty"`
	MarginGuide bool   `json:"margin_guide,omitempty"`
	Precision   int    `json:"precision"`
}

// DefaultKeyer produces "document:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(drawingID string, opts DocumentKeyOpts) string {
	return hashKey("document", drawingID, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}

var _ Keyer = DefaultKeyer{}
