package domain

// Origin marks where an evidence document came from.
type Origin string

const (
	// OriginRetrieval marks documents produced by vector similarity search.
	OriginRetrieval Origin = "retrieval"
	// OriginWeb marks documents produced by web search.
	OriginWeb Origin = "web"
)

// Standard metadata keys carried by evidence documents.
const (
	MetaID         = "id"
	MetaCompany    = "company"
	MetaIndustry   = "industry"
	MetaSimilarity = "similarity"
	MetaURL        = "url"
	MetaSource     = "source"
)

// previewLen bounds the content preview exposed in summaries.
const previewLen = 200

// EvidenceDocument is one retrieved or searched text fragment plus the
// provenance metadata used to ground an answer.
type EvidenceDocument struct {
	Content  string
	Metadata map[string]any
	Origin   Origin
}

// Preview returns a bounded prefix of the document content.
func (d EvidenceDocument) Preview() string {
	if len(d.Content) <= previewLen {
		return d.Content
	}
	return d.Content[:previewLen] + "..."
}

// Summary converts the document into the caller-facing shape.
func (d EvidenceDocument) Summary() SourceSummary {
	return SourceSummary{
		Content:  d.Preview(),
		Metadata: d.Metadata,
		Origin:   d.Origin,
	}
}

// SourceSummary exposes a bounded content preview plus metadata, never the
// raw document.
type SourceSummary struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Origin   Origin         `json:"origin"`
}

// Result is the terminal output of one workflow run.
type Result struct {
	Answer  string          `json:"answer"`
	Sources []SourceSummary `json:"sources"`
	Route   Route           `json:"route"`
	Retries int             `json:"retries"`
}
