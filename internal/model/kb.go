package model

// KBHit is a citable knowledge-base snippet.
type KBHit struct {
	Title   string `json:"titulo" yaml:"titulo"`
	Excerpt string `json:"trecho" yaml:"trecho"`
	Source  string `json:"fonte" yaml:"fonte"` // Section the snippet was taken from
	URL     string `json:"url" yaml:"url"`
}

// KBSearchResponse is the payload of a knowledge-base search.
type KBSearchResponse struct {
	Hits []KBHit `json:"hits"`
}

// KB search limits.
const (
	KBMinQueryLen = 2
	KBMaxQueryLen = 200
	KBMaxTopK     = 10
	KBDefaultTopK = 3
)

// KBQuery is a validated knowledge-base search request.
type KBQuery struct {
	Query string `json:"q" form:"q" binding:"required,min=2,max=200"`
	TopK  int    `json:"top_k" form:"top_k" binding:"min=1,max=10"`
}
