package ocr

// CandidateLineItem is one item suggestion parsed out of the raw OCR text.
// Candidates are transient: they live only for the duration of one upload
// session and are never persisted.
type CandidateLineItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Vendor     string  `json:"vendor,omitempty"`
	Confidence string  `json:"confidence"` // 'high' (pattern match) or 'medium' (heuristic)
	Line       string  `json:"line"`       // the raw OCR line this came from
}

// SuggestedAction is the default action offered to the user for a
// candidate. It is a suggestion only, never an automatic mutation.
type SuggestedAction string

const (
	ActionAddNew SuggestedAction = "add_new"
	ActionUpdate SuggestedAction = "update"
)

// MatchResult links one candidate to its best inventory match (if any).
// Score is normalized to [0, 1]: 0 means no plausible match, 1 exact.
type MatchResult struct {
	CandidateIndex  int             `json:"candidate_index"`
	MatchedItemID   *int64          `json:"matched_item_id,omitempty"`
	MatchedItemName string          `json:"matched_item_name,omitempty"`
	Score           float64         `json:"score"`
	Confidence      string          `json:"confidence,omitempty"` // 'high' or 'possible'
	SuggestedAction SuggestedAction `json:"suggested_action"`
}
