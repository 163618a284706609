package ocr

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/gosimple/slug"

	"github.com/invtrack/inventory-golang/internal/models"
)

// Score thresholds. These drive the *default* action offered to the user
// in the review screen, never an automatic mutation.
const (
	// MatchThreshold is the minimum score for a candidate to be linked to
	// an existing item at all.
	MatchThreshold = 0.3
	// UpdateThreshold is the score above which a match is considered
	// confident enough to present as a plain update.
	UpdateThreshold = 0.7
)

// wordSimilarityFloor is how close two normalized words must be (by
// levenshtein similarity) to count as the same word. This tolerates OCR
// misspellings ("Chese" for "Cheese") without letting unrelated words
// through.
const wordSimilarityFloor = 0.8

// Classify maps a match score to the default action for a candidate.
// Boundaries are exact: score > 0.7 is a confident update, 0.3 < score
// <= 0.7 is still an update suggestion (flagged as a possible match by
// ConfidenceFor), and score <= 0.3 means the item looks new.
func Classify(score float64) SuggestedAction {
	if score > MatchThreshold {
		return ActionUpdate
	}
	return ActionAddNew
}

// ConfidenceFor labels how strongly a score supports its suggestion.
func ConfidenceFor(score float64) string {
	switch {
	case score > UpdateThreshold:
		return "high"
	case score > MatchThreshold:
		return "possible"
	default:
		return ""
	}
}

// MatchItems ranks every candidate against the current inventory snapshot
// and returns one MatchResult per candidate, in candidate order.
// Ties on score go to the most recently updated item so the suggestion is
// deterministic.
func MatchItems(candidates []CandidateLineItem, items []models.Item) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))

	for idx, candidate := range candidates {
		var best *models.Item
		bestScore := 0.0

		for i := range items {
			item := &items[i]
			score := NameSimilarity(candidate.Name, item.Name)
			if score <= MatchThreshold {
				continue
			}
			if score > bestScore || (score == bestScore && best != nil && item.LastUpdated.After(best.LastUpdated)) {
				best = item
				bestScore = score
			}
		}

		result := MatchResult{
			CandidateIndex:  idx,
			SuggestedAction: ActionAddNew,
		}
		if best != nil {
			id := best.ID
			result.MatchedItemID = &id
			result.MatchedItemName = best.Name
			result.Score = bestScore
			result.Confidence = ConfidenceFor(bestScore)
			result.SuggestedAction = Classify(bestScore)
		}
		results = append(results, result)
	}

	return results
}

// NameSimilarity computes a normalized similarity in [0, 1] between a
// candidate name and an inventory item name: the fraction of distinct
// words shared between the two names, over the larger word count. Word
// comparison is case/punctuation-insensitive and tolerates small OCR
// misspellings.
func NameSimilarity(candidateName, itemName string) float64 {
	candidateWords := normalizedWords(candidateName)
	itemWords := normalizedWords(itemName)
	if len(candidateWords) == 0 || len(itemWords) == 0 {
		return 0
	}

	common := 0
	for word := range candidateWords {
		for other := range itemWords {
			if wordsEqual(word, other) {
				common++
				break
			}
		}
	}

	longer := len(candidateWords)
	if len(itemWords) > longer {
		longer = len(itemWords)
	}

	score := float64(common) / float64(longer)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// normalizedWords lowercases, strips punctuation/diacritics and splits a
// name into its distinct words.
func normalizedWords(name string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Split(slug.Make(name), "-") {
		if w != "" {
			words[w] = struct{}{}
		}
	}
	return words
}

// wordsEqual reports whether two normalized words should count as the same
// word for scoring purposes.
func wordsEqual(a, b string) bool {
	if a == b {
		return true
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return false
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1-float64(dist)/float64(longer) >= wordSimilarityFloor
}
