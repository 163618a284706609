package ocr

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/invtrack/inventory-golang/internal/models"
)

var _ = Describe("Classify", func() {
	It("suggests add_new at or below the match threshold", func() {
		Expect(Classify(0)).To(Equal(ActionAddNew))
		Expect(Classify(0.3)).To(Equal(ActionAddNew))
	})

	It("suggests update above the match threshold", func() {
		Expect(Classify(0.30001)).To(Equal(ActionUpdate))
		Expect(Classify(0.5)).To(Equal(ActionUpdate))
		Expect(Classify(0.7)).To(Equal(ActionUpdate))
		Expect(Classify(1)).To(Equal(ActionUpdate))
	})
})

var _ = Describe("ConfidenceFor", func() {
	It("labels scores above 0.7 as high", func() {
		Expect(ConfidenceFor(0.71)).To(Equal("high"))
		Expect(ConfidenceFor(1)).To(Equal("high"))
	})

	It("labels the mid band as possible", func() {
		Expect(ConfidenceFor(0.31)).To(Equal("possible"))
		Expect(ConfidenceFor(0.7)).To(Equal("possible"))
	})

	It("labels scores at or below 0.3 as no match", func() {
		Expect(ConfidenceFor(0.3)).To(BeEmpty())
		Expect(ConfidenceFor(0)).To(BeEmpty())
	})
})

var _ = Describe("NameSimilarity", func() {
	It("scores identical names as 1", func() {
		Expect(NameSimilarity("Widget A", "Widget A")).To(Equal(1.0))
	})

	It("ignores case, punctuation and extra whitespace", func() {
		Expect(NameSimilarity("widget   a", "Widget-A")).To(Equal(1.0))
	})

	It("scores unrelated names as 0", func() {
		Expect(NameSimilarity("Gadget B", "Widget A")).To(Equal(0.0))
	})

	It("scores partial word overlap proportionally", func() {
		// one of two words shared
		Expect(NameSimilarity("Tomato Sauce", "Tomato Paste")).To(Equal(0.5))
	})

	It("tolerates small OCR misspellings within a word", func() {
		Expect(NameSimilarity("Chese", "Cheese")).To(Equal(1.0))
	})

	It("returns 0 when either name has no words", func() {
		Expect(NameSimilarity("", "Widget A")).To(Equal(0.0))
		Expect(NameSimilarity("Widget A", "")).To(Equal(0.0))
	})
})

var _ = Describe("MatchItems", func() {
	var (
		candidates []CandidateLineItem
		items      []models.Item
		results    []MatchResult
	)

	JustBeforeEach(func() {
		results = MatchItems(candidates, items)
	})

	When("one candidate matches exactly and one matches nothing", func() {
		BeforeEach(func() {
			candidates = []CandidateLineItem{
				{Name: "Widget A", Quantity: 10, Unit: "pcs"},
				{Name: "Gadget B", Quantity: 3, Unit: "pcs"},
			}
			items = []models.Item{
				{ID: 1, Name: "Widget A", Quantity: 4, Unit: "pcs"},
			}
		})

		It("returns one result per candidate, in candidate order", func() {
			Expect(results).To(HaveLen(2))
			Expect(results[0].CandidateIndex).To(Equal(0))
			Expect(results[1].CandidateIndex).To(Equal(1))
		})

		It("links the exact match with score 1 and suggests update", func() {
			Expect(results[0].MatchedItemID).NotTo(BeNil())
			Expect(*results[0].MatchedItemID).To(Equal(int64(1)))
			Expect(results[0].Score).To(BeNumerically("~", 1.0))
			Expect(results[0].SuggestedAction).To(Equal(ActionUpdate))
			Expect(results[0].Confidence).To(Equal("high"))
		})

		It("suggests add_new with score 0 for the unmatched candidate", func() {
			Expect(results[1].MatchedItemID).To(BeNil())
			Expect(results[1].Score).To(BeZero())
			Expect(results[1].SuggestedAction).To(Equal(ActionAddNew))
		})
	})

	When("a candidate matches an item only partially", func() {
		BeforeEach(func() {
			candidates = []CandidateLineItem{{Name: "Tomato Sauce", Quantity: 2, Unit: "pcs"}}
			items = []models.Item{{ID: 7, Name: "Tomato Paste"}}
		})

		It("still suggests update, flagged as a possible match", func() {
			Expect(results[0].MatchedItemID).NotTo(BeNil())
			Expect(results[0].Score).To(Equal(0.5))
			Expect(results[0].SuggestedAction).To(Equal(ActionUpdate))
			Expect(results[0].Confidence).To(Equal("possible"))
		})
	})

	When("two items tie on score", func() {
		var older, newer time.Time

		BeforeEach(func() {
			older = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			newer = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			candidates = []CandidateLineItem{{Name: "Widget A", Quantity: 1, Unit: "pcs"}}
			items = []models.Item{
				{ID: 1, Name: "Widget A", LastUpdated: older},
				{ID: 2, Name: "Widget A", LastUpdated: newer},
			}
		})

		It("prefers the most recently updated item", func() {
			Expect(*results[0].MatchedItemID).To(Equal(int64(2)))
		})

		It("prefers it regardless of inventory order", func() {
			items[0], items[1] = items[1], items[0]
			reordered := MatchItems(candidates, items)
			Expect(*reordered[0].MatchedItemID).To(Equal(int64(2)))
		})
	})

	When("the inventory is empty", func() {
		BeforeEach(func() {
			candidates = []CandidateLineItem{{Name: "Widget A", Quantity: 1, Unit: "pcs"}}
			items = nil
		})

		It("suggests add_new for every candidate", func() {
			Expect(results).To(HaveLen(1))
			Expect(results[0].SuggestedAction).To(Equal(ActionAddNew))
		})
	})

	When("there are no candidates", func() {
		BeforeEach(func() {
			candidates = nil
			items = []models.Item{{ID: 1, Name: "Widget A"}}
		})

		It("returns an empty result list", func() {
			Expect(results).To(BeEmpty())
		})
	})
})
