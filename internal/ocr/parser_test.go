package ocr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseInvoiceItems", func() {
	var (
		text       string
		candidates []CandidateLineItem
	)

	JustBeforeEach(func() {
		candidates = ParseInvoiceItems(text)
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("returns no candidates", func() {
			Expect(candidates).To(BeEmpty())
		})
	})

	When("the text contains only receipt noise", func() {
		BeforeEach(func() {
			text = "Joe's Corner Shop\n123 Main Street\nSubtotal 45.00\nTax 3.60\nTotal 48.60\nThank you for your visit"
		})

		It("returns no candidates", func() {
			Expect(candidates).To(BeEmpty())
		})
	})

	When("a line has the '[name] [quantity] [unit]' shape", func() {
		BeforeEach(func() {
			text = "Cheese 5 CS"
		})

		It("parses name, quantity and unit", func() {
			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Name).To(Equal("Cheese"))
			Expect(candidates[0].Quantity).To(Equal(5.0))
			Expect(candidates[0].Unit).To(Equal("CS"))
		})

		It("marks the candidate as high confidence", func() {
			Expect(candidates[0].Confidence).To(Equal("high"))
		})
	})

	When("a line has a fractional quantity", func() {
		BeforeEach(func() {
			text = "Olive Oil 2.5 L"
		})

		It("parses the decimal quantity", func() {
			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Name).To(Equal("Olive Oil"))
			Expect(candidates[0].Quantity).To(Equal(2.5))
			Expect(candidates[0].Unit).To(Equal("L"))
		})
	})

	When("a line has no unit", func() {
		BeforeEach(func() {
			text = "Milk 2"
		})

		It("defaults the unit to pcs", func() {
			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Unit).To(Equal("pcs"))
		})
	})

	When("quantities use the 'x10' multiplier notation", func() {
		BeforeEach(func() {
			text = "Widget A x10\nGadget B x3"
		})

		It("extracts both candidates with their quantities", func() {
			Expect(candidates).To(HaveLen(2))
			Expect(candidates[0].Name).To(Equal("Widget A"))
			Expect(candidates[0].Quantity).To(Equal(10.0))
			Expect(candidates[1].Name).To(Equal("Gadget B"))
			Expect(candidates[1].Quantity).To(Equal(3.0))
		})

		It("marks the candidates as medium confidence", func() {
			Expect(candidates[0].Confidence).To(Equal("medium"))
		})
	})

	When("a line starts with a number", func() {
		BeforeEach(func() {
			text = "12345 67890"
		})

		It("does not produce a candidate with an empty name", func() {
			Expect(candidates).To(BeEmpty())
		})
	})

	When("item lines are mixed with noise", func() {
		BeforeEach(func() {
			text = "ACME Supplies Invoice\nCheese 5 CS\nFlour 10 kg\nSubtotal 99.00"
		})

		It("keeps only the item lines", func() {
			Expect(candidates).To(HaveLen(2))
			Expect(candidates[0].Name).To(Equal("Cheese"))
			Expect(candidates[1].Name).To(Equal("Flour"))
		})

		It("remembers the raw line for each candidate", func() {
			Expect(candidates[0].Line).To(Equal("Cheese 5 CS"))
		})
	})
})
