package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// Keywords indicating a line is likely NOT an inventory item (totals,
// addresses, payment noise, headers). Any line containing one of these is
// skipped outright.
var nonItemKeywords = []string{
	"total", "subtotal", "tax", "vat", "gst", "hst", "amount", "due",
	"thank", "visit", "address", "phone", "tel", "fax", "invoice", "date", "order",
	"cashier", "register", "payment", "change", "balance", "time", "served", "table",
	"shop", "ave", "street", "blvd", "road", "suite", "location", "city", "zip", "state", "country",
}

// itemLinePattern matches the common invoice shape "[name] [quantity] [unit]",
// e.g. "Cheese 5 CS" or "Olive Oil 2.5 L".
var itemLinePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z\s\-]*)\s+([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]*)`)

// numberPattern pulls the numeric part out of a mixed token such as "x10"
// or "10pcs".
var numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// ParseInvoiceItems segments raw OCR text into candidate line items.
// Text with no recognizable items yields an empty slice, never an error;
// the caller presents a "no items detected" state instead of failing.
func ParseInvoiceItems(text string) []CandidateLineItem {
	if text == "" {
		return nil
	}

	var candidates []CandidateLineItem

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || containsNonItemKeyword(line) {
			continue
		}

		// 1. --- Primary pattern: "[name] [quantity] [unit]" ---
		if m := itemLinePattern.FindStringSubmatch(line); m != nil {
			quantity, _ := strconv.ParseFloat(m[2], 64)
			unit := m[3]
			if unit == "" {
				unit = "pcs"
			}
			candidates = append(candidates, CandidateLineItem{
				Name:       strings.TrimSpace(m[1]),
				Quantity:   quantity,
				Unit:       unit,
				Confidence: "high",
				Line:       line,
			})
			continue
		}

		// 2. --- Heuristic fallback ---
		// If the line has at least two words and a numeric token, treat the
		// first numeric token as the quantity and everything before it as
		// the name. Invoices often write quantities as "x10"; the number is
		// extracted out of such tokens. A token whose number cannot be read
		// at all falls back to quantity 1.
		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}
		for i, w := range words {
			if !strings.ContainsAny(w, "0123456789") {
				continue
			}
			if i == 0 {
				break // a leading number means there is no name before it
			}
			quantity := 1.0
			if num := numberPattern.FindString(w); num != "" {
				if q, err := strconv.ParseFloat(num, 64); err == nil {
					quantity = q
				}
			}
			candidates = append(candidates, CandidateLineItem{
				Name:       strings.Join(words[:i], " "),
				Quantity:   quantity,
				Unit:       "pcs",
				Confidence: "medium",
				Line:       line,
			})
			break
		}
	}

	return candidates
}

func containsNonItemKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range nonItemKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
