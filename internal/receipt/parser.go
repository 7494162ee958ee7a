// internal/receipt/parser.go
//
// Heuristic parser for OCR-extracted receipt and invoice text. Invoices have
// no fixed layout, so every field is extracted by its own strategy, each a
// pure function over the cleaned line slice, preferring the most structured
// signal available and degrading to weaker ones. A field that cannot be
// extracted stays nil; the parser never fails.
package receipt

import (
	"strings"

	"github.com/crumbworks/bakeops/internal/domain"
)

// Parser runs the extraction strategy chain over raw document text.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts vendor identity, line items and totals from one document.
// Partially legible or garbage input yields a mostly-empty result, never an
// error.
func (p *Parser) Parse(text string) *domain.ParsedReceipt {
	lines := splitLines(text)

	return &domain.ParsedReceipt{
		VendorName:  extractVendorName(lines),
		VendorEmail: extractEmail(lines),
		VendorPhone: extractPhone(lines),
		OrderDate:   extractDate(lines),
		LineItems:   extractLineItems(lines),
		TotalAmount: extractTotal(lines),
	}
}

// ParseAll parses several documents as one logical receipt: line items are
// concatenated, vendor fields come from the first document that yields them.
func (p *Parser) ParseAll(texts []string) *domain.ParsedReceipt {
	merged := &domain.ParsedReceipt{}
	for _, text := range texts {
		merged.Merge(p.Parse(text))
	}
	return merged
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func containsAny(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
