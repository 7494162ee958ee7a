package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crumbworks/bakeops/internal/domain"
)

// Two strategies extract line items. The table strategy looks for a column
// header and parses the rows under it with the full delivery-note grammar.
// When no table is found, per-line fallback patterns of decreasing structure
// run over the whole document.

var (
	headerKeywords  = []string{"description", "item"}
	summaryKeywords = []string{
		"total", "subtotal", "sub-total", "vat", "tax",
		"invoice", "receipt", "date", "code", "qty", "price", "amount",
		"balance", "carriage", "thank",
	}

	// Code, ordered qty, delivered qty, description, unit price, pack, net.
	tableRowRe = regexp.MustCompile(
		`^([A-Za-z0-9][\w/-]*)\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)\s+([A-Za-z][\w\s\-'&.]*?)\s+£?(\d+\.\d{2})\s+(\S+)\s+£?(\d+\.\d{2})$`)

	fallbackRes = []struct {
		re      *regexp.Regexp
		nameIdx int
		qtyIdx  int
		costIdx int
		netIdx  int
	}{
		// Code, qty, description, unit price, pack, net.
		{regexp.MustCompile(`^\w[\w/-]*\s+(\d+(?:\.\d+)?)\s+([A-Za-z][A-Za-z\s\-'&.]+?)\s+£?(\d+\.\d{2})\s+\S+\s+£?(\d+\.\d{2})$`), 2, 1, 3, 4},
		// Qty, description, unit price, net.
		{regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:x\s+)?([A-Za-z][A-Za-z\s\-'&.]+?)\s+£?(\d+\.\d{2})\s+£?(\d+\.\d{2})$`), 2, 1, 3, 4},
		// Qty, description, price.
		{regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:kg|g|l|ml|x)?\s+([A-Za-z][A-Za-z\s\-'&.]+?)\s+£?(\d+\.\d{2})$`), 2, 1, 3, 0},
		// Description, price.
		{regexp.MustCompile(`^([A-Za-z][A-Za-z\s\-'&.]+?)\s+£?(\d+\.\d{2})$`), 1, 0, 0, 2},
	}

	// Bare measurement tokens that leak into the name position. Kept to
	// unambiguous units only, so product names like "Box" still pass.
	unitTokens = map[string]struct{}{
		"cm": {}, "mm": {}, "kg": {}, "g": {}, "ml": {}, "l": {},
		"oz": {}, "lb": {}, "x": {}, "vat": {},
	}
)

func extractLineItems(lines []string) []domain.ReceiptLineItem {
	if items := extractTableItems(lines); len(items) > 0 {
		return items
	}
	return extractPatternItems(lines)
}

// extractTableItems parses the rows beneath a recognized column header until
// the totals section begins.
func extractTableItems(lines []string) []domain.ReceiptLineItem {
	start := -1
	for i, line := range lines {
		if containsAny(line, headerKeywords) {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return nil
	}

	var items []domain.ReceiptLineItem
	for _, line := range lines[start:] {
		if containsAny(line, summaryKeywords) {
			break
		}
		m := tableRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[4])
		if !validItemName(name) {
			continue
		}
		qty := parseFloat(m[3]) // delivered quantity, not ordered
		items = append(items, domain.ReceiptLineItem{
			ItemName:  name,
			Quantity:  qty,
			UnitCost:  parseFloat(m[5]),
			TotalCost: parseFloat(m[7]),
		})
	}
	return items
}

func extractPatternItems(lines []string) []domain.ReceiptLineItem {
	var items []domain.ReceiptLineItem
	for _, line := range lines {
		if containsAny(line, summaryKeywords) {
			continue
		}
		for _, p := range fallbackRes {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := strings.TrimSpace(m[p.nameIdx])
			if !validItemName(name) {
				break
			}
			item := domain.ReceiptLineItem{ItemName: name, Quantity: 1}
			if p.qtyIdx > 0 {
				item.Quantity = parseFloat(m[p.qtyIdx])
			}
			if p.netIdx > 0 {
				item.TotalCost = parseFloat(m[p.netIdx])
			}
			if p.costIdx > 0 {
				item.UnitCost = parseFloat(m[p.costIdx])
			} else if item.Quantity > 0 {
				item.UnitCost = item.TotalCost / item.Quantity
			}
			if p.netIdx == 0 {
				item.TotalCost = item.UnitCost * item.Quantity
			}
			items = append(items, item)
			break
		}
	}
	return items
}

func validItemName(name string) bool {
	if len(name) < 3 {
		return false
	}
	_, isUnit := unitTokens[strings.ToLower(name)]
	return !isUnit
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
