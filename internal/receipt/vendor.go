package receipt

import "regexp"

var (
	companySuffixRe = regexp.MustCompile(`(?i)\b(ltd|limited|llp|plc)\b\.?`)

	// Lines that usually sit next to the letterhead name.
	contactKeywords = []string{"tel", "phone", "email", "@", "sales", "accounts"}
)

// extractVendorName picks the line most likely to be the supplier's trading
// name. Lines carrying a company suffix are candidates; among those the one
// closest to a contact-information line wins, since letterheads cluster the
// name with phone and email. With no suffix anywhere, the first line stands
// in as a weak guess.
func extractVendorName(lines []string) *string {
	var candidates []int
	for i, line := range lines {
		if companySuffixRe.MatchString(line) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		if len(lines) > 0 {
			name := lines[0]
			return &name
		}
		return nil
	}

	var contacts []int
	for i, line := range lines {
		if containsAny(line, contactKeywords) {
			contacts = append(contacts, i)
		}
	}

	best := candidates[0]
	if len(contacts) > 0 {
		bestDist := -1
		for _, c := range candidates {
			for _, k := range contacts {
				dist := c - k
				if dist < 0 {
					dist = -dist
				}
				if bestDist == -1 || dist < bestDist {
					bestDist = dist
					best = c
				}
			}
		}
	}

	name := lines[best]
	return &name
}
