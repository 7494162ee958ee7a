package receipt

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// UK landline and mobile shapes, with or without country code.
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+44\s?\d{4}\s?\d{6}`),
		regexp.MustCompile(`\(?0\d{4}\)?\s?\d{6}`),
		regexp.MustCompile(`\(?0\d{3}\)?\s?\d{3}\s?\d{4}`),
		regexp.MustCompile(`07\d{3}\s?\d{6}`),
	}

	phoneKeywords = []string{"tel", "phone", "telephone", "sales", "accounts"}

	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
		regexp.MustCompile(`\b(\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`),
	}

	dateLayouts = []string{
		"02/01/2006", "02-01-2006",
		"02/01/06", "02-01-06",
		"2006-01-02", "2006/01/02",
	}
)

func extractEmail(lines []string) *string {
	for _, line := range lines {
		if m := emailRe.FindString(line); m != "" {
			email := strings.ToLower(m)
			return &email
		}
	}
	return nil
}

// extractPhone only considers lines that announce themselves as a phone
// number. Bare digit runs elsewhere on an invoice are usually account or
// order references, not numbers to dial.
func extractPhone(lines []string) *string {
	for _, line := range lines {
		if !containsAny(line, phoneKeywords) {
			continue
		}
		for _, re := range phoneRes {
			if m := re.FindString(line); m != "" {
				phone := normalizePhone(m)
				return &phone
			}
		}
	}
	return nil
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case ' ', '\t', '(', ')':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func extractDate(lines []string) *time.Time {
	for _, line := range lines {
		for _, re := range dateRes {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, m[1]); err == nil {
					return &t
				}
			}
		}
	}
	return nil
}
