package receipt

import "regexp"

var totalRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgrand\s+total\b[\s:]*£?(\d+(?:,\d{3})*\.\d{2})`),
	regexp.MustCompile(`(?i)\bamount\s+due\b[\s:]*£?(\d+(?:,\d{3})*\.\d{2})`),
	regexp.MustCompile(`(?i)\btotal\b[\s:]*£?(\d+(?:,\d{3})*\.\d{2})`),
}

// extractTotal scans for a labelled grand total. The more specific labels
// win over a bare "Total" so a VAT breakdown does not shadow the amount due.
func extractTotal(lines []string) *float64 {
	for _, re := range totalRes {
		for _, line := range lines {
			if m := re.FindStringSubmatch(line); m != nil {
				v := parseFloat(stripCommas(m[1]))
				return &v
			}
		}
	}
	return nil
}

func stripCommas(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
