package diag

import "strings"

// suggestionDistance: максимальная дистанция (не включительно) для "Did you mean".
const suggestionDistance = 5

// SuggestAlternatives writes an optional "Did you mean 'x'?" line for the
// closest value and then the full list of values.
func SuggestAlternatives(sb *strings.Builder, got string, values []string) {
	best, bestDist := "", suggestionDistance
	for _, v := range values {
		if d := editDistance(v, got); d < bestDist {
			best, bestDist = v, d
		}
	}
	if best != "" {
		sb.WriteString("Did you mean '")
		sb.WriteString(best)
		sb.WriteString("'?\n")
	}

	sb.WriteString("Possible values: ")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('\'')
		sb.WriteString(v)
		sb.WriteByte('\'')
	}
}

// editDistance is the Levenshtein distance over bytes.
func editDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
