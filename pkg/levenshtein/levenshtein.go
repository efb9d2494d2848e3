// Package levenshtein measures edit distance between identifiers and picks
// the closest match from a candidate set.
package levenshtein

// Distance is the minimum number of single-rune insertions, deletions or
// substitutions that turn a into b.
func Distance(a, b string) int {
	src, dst := []rune(a), []rune(b)
	if len(src) < len(dst) {
		src, dst = dst, src
	}

	prev := make([]int, len(dst)+1)
	curr := make([]int, len(dst)+1)

	for j := range prev {
		prev[j] = j
	}

	for i, sr := range src {
		curr[0] = i + 1

		for j, dr := range dst {
			cost := 1
			if sr == dr {
				cost = 0
			}

			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(dst)]
}

// Closest returns the candidate nearest to name within maxDistance edits.
// Ties go to the earliest candidate, so callers pass a sorted slice for
// deterministic output.
func Closest(name string, candidates []string, maxDistance int) (string, bool) {
	best, bestDistance := "", maxDistance+1

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}

		d := Distance(name, candidate)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best, best != ""
}
