package vector

import "sort"

// DotProduct computes the unnormalized inner product of two vectors.
// Vector magnitude affects the score; this is the intended ranking
// function, not cosine similarity. Returns 0 for mismatched lengths.
func DotProduct(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Match holds a record and its dot-product score against a query vector.
type Match struct {
	record Record
	score  float64
}

// Record returns the matched record.
func (m Match) Record() Record { return m.record }

// Score returns the dot-product score.
func (m Match) Score() float64 { return m.score }

// TopKByDotProduct scores every candidate record by dot product against the
// query and returns the top k sorted descending by score. The sort is stable:
// ties keep the candidates' original order. Returns an empty slice when there
// are no candidates or k <= 0.
func TopKByDotProduct(query []float64, candidates []Record, k int) []Match {
	if len(candidates) == 0 || k <= 0 {
		return []Match{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, r := range candidates {
		matches = append(matches, Match{record: r, score: DotProduct(query, r.embedding)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
