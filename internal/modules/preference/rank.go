package preference

import (
	"math"
	"sort"
)

// cosine returns 0 when either vector has zero length or the sizes differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// rankNearest orders candidates by similarity to vec and keeps the first k.
// Ties keep insertion order.
func rankNearest(candidates []Record, vec []float32, k int) []Record {
	scores := make([]float64, len(candidates))
	idx := make([]int, len(candidates))
	for i := range candidates {
		scores[i] = cosine(candidates[i].Embedding, vec)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	if k > len(idx) {
		k = len(idx)
	}
	out := make([]Record, 0, k)
	for _, i := range idx[:k] {
		out = append(out, candidates[i])
	}
	return out
}
