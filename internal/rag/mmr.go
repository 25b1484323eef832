package rag

import (
	"math"

	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

// mmrLambda balances relevance to the query (1.0) against diversity among
// already-selected results (0.0).
const mmrLambda = float32(0.5)

// maximalMarginalRelevance greedily re-ranks fetched neighbors down to k
// results. Each round picks the candidate with the best blend of similarity
// to the query and dissimilarity to everything already selected.
func maximalMarginalRelevance(query []float32, candidates []vectorstore.SearchResult, k int) []vectorstore.SearchResult {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]vectorstore.SearchResult, 0, k)
	remaining := make([]vectorstore.SearchResult, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := float32(math.Inf(-1))

		for i, candidate := range remaining {
			relevance := cosineSimilarity(query, candidate.Vec)

			score := relevance
			if len(selected) > 0 {
				maxSim := float32(math.Inf(-1))
				for _, s := range selected {
					if sim := cosineSimilarity(candidate.Vec, s.Vec); sim > maxSim {
						maxSim = sim
					}
				}
				score = mmrLambda*relevance - (1-mmrLambda)*maxSim
			}

			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either vector is empty or zero.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
