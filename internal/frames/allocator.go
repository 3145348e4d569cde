package frames

import (
	"math"
	"unicode/utf8"
)

// Allocate distributes a block's frame budget across its subtitle chunks
// proportionally to character weight. The result always sums to
// max(1, round(blockDuration*fps)) with every chunk getting at least one
// frame, provided the budget covers the chunk count. Pure and deterministic.
func Allocate(blockDuration float64, chunks []string, fps int) []int {
	if len(chunks) == 0 {
		return nil
	}

	totalFrames := int(math.Round(blockDuration * float64(fps)))
	if totalFrames < 1 {
		totalFrames = 1
	}

	weights := make([]int, len(chunks))
	totalWeight := 0
	for i, chunk := range chunks {
		w := utf8.RuneCountInString(chunk)
		if w < 1 {
			w = 1
		}
		weights[i] = w
		totalWeight += w
	}

	counts := make([]int, len(chunks))
	sum := 0
	for i, w := range weights {
		c := totalFrames * w / totalWeight
		if c < 1 {
			c = 1
		}
		counts[i] = c
		sum += c
	}

	diff := totalFrames - sum
	if diff > 0 {
		// surplus goes to the last chunk so it lingers on screen
		counts[len(counts)-1] += diff
		return counts
	}

	// deficit comes out of the largest counts, earliest index on ties,
	// never dropping a chunk below one frame
	for diff < 0 {
		largest := -1
		for i, c := range counts {
			if c > 1 && (largest < 0 || c > counts[largest]) {
				largest = i
			}
		}
		if largest < 0 {
			// budget smaller than chunk count; the one-frame floor wins
			break
		}
		counts[largest]--
		diff++
	}

	return counts
}
