package subtitle

import "time"

// represents single subtitle entry
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents complete subtitle track
type Subtitle struct {
	Entries []Entry
}

// Track lays out per-block subtitle chunks on the episode timeline. Within
// a block, each chunk's share of the block duration follows its character
// weight, mirroring the frame allocator's proportions.
func Track(blocks []TimedBlock) *Subtitle {
	sub := &Subtitle{}
	var cursor time.Duration

	for _, block := range blocks {
		blockDur := time.Duration(block.Duration * float64(time.Second))
		weights, total := chunkWeights(block.Chunks)

		chunkStart := cursor
		for i, chunk := range block.Chunks {
			share := time.Duration(float64(blockDur) * float64(weights[i]) / float64(total))
			end := chunkStart + share
			if i == len(block.Chunks)-1 {
				end = cursor + blockDur
			}
			sub.Entries = append(sub.Entries, Entry{
				Index:     len(sub.Entries) + 1,
				StartTime: chunkStart,
				EndTime:   end,
				Text:      chunk,
			})
			chunkStart = end
		}
		cursor += blockDur
	}

	return sub
}

// TimedBlock is the slice of a block the track builder needs: its measured
// duration and ordered chunks.
type TimedBlock struct {
	Duration float64
	Chunks   []string
}

func chunkWeights(chunks []string) ([]int, int) {
	weights := make([]int, len(chunks))
	total := 0
	for i, c := range chunks {
		w := len([]rune(c))
		if w < 1 {
			w = 1
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		total = 1
	}
	return weights, total
}
