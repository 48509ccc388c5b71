// Package chunk splits exported Markdown into word-sized chunks for
// embedding. Words stand in for tokens; consecutive chunks may share an
// overlap of trailing words.
package chunk

import "strings"

// DefaultSize is the chunk size used when none is given.
const DefaultSize = 512

// Chunker splits text into fixed-size word chunks.
type Chunker struct {
	ChunkSize int // words per chunk
	Overlap   int // words repeated from the end of the previous chunk
}

// New creates a Chunker with the given chunk size and no overlap.
// Defaults to DefaultSize if chunkSize <= 0.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultSize
	}
	return &Chunker{ChunkSize: chunkSize}
}

// Chunk splits the input text into slices of at most ChunkSize words.
// Each chunk is a contiguous block of words joined by spaces.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.ChunkSize - c.Overlap
	if c.Overlap < 0 || step <= 0 {
		step = c.ChunkSize
	}

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := min(i+c.ChunkSize, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
