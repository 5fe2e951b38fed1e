package chunker

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultSize    = 512
	DefaultOverlap = 50
)

var ErrInvalidWindow = goerr.New("chunk overlap must be smaller than chunk size")

// Chunker splits long text into overlapping windows of whole words
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker producing chunks of at most size words, adjacent
// chunks sharing overlap words
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, goerr.Wrap(ErrInvalidWindow, "invalid chunk window",
			goerr.V("size", size),
			goerr.V("overlap", overlap),
		)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Default returns a Chunker with 512-word chunks and 50-word overlap
func Default() *Chunker {
	return &Chunker{size: DefaultSize, overlap: DefaultOverlap}
}

// Split returns the chunks of text. Text that fits in one chunk is returned
// unchanged; blank text yields no chunks.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := min(start+c.size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
