package adenv

import "fmt"

// Indexer resolves step indices to blocks of one dataset.
// K is fixed at construction; build one Indexer per dataset.
type Indexer struct {
	dataset  Dataset
	k        int
	keywords []string
}

// NewIndexer determines K as the number of distinct keywords seen before the
// first repeat and checks that the dataset is made of whole blocks, each
// repeating the keyword order of the first one.
func NewIndexer(d Dataset) (*Indexer, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrConfiguration)
	}
	seen := make(map[string]bool)
	keywords := make([]string, 0)
	for _, r := range d {
		if seen[r.Keyword] {
			break
		}
		seen[r.Keyword] = true
		keywords = append(keywords, r.Keyword)
	}
	k := len(keywords)
	if len(d)%k != 0 {
		return nil, fmt.Errorf("%w: %d rows is not a multiple of K=%d", ErrBlockAlignment, len(d), k)
	}
	for i := k; i < len(d); i++ {
		if d[i].Keyword != keywords[i%k] {
			return nil, fmt.Errorf("%w: row %d has keyword %q, expected %q at position %d of block %d",
				ErrBlockAlignment, i, d[i].Keyword, keywords[i%k], i%k, i/k)
		}
	}
	return &Indexer{
		dataset:  d,
		k:        k,
		keywords: keywords,
	}, nil
}

// K is the block width
func (i *Indexer) K() int {
	return i.k
}

// Keywords in block order
func (i *Indexer) Keywords() []string {
	out := make([]string, len(i.keywords))
	copy(out, i.keywords)
	return out
}

// NumBlocks is the number of whole blocks in the dataset
func (i *Indexer) NumBlocks() int {
	return len(i.dataset) / i.k
}

// Dataset returns the indexed dataset
func (i *Indexer) Dataset() Dataset {
	return i.dataset
}

// Block returns rows [step*K, step*K+K). The returned slice has its capacity
// capped so appends by the caller cannot reach the dataset.
func (i *Indexer) Block(step int) (Block, error) {
	start := step * i.k
	end := start + i.k
	if step < 0 || end > len(i.dataset) {
		return nil, fmt.Errorf("%w: step %d (blocks: %d)", ErrIndexOutOfRange, step, i.NumBlocks())
	}
	return Block(i.dataset[start:end:end]), nil
}
