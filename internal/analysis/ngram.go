package analysis

import (
	"sort"

	"github.com/SeamusWaldron/cubetoe"
)

// NGram represents a repeated move sequence.
type NGram struct {
	N        int      `json:"n"`
	Sequence []string `json:"sequence"`
	Count    int      `json:"count"`
	Starts   []int    `json:"starts,omitempty"` // first few start indices
}

// NGramReport contains the results of n-gram mining.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"` // Keyed by n
}

const maxStarts = 10

// RollingHash implements a Rabin-Karp rolling hash over move tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint32
	n      int
}

// NewRollingHash creates a new rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   1_000_003,
		n:      n,
		window: make([]uint32, 0, n),
	}
	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll adds a token, dropping the oldest one once the window is full.
func (rh *RollingHash) Roll(token uint32) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Ready returns true if the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

func (rh *RollingHash) snapshot() []uint32 {
	out := make([]uint32, len(rh.window))
	copy(out, rh.window)
	return out
}

type ngramEntry struct {
	tokens []uint32
	count  int
	starts []int
}

// MineNGrams finds the top-K most frequent repeated sequences for each
// length in [minN, maxN]. Only sequences seen at least twice are reported.
func MineNGrams(moves []cubetoe.Move, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}
	if minN < 1 || len(moves) < minN {
		return report
	}

	// Intern notations so equal moves share a token.
	ids := make(map[string]uint32)
	names := []string{}
	tokens := make([]uint32, len(moves))
	for i, m := range moves {
		key := m.Notation()
		id, ok := ids[key]
		if !ok {
			id = uint32(len(names) + 1)
			ids[key] = id
			names = append(names, key)
		}
		tokens[i] = id
	}

	for n := minN; n <= maxN && n <= len(tokens); n++ {
		if ngrams := mineN(tokens, names, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}
	return report
}

func mineN(tokens []uint32, names []string, n, topK int) []NGram {
	buckets := make(map[uint64][]*ngramEntry)
	var order []*ngramEntry
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}
		start := i - n + 1
		window := tokens[start : i+1]

		var entry *ngramEntry
		for _, e := range buckets[rh.Hash()] {
			if tokensEqual(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: rh.snapshot()}
			buckets[rh.Hash()] = append(buckets[rh.Hash()], entry)
			order = append(order, entry)
		}
		entry.count++
		if len(entry.starts) < maxStarts {
			entry.starts = append(entry.starts, start)
		}
	}

	var repeated []*ngramEntry
	for _, e := range order {
		if e.count >= 2 {
			repeated = append(repeated, e)
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].count > repeated[j].count
	})
	if topK > 0 && len(repeated) > topK {
		repeated = repeated[:topK]
	}

	result := make([]NGram, len(repeated))
	for i, e := range repeated {
		seq := make([]string, len(e.tokens))
		for j, tok := range e.tokens {
			seq[j] = names[tok-1]
		}
		result[i] = NGram{N: n, Sequence: seq, Count: e.count, Starts: e.starts}
	}
	return result
}

func tokensEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
