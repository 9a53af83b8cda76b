package nerdlegen

import (
	"fmt"
	"iter"
)

// Candidates yields every string of the given length over Alphabet in
// lexicographic alphabet order, first character most significant.
func Candidates(length int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if length < 1 {
			return
		}
		scanPrefix(nil, length, func(buf []byte) bool {
			return yield(string(buf))
		})
	}
}

// CandidateCount returns len(Alphabet)^length.
func CandidateCount(length int) uint64 {
	n := uint64(1)
	for i := 0; i < length; i++ {
		n *= uint64(len(Alphabet))
	}
	return n
}

// scanPrefix calls fn for every candidate of length n that starts with
// prefix, in enumeration order, until fn returns false. The buffer passed
// to fn is reused between calls.
func scanPrefix(prefix []byte, n int, fn func(buf []byte) bool) {
	buf := make([]byte, n)
	idx := make([]int, n)
	copy(buf, prefix)
	for i := len(prefix); i < n; i++ {
		buf[i] = Alphabet[0]
	}

	for {
		if !fn(buf) {
			return
		}
		pos := n - 1
		for ; pos >= len(prefix); pos-- {
			idx[pos]++
			if idx[pos] < len(Alphabet) {
				buf[pos] = Alphabet[idx[pos]]
				break
			}
			idx[pos] = 0
			buf[pos] = Alphabet[0]
		}
		if pos < len(prefix) {
			return
		}
	}
}

// shard is one prefix partition of the candidate space. Shards in index
// order cover the candidates in enumeration order.
type shard struct {
	index  int
	prefix []byte
}

// shardCount returns the number of shards for a prefix depth.
func shardCount(depth int) int {
	return int(CandidateCount(depth))
}

// shardAt returns the shard with the given index at a prefix depth.
func shardAt(index, depth int) shard {
	prefix := make([]byte, depth)
	rest := index
	for i := depth - 1; i >= 0; i-- {
		prefix[i] = Alphabet[rest%len(Alphabet)]
		rest /= len(Alphabet)
	}
	return shard{index: index, prefix: prefix}
}

// key identifies the shard in a checkpoint store.
func (s shard) key(length int) string {
	return fmt.Sprintf("len%d/%s", length, s.prefix)
}
