package nerdlegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates_Order(t *testing.T) {
	var got []string
	for c := range Candidates(2) {
		got = append(got, c)
	}

	require.Len(t, got, 196)
	assert.Equal(t, "11", got[0])
	assert.Equal(t, "12", got[1])
	assert.Equal(t, "10", got[9])
	assert.Equal(t, "1+", got[10])
	assert.Equal(t, "1/", got[13])
	assert.Equal(t, "21", got[14])
	assert.Equal(t, "//", got[195])

	for i := 1; i < len(got); i++ {
		assert.Less(t, alphabetRank(got[i-1]), alphabetRank(got[i]))
	}
}

func TestCandidates_EarlyStop(t *testing.T) {
	var got []string
	for c := range Candidates(8) {
		got = append(got, c)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"11111111", "11111112", "11111113"}, got)
}

func TestCandidates_InvalidLength(t *testing.T) {
	n := 0
	for range Candidates(0) {
		n++
	}
	assert.Zero(t, n)
}

func TestCandidateCount(t *testing.T) {
	assert.Equal(t, uint64(1), CandidateCount(0))
	assert.Equal(t, uint64(14), CandidateCount(1))
	assert.Equal(t, uint64(1475789056), CandidateCount(8))
}

// Concatenating shards in index order reproduces Candidates exactly.
func TestShards_CoverCandidatesInOrder(t *testing.T) {
	const length = 4
	var want []string
	for c := range Candidates(length) {
		want = append(want, c)
	}

	for depth := 1; depth <= length; depth++ {
		var got []string
		for i := 0; i < shardCount(depth); i++ {
			sh := shardAt(i, depth)
			assert.Equal(t, i, sh.index)
			scanPrefix(sh.prefix, length, func(buf []byte) bool {
				got = append(got, string(buf))
				return true
			})
		}
		assert.Equal(t, want, got, "depth %d", depth)
	}
}

func TestShardAt(t *testing.T) {
	assert.Equal(t, "11", string(shardAt(0, 2).prefix))
	assert.Equal(t, "21", string(shardAt(14, 2).prefix))
	assert.Equal(t, "//", string(shardAt(195, 2).prefix))
	assert.Equal(t, "len8/1+", shardAt(10, 2).key(8))
}

// alphabetRank maps a candidate to its position in enumeration order.
func alphabetRank(s string) int {
	r := 0
	for i := 0; i < len(s); i++ {
		r = r*len(Alphabet) + strings.IndexByte(Alphabet, s[i])
	}
	return r
}
