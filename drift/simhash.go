// Package drift detects how much a page changed between two snapshot runs.
package drift

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint computes a 64-bit SimHash over the lower-cased words of text.
// Uses FNV-64a per token with bit vector accumulation.
func Fingerprint(text string) uint64 {
	return fingerprintTokens(strings.Fields(strings.ToLower(text)))
}

func fingerprintTokens(tokens []string) uint64 {
	if len(tokens) == 0 {
		return 0
	}

	var vector [64]int
	h := fnv.New64a()
	for _, tok := range tokens {
		h.Reset()
		h.Write([]byte(tok))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fp uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// shingles joins every run of n consecutive tokens with "_". Fewer than n
// tokens yield the tokens themselves.
func shingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return tokens
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		out = append(out, strings.Join(tokens[i:i+n], "_"))
	}
	return out
}
