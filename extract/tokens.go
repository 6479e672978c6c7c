package extract

import "unicode/utf8"

// EstimateTokens gives a rough LLM token count for text: one token per
// three runes, at least one for non-empty text. It over-estimates English
// slightly and under-estimates CJK.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	if est := n / 3; est > 0 {
		return est
	}
	return 1
}
