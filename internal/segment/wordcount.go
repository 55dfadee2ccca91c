package segment

import (
	"strings"
	"unicode"
)

// CountWords estimates the reading length of text in words. Each
// whitespace-separated field counts as one word, except that every CJK rune
// counts on its own — space-free scripts would otherwise weigh a whole
// paragraph as a single word.
func CountWords(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		cjk := 0
		latin := false
		for _, r := range field {
			if isCJK(r) {
				cjk++
			} else if unicode.IsLetter(r) || unicode.IsDigit(r) {
				latin = true
			}
		}
		n += cjk
		if latin || cjk == 0 {
			n++
		}
	}
	return n
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
