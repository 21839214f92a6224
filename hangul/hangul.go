// Package hangul converts Korean text into its initial-consonant (choseong) form
// so product names can be matched by partial consonant queries such as "ㅇㅁㄹㅋ".
package hangul

import "strings"

const (
	syllableFirst = '가'
	syllableLast  = '힣'
	// medial vowels (21) × final consonants (28)
	syllablesPerInitial = 588
)

var initialConsonants = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// InitialConsonants replaces every precomposed Hangul syllable in s with its
// initial consonant. Every other rune, spaces included, is copied unchanged.
func InitialConsonants(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsSyllable(r) {
			b.WriteRune(initialConsonants[(r-syllableFirst)/syllablesPerInitial])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsSyllable reports whether r is a precomposed Hangul syllable (U+AC00..U+D7A3).
func IsSyllable(r rune) bool {
	return r >= syllableFirst && r <= syllableLast
}
