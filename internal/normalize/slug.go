package normalize

import (
	"strings"
	"unicode"
)

// Slug lowercases s, turns every rune that is neither alphanumeric nor
// whitespace into a space, and joins the remaining words with "-".
func Slug(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if isAlphanumeric(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Trim(strings.Join(strings.Fields(s), "-"), "-")
}

// 元音符号这类 Other_Alphabetic 组合字符也算字母，否则印度系文字会被拆开
func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}
