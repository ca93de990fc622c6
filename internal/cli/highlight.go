package cli

import (
	"strings"

	"github.com/fatih/color"
)

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"HAVING": true, "ORDER": true, "LIMIT": true, "IGNORE": true, "CASE": true,
	"JOIN": true, "INNER": true, "LEFT": true, "OUTER": true, "CROSS": true,
	"EACH": true, "ON": true, "AS": true, "AND": true, "OR": true, "NOT": true,
	"IS": true, "NULL": true, "IN": true, "DESC": true, "WHEN": true,
	"THEN": true, "ELSE": true, "END": true, "WITHIN": true, "RECORD": true,
	"CONTAINS": true, "BETWEEN": true,
}

// highlight colors SQL keywords in text. Quoted strings and bracketed
// identifiers are copied untouched.
func highlight(text string, useColor bool) string {
	if !useColor {
		return text
	}
	kw := color.New(color.FgCyan, color.Bold)
	kw.EnableColor()
	lit := color.New(color.FgGreen)
	lit.EnableColor()

	var b strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\'':
			j := skipQuoted(text, i)
			b.WriteString(lit.Sprint(text[i:j]))
			i = j
		case c == '[':
			j := strings.IndexByte(text[i:], ']')
			if j < 0 {
				j = len(text) - i - 1
			}
			b.WriteString(text[i : i+j+1])
			i += j + 1
		case isWordByte(c):
			j := i
			for j < len(text) && isWordByte(text[j]) {
				j++
			}
			word := text[i:j]
			if sqlKeywords[word] {
				b.WriteString(kw.Sprint(word))
			} else {
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// skipQuoted returns the index just past the string literal opening at i.
func skipQuoted(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '\'':
			return j + 1
		}
	}
	return len(text)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
