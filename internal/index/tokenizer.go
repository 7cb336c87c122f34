package index

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize lowercases s and returns its runs of letters and digits. Runs of
// a single character are dropped.
func Tokenize(s string) []string {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if utf8.RuneCountInString(word.String()) > 1 {
			tokens = append(tokens, word.String())
		}
		word.Reset()
	}

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// TokenizeURL tokenizes the host name, path and query keys of a URL. The
// port and query values are skipped.
func TokenizeURL(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Tokenize(rawURL)
	}

	tokens := append(Tokenize(u.Hostname()), Tokenize(u.Path)...)
	for key := range u.Query() {
		tokens = append(tokens, Tokenize(key)...)
	}
	return tokens
}
