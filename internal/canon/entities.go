package canon

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

var (
	namedRef   = regexp.MustCompile(`&(nbsp|amp|quot|lt|gt);`)
	numericRef = regexp.MustCompile(`&#(\d+);`)
)

var namedEntities = map[string]string{
	"nbsp": " ",
	"amp":  "&",
	"quot": `"`,
	"lt":   "<",
	"gt":   ">",
}

// DecodeEntities resolves the named references &nbsp; &amp; &quot; &lt; &gt;
// and then numeric references &#NNN;. Each runs as a single pass, so
// "&amp;#65;" becomes "A". Numeric references outside the Unicode range are
// left untouched.
func DecodeEntities(s string) string {
	s = namedRef.ReplaceAllStringFunc(s, func(m string) string {
		return namedEntities[m[1:len(m)-1]]
	})
	return numericRef.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseInt(m[2:len(m)-1], 10, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return m
		}
		return string(rune(n))
	})
}
