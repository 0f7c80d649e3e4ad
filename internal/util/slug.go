package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonWord    = regexp.MustCompile(`[^\w\s-]`)
	reDashSpaces = regexp.MustCompile(`[-\s]+`)
)

// Slugify 把标题转成 [a-z0-9_-] 的 slug：去掉变音符号和非 ASCII 字符，
// 空白和连字符压缩成单个 "-"，超过 maxLen 时截断
func Slugify(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}

	out := reNonWord.ReplaceAllString(strings.ToLower(b.String()), "")
	out = strings.TrimSpace(out)
	out = reDashSpaces.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-_")

	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

var reSlug = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

func IsSlug(s string) bool {
	return reSlug.MatchString(s)
}
