package methods

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var slugFilter = regexp.MustCompile(`[^\p{Han}\p{Latin}\p{N}_]`)

// FileSlug 将作品名转为文件名：汉字转拼音，其它字符只保留字母数字
func FileSlug(name string) string {
	name = slugFilter.ReplaceAllString(name, "")

	a := pinyin.NewArgs()
	var parts []string
	var latin strings.Builder
	flush := func() {
		if latin.Len() > 0 {
			parts = append(parts, latin.String())
			latin.Reset()
		}
	}
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			flush()
			if py := pinyin.SinglePinyin(r, a); len(py) > 0 {
				parts = append(parts, py[0])
			}
			continue
		}
		latin.WriteRune(r)
	}
	flush()

	slug := strings.ToLower(strings.Join(parts, "_"))
	if slug == "" {
		return "track"
	}
	return slug
}
