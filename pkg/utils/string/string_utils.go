package strutil

import (
	"strings"
	"unicode"
)

// ContainsHan 判断字符串是否包含汉字
func ContainsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// NormalizeSeparators 将常见文件名分隔符（. _ -）替换为空格并折叠空白
// 名称匹配前双方都做此归一化
func NormalizeSeparators(s string) string {
	replacer := strings.NewReplacer(".", " ", "_", " ", "-", " ")
	s = replacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// FoldForMatch 匹配用归一化: 分隔符转空格并转小写
func FoldForMatch(s string) string {
	return strings.ToLower(NormalizeSeparators(s))
}
