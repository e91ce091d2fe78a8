package docgen

import (
	"regexp"
	"strings"
)

// TextRun 一段样式相同的文本
type TextRun struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	// Code 代码片段不再叠加粗体/斜体
	Code bool `json:"code,omitempty"`
	// Size 字号，单位为半磅
	Size int `json:"size,omitempty"`
}

// spanMatcher 行内强调匹配器，按定义顺序在每个位置依次尝试
type spanMatcher struct {
	name   string
	delim  string
	bold   bool
	italic bool
	code   bool
}

var spanMatchers = []spanMatcher{
	{name: "bold-italic", delim: "***", bold: true, italic: true},
	{name: "bold", delim: "**", bold: true},
	{name: "italic", delim: "*", italic: true},
	{name: "code", delim: "`", code: true},
}

// match 在pos处尝试匹配，内容至少一个字符、不跨行、取最近的闭合标记
func (m spanMatcher) match(s string, pos int) (content string, end int, ok bool) {
	if !strings.HasPrefix(s[pos:], m.delim) {
		return "", 0, false
	}
	start := pos + len(m.delim)
	for i := start + 1; i+len(m.delim) <= len(s); i++ {
		if c := s[i-1]; c == '\n' || c == '\r' {
			return "", 0, false
		}
		if strings.HasPrefix(s[i:], m.delim) {
			return s[start:i], i + len(m.delim), true
		}
	}
	return "", 0, false
}

func (m spanMatcher) run(content string, size int) TextRun {
	return TextRun{Text: content, Bold: m.bold, Italic: m.italic, Code: m.code, Size: size}
}

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// RewriteLinks 将 [文本](链接) 改写为 "文本 (链接)"
func RewriteLinks(s string) string {
	return linkPattern.ReplaceAllString(s, "${1} (${2})")
}

// ParseInline 将块内文本解析为样式片段，结果永远不为空
func ParseInline(s string, baseSize int) []TextRun {
	s = RewriteLinks(s)

	var runs []TextRun
	last := 0
	for pos := 0; pos < len(s); {
		m, content, end, ok := matchSpanAt(s, pos)
		if !ok {
			pos++
			continue
		}
		if pos > last {
			runs = append(runs, TextRun{Text: s[last:pos], Size: baseSize})
		}
		runs = append(runs, m.run(content, baseSize))
		pos, last = end, end
	}
	if last < len(s) {
		runs = append(runs, TextRun{Text: s[last:], Size: baseSize})
	}

	if len(runs) == 0 {
		runs = append(runs, TextRun{Text: s, Size: baseSize})
	}
	return runs
}

func matchSpanAt(s string, pos int) (spanMatcher, string, int, bool) {
	for _, m := range spanMatchers {
		if content, end, ok := m.match(s, pos); ok {
			return m, content, end, true
		}
	}
	return spanMatcher{}, "", 0, false
}

// PlainText 拼接所有片段的文本
func PlainText(runs []TextRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
