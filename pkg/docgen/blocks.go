package docgen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/text"
)

// BlockKind 块类型，封闭集合
type BlockKind int

const (
	KindHeading1 BlockKind = iota + 1
	KindHeading2
	KindHeading3
	KindHeading4
	KindParagraph
	KindBulletItem
	KindNumberedItem
	KindCheckboxItem
	KindBlockquote
	KindHorizontalRule
	KindTable
)

var blockKindNames = map[BlockKind]string{
	KindHeading1:       "heading1",
	KindHeading2:       "heading2",
	KindHeading3:       "heading3",
	KindHeading4:       "heading4",
	KindParagraph:      "paragraph",
	KindBulletItem:     "bullet",
	KindNumberedItem:   "numbered",
	KindCheckboxItem:   "checkbox",
	KindBlockquote:     "blockquote",
	KindHorizontalRule: "hr",
	KindTable:          "table",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// MarshalText 以名称输出，用于JSON预览接口
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsHeading 是否为标题块
func (k BlockKind) IsHeading() bool {
	return k >= KindHeading1 && k <= KindHeading4
}

// IsListItem 是否为列表类块（项目符号、编号、复选框）
func (k BlockKind) IsListItem() bool {
	return k == KindBulletItem || k == KindNumberedItem || k == KindCheckboxItem
}

// Block 从Markdown中解析出的一个结构单元
type Block struct {
	Kind BlockKind `json:"kind"`
	// Text 未做行内解析的原始文本，HorizontalRule和Table为空
	Text string `json:"text,omitempty"`
	// IndentLevel 仅对BulletItem有效
	IndentLevel int `json:"indent_level,omitempty"`
	// Checked 仅对CheckboxItem有效
	Checked bool `json:"checked,omitempty"`
	// Rows 仅对Table有效，第一行为表头
	Rows [][]string `json:"rows,omitempty"`
}

// ColumnCount 表格的列数，取所有行中最长的一行
func (b Block) ColumnCount() int {
	count := 0
	for _, row := range b.Rows {
		if len(row) > count {
			count = len(row)
		}
	}
	return count
}

// lineScanner 基于goldmark的text.Reader逐行读取。
// 这里的块规则按行前缀判定（如"-x"会结束段落、表格不需要分隔行），
// 与CommonMark不兼容，因此不使用goldmark的块解析器
type lineScanner struct {
	reader text.Reader
}

func newLineScanner(source []byte) *lineScanner {
	return &lineScanner{reader: text.NewReader(source)}
}

// peek 返回当前行（不含换行符），到达末尾时ok为false
func (s *lineScanner) peek() (line string, ok bool) {
	raw, _ := s.reader.PeekLine()
	if raw == nil {
		return "", false
	}
	return strings.TrimRight(string(raw), "\r\n"), true
}

func (s *lineScanner) advance() {
	s.reader.AdvanceLine()
}

// ParseBlocks 将Markdown解析为块序列，任何输入都不会失败
func ParseBlocks(markdown string) []Block {
	return parseBlocks([]byte(markdown))
}

func parseBlocks(source []byte) []Block {
	var blocks []Block
	s := newLineScanner(source)

	for {
		line, ok := s.peek()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)

		// 空行
		if trimmed == "" {
			s.advance()
			continue
		}

		// 分隔线
		if isHorizontalRule(trimmed) {
			blocks = append(blocks, Block{Kind: KindHorizontalRule})
			s.advance()
			continue
		}

		// 标题
		if kind, content, ok := parseHeading(trimmed); ok {
			blocks = append(blocks, Block{Kind: kind, Text: content})
			s.advance()
			continue
		}

		// 表格
		if strings.HasPrefix(trimmed, "|") {
			if rows := consumeTable(s); len(rows) > 0 {
				blocks = append(blocks, Block{Kind: KindTable, Rows: rows})
			}
			continue
		}

		// 复选框
		if checked, content, ok := parseCheckbox(trimmed); ok {
			blocks = append(blocks, Block{Kind: KindCheckboxItem, Text: content, Checked: checked})
			s.advance()
			continue
		}

		// 编号列表
		if content, ok := parseNumbered(trimmed); ok {
			blocks = append(blocks, Block{Kind: KindNumberedItem, Text: content})
			s.advance()
			continue
		}

		// 项目符号列表（含缩进的子项）
		if content, ok := parseBullet(trimmed); ok {
			blocks = append(blocks, Block{
				Kind:        KindBulletItem,
				Text:        content,
				IndentLevel: leadingWhitespace(line) / 2,
			})
			s.advance()
			continue
		}

		// 引用
		if strings.HasPrefix(trimmed, ">") {
			blocks = append(blocks, Block{Kind: KindBlockquote, Text: consumeBlockquote(s)})
			continue
		}

		// 普通段落：合并后续的非空行，直到遇到其他块的起始行
		parts := []string{trimmed}
		s.advance()
		for {
			next, ok := s.peek()
			if !ok {
				break
			}
			next = strings.TrimSpace(next)
			if next == "" || startsBlock(next) {
				break
			}
			parts = append(parts, next)
			s.advance()
		}
		blocks = append(blocks, Block{Kind: KindParagraph, Text: strings.Join(parts, " ")})
	}

	return blocks
}

// consumeTable 读取连续的以|开头的行，丢弃分隔行
func consumeTable(s *lineScanner) [][]string {
	var rows [][]string
	for {
		line, ok := s.peek()
		if !ok {
			break
		}
		row := strings.TrimSpace(line)
		if !strings.HasPrefix(row, "|") {
			break
		}
		s.advance()
		if isTableSeparator(row) {
			continue
		}
		if cells := splitTableRow(row); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// consumeBlockquote 读取连续的引用行，以空格拼接
func consumeBlockquote(s *lineScanner) string {
	var parts []string
	for {
		line, ok := s.peek()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, ">") {
			break
		}
		parts = append(parts, strings.TrimPrefix(trimmed[1:], " "))
		s.advance()
	}
	return strings.Join(parts, " ")
}

// startsBlock 判断段落续行是否应当结束：按首字符判断，不要求后面的块能完整识别
func startsBlock(trimmed string) bool {
	if isHorizontalRule(trimmed) {
		return true
	}
	if strings.ContainsAny(trimmed[:1], "#|-*>") {
		return true
	}
	_, ok := parseNumbered(trimmed)
	return ok
}

func isHorizontalRule(trimmed string) bool {
	if len(trimmed) < 3 {
		return false
	}
	c := trimmed[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] != c {
			return false
		}
	}
	return true
}

// 按前缀长度从长到短检查
var headingPrefixes = []struct {
	prefix string
	kind   BlockKind
}{
	{"#### ", KindHeading4},
	{"### ", KindHeading3},
	{"## ", KindHeading2},
	{"# ", KindHeading1},
}

func parseHeading(trimmed string) (BlockKind, string, bool) {
	for _, h := range headingPrefixes {
		if strings.HasPrefix(trimmed, h.prefix) {
			return h.kind, strings.TrimSpace(trimmed[len(h.prefix):]), true
		}
	}
	return 0, "", false
}

// isTableSeparator 分隔行只包含 - : | 和空白
func isTableSeparator(row string) bool {
	if len(row) < 3 || row[0] != '|' || row[len(row)-1] != '|' {
		return false
	}
	for _, r := range row[1 : len(row)-1] {
		if r != '-' && r != ':' && r != '|' && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func splitTableRow(row string) []string {
	cells := strings.Split(row, "|")[1:]
	if strings.HasSuffix(row, "|") && len(cells) > 0 {
		cells = cells[:len(cells)-1]
	}
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// parseCheckbox 匹配 "- [ ] 文本"、"* [x] 文本" 或不带标记的 "[X] 文本"
func parseCheckbox(trimmed string) (checked bool, content string, ok bool) {
	rest := trimmed
	if rest != "" && (rest[0] == '-' || rest[0] == '*') {
		rest = strings.TrimLeftFunc(rest[1:], unicode.IsSpace)
	}
	if len(rest) < 3 || rest[0] != '[' || rest[2] != ']' {
		return false, "", false
	}
	switch rest[1] {
	case ' ':
	case 'x', 'X':
		checked = true
	default:
		return false, "", false
	}
	rest = rest[3:]
	if rest != "" && !startsWithSpace(rest) {
		return false, "", false
	}
	return checked, strings.TrimSpace(rest), true
}

func parseNumbered(trimmed string) (string, bool) {
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(trimmed) || trimmed[i] != '.' || !startsWithSpace(trimmed[i+1:]) {
		return "", false
	}
	return strings.TrimLeftFunc(trimmed[i+1:], unicode.IsSpace), true
}

func parseBullet(trimmed string) (string, bool) {
	if trimmed == "" {
		return "", false
	}
	switch trimmed[0] {
	case '-', '*', '+':
	default:
		return "", false
	}
	if !startsWithSpace(trimmed[1:]) {
		return "", false
	}
	return strings.TrimLeftFunc(trimmed[1:], unicode.IsSpace), true
}

func startsWithSpace(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}

// leadingWhitespace 行首空白字符数（制表符按一个字符计）
func leadingWhitespace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
