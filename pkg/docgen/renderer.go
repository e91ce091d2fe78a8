package docgen

import (
	"fmt"
)

// 页面几何，单位twip（A4，四边1英寸）
const (
	pageWidth    = 11906
	pageHeight   = 16838
	pageMargin   = 1440
	contentWidth = pageWidth - 2*pageMargin
)

// 字号单位为半磅
const (
	baseFontSize   = 22
	tableFontSize  = 20
	chromeFontSize = 16
	codeSizeDelta  = 2
)

const (
	bodyFont     = "Calibri"
	codeFont     = "Consolas"
	checkboxFont = "Segoe UI Symbol"

	bulletIndent  = 720
	hangingIndent = 360

	colorWhite      = "FFFFFF"
	colorRule       = "CCCCCC"
	colorMuted      = "555555"
	colorChrome     = "999999"
	colorZebra      = "F5F5F5"
	colorCodeShade  = "F0F0F0"
	glyphChecked    = "☑ "
	glyphUnchecked  = "☐ "
	footerSeparator = " | Page "
)

// headingTier 标题样式：字号和段前段后间距随级别递减
type headingTier struct {
	Style  string
	Size   int
	Before int
	After  int
	Italic bool
	// Color 为空时使用主题色
	Color string
}

var headingTiers = map[BlockKind]headingTier{
	KindHeading1: {Style: "Heading1", Size: 36, Before: 360, After: 200},
	KindHeading2: {Style: "Heading2", Size: 28, Before: 300, After: 160},
	KindHeading3: {Style: "Heading3", Size: 24, Before: 240, After: 120, Color: "333333"},
	KindHeading4: {Style: "Heading4", Size: 22, Before: 200, After: 100, Italic: true, Color: colorMuted},
}

func (t headingTier) color(accent string) string {
	if t.Color == "" {
		return accent
	}
	return t.Color
}

// WordRenderer 块序列到Word文档的渲染器，本身无状态，可并发使用
type WordRenderer struct {
	builder *DocxBuilder
}

// NewWordRenderer 创建一个新的Word渲染器
func NewWordRenderer() *WordRenderer {
	return &WordRenderer{
		builder: NewDocxBuilder(),
	}
}

// document 一次渲染的完整结构，每次调用重新构建
type document struct {
	options   Options
	body      []element
	numbering *numberingRegistry
	header    paragraph
	footer    paragraph
}

// Render 将块序列渲染为docx文件内容
func (r *WordRenderer) Render(blocks []Block, opts Options) ([]byte, error) {
	doc, err := buildDocument(blocks, opts)
	if err != nil {
		return nil, err
	}
	return r.builder.Build(doc)
}

func buildDocument(blocks []Block, opts Options) (*document, error) {
	opts = opts.WithDefaults()
	doc := &document{
		options:   opts,
		numbering: newNumberingRegistry(),
		header:    headerParagraph(opts),
		footer:    footerParagraph(opts),
	}

	for _, block := range blocks {
		if !block.Kind.IsListItem() {
			doc.numbering.breakList()
		}
		elements, err := doc.convertBlock(block)
		if err != nil {
			return nil, err
		}
		doc.body = append(doc.body, elements...)
	}
	return doc, nil
}

// convertBlock 每种块类型对应一条映射规则
func (d *document) convertBlock(block Block) ([]element, error) {
	accent := d.options.AccentColor

	switch block.Kind {
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4:
		tier := headingTiers[block.Kind]
		props := runProps{Font: bodyFont, Size: tier.Size, Bold: true, Italic: tier.Italic, Color: tier.color(accent)}
		return []element{paragraph{
			Style:    tier.Style,
			KeepNext: true,
			Spacing:  &spacing{Before: tier.Before, After: tier.After},
			Runs:     restyle(ParseInline(block.Text, tier.Size), props, true),
		}}, nil

	case KindHorizontalRule:
		return []element{paragraph{
			Spacing: &spacing{Before: 200, After: 200},
			Bottom:  &border{Size: 6, Space: 1, Color: colorRule},
		}}, nil

	case KindBulletItem:
		level := block.IndentLevel
		if level > 1 {
			level = 1
		}
		return []element{paragraph{
			Style:     "ListParagraph",
			Numbering: &numberingRef{NumID: d.numbering.bullet(), Level: level},
			Spacing:   &spacing{Before: 40, After: 40},
			Runs:      styledRuns(ParseInline(block.Text, baseFontSize)),
		}}, nil

	case KindNumberedItem:
		return []element{paragraph{
			Style:     "ListParagraph",
			Numbering: &numberingRef{NumID: d.numbering.decimal(), Level: 0},
			Spacing:   &spacing{Before: 40, After: 40},
			Runs:      styledRuns(ParseInline(block.Text, baseFontSize)),
		}}, nil

	case KindCheckboxItem:
		glyph := glyphUnchecked
		if block.Checked {
			glyph = glyphChecked
		}
		runs := []run{{Text: glyph, Props: runProps{Font: checkboxFont, Size: baseFontSize}}}
		return []element{paragraph{
			Spacing: &spacing{Before: 40, After: 40},
			Indent:  &indent{Left: bulletIndent},
			Runs:    append(runs, styledRuns(ParseInline(block.Text, baseFontSize))...),
		}}, nil

	case KindBlockquote:
		props := runProps{Font: bodyFont, Size: baseFontSize, Italic: true, Color: colorMuted}
		return []element{paragraph{
			Style:   "Quote",
			Spacing: &spacing{Before: 120, After: 120},
			Indent:  &indent{Left: bulletIndent},
			Left:    &border{Size: 24, Space: 8, Color: accent},
			Runs:    restyle(ParseInline(block.Text, baseFontSize), props, false),
		}}, nil

	case KindTable:
		// 没有任何单元格的表格不输出，空的w:tbl/w:tr会导致Word无法打开
		if block.ColumnCount() == 0 {
			return nil, nil
		}
		// 表格后补一个空段落，避免相邻表格被合并
		return []element{
			buildTable(block.Rows, accent),
			paragraph{Spacing: &spacing{Before: 0, After: 120}},
		}, nil

	case KindParagraph:
		return []element{paragraph{
			Spacing: &spacing{Before: 80, After: 80},
			Runs:    styledRuns(ParseInline(block.Text, baseFontSize)),
		}}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, block.Kind)
	}
}

// styledRuns 行内片段转为带字体字号的run
func styledRuns(runs []TextRun) []run {
	out := make([]run, 0, len(runs))
	for _, tr := range runs {
		props := runProps{Font: bodyFont, Size: tr.Size, Bold: tr.Bold, Italic: tr.Italic}
		if tr.Code {
			props = runProps{Font: codeFont, Size: tr.Size - codeSizeDelta, Shading: colorCodeShade}
		}
		out = append(out, run{Text: tr.Text, Props: props})
	}
	return out
}

// restyle 去掉源文本中的强调，统一套用给定样式；keepItalic为true时保留源斜体
func restyle(runs []TextRun, props runProps, keepItalic bool) []run {
	out := make([]run, 0, len(runs))
	for _, tr := range runs {
		p := props
		if keepItalic && tr.Italic {
			p.Italic = true
		}
		out = append(out, run{Text: tr.Text, Props: p})
	}
	return out
}

// columnWidths 等分内容宽度，最后一列吸收取整余数
func columnWidths(count, total int) []int {
	if count <= 0 {
		return nil
	}
	widths := make([]int, count)
	each := total / count
	for i := range widths {
		widths[i] = each
	}
	widths[count-1] = total - each*(count-1)
	return widths
}

func buildTable(rows [][]string, accent string) table {
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := columnWidths(colCount, contentWidth)
	t := table{Width: contentWidth, Columns: widths}

	for rowIndex, row := range rows {
		tr := tableRow{Header: rowIndex == 0}
		for ci := 0; ci < colCount; ci++ {
			text := ""
			if ci < len(row) {
				text = row[ci]
			}
			cell := tableCell{
				Width:   widths[ci],
				Fill:    rowFill(rowIndex, accent),
				Border:  border{Size: 4, Color: colorRule},
				Margins: cellMargins{Top: 60, Left: 100, Bottom: 60, Right: 100},
			}
			runs := ParseInline(text, tableFontSize)
			if rowIndex == 0 {
				cell.Paragraph.Runs = restyle(runs, runProps{Font: bodyFont, Size: tableFontSize, Bold: true, Color: colorWhite}, false)
			} else {
				cell.Paragraph.Runs = styledRuns(runs)
			}
			tr.Cells = append(tr.Cells, cell)
		}
		t.Rows = append(t.Rows, tr)
	}
	return t
}

// rowFill 斑马纹按绝对行号计算：表头为主题色，偶数行浅灰，奇数行无底色
func rowFill(rowIndex int, accent string) string {
	switch {
	case rowIndex == 0:
		return accent
	case rowIndex%2 == 0:
		return colorZebra
	default:
		return ""
	}
}

func headerParagraph(opts Options) paragraph {
	return paragraph{
		Style: "Header",
		Align: "right",
		Runs: []run{{
			Text:  opts.Title,
			Props: runProps{Font: bodyFont, Size: chromeFontSize, Italic: true, Color: colorChrome},
		}},
	}
}

func footerParagraph(opts Options) paragraph {
	props := runProps{Font: bodyFont, Size: chromeFontSize, Color: colorChrome}
	return paragraph{
		Style: "Footer",
		Align: "center",
		Runs: []run{
			{Text: opts.Organisation + footerSeparator, Props: props},
			{Field: "PAGE", Props: props},
		},
	}
}
