package docgen

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// xmlBuffer 拼接WordprocessingML片段
type xmlBuffer struct {
	strings.Builder
}

func (b *xmlBuffer) printf(format string, args ...interface{}) {
	fmt.Fprintf(b, format, args...)
}

// escape 写入转义后的文本
func (b *xmlBuffer) escape(s string) {
	_ = xml.EscapeText(b, []byte(s))
}

// element 文档主体中的节点（段落或表格）
type element interface {
	writeXML(b *xmlBuffer)
}

type runProps struct {
	Font    string
	Size    int
	Bold    bool
	Italic  bool
	Color   string
	Shading string
}

// run 文本片段；Field不为空时输出为域代码（例如PAGE）
type run struct {
	Text  string
	Field string
	Props runProps
}

type spacing struct {
	Before int
	After  int
}

type indent struct {
	Left    int
	Hanging int
}

type border struct {
	Size  int
	Space int
	Color string
}

type numberingRef struct {
	NumID int
	Level int
}

type paragraph struct {
	Style     string
	Align     string
	KeepNext  bool
	Numbering *numberingRef
	Left      *border
	Bottom    *border
	Spacing   *spacing
	Indent    *indent
	Runs      []run
}

type cellMargins struct {
	Top, Left, Bottom, Right int
}

type tableCell struct {
	Width     int
	Fill      string
	Border    border
	Margins   cellMargins
	Paragraph paragraph
}

type tableRow struct {
	Header bool
	Cells  []tableCell
}

type table struct {
	Width   int
	Columns []int
	Rows    []tableRow
}

func (p runProps) writeXML(b *xmlBuffer) {
	b.WriteString("<w:rPr>")
	if p.Font != "" {
		b.printf(`<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:eastAsia="%[1]s" w:cs="%[1]s"/>`, p.Font)
	}
	if p.Bold {
		b.WriteString("<w:b/><w:bCs/>")
	}
	if p.Italic {
		b.WriteString("<w:i/><w:iCs/>")
	}
	if p.Color != "" {
		b.printf(`<w:color w:val="%s"/>`, p.Color)
	}
	if p.Size > 0 {
		b.printf(`<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, p.Size, p.Size)
	}
	if p.Shading != "" {
		b.printf(`<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, p.Shading)
	}
	b.WriteString("</w:rPr>")
}

func (r run) writeXML(b *xmlBuffer) {
	if r.Field != "" {
		r.writeField(b)
		return
	}
	b.WriteString("<w:r>")
	r.Props.writeXML(b)
	b.WriteString(`<w:t xml:space="preserve">`)
	b.escape(r.Text)
	b.WriteString("</w:t></w:r>")
}

// writeField 复杂域：begin / instrText / separate / 占位结果 / end，由Word分页时计算
func (r run) writeField(b *xmlBuffer) {
	open := func() {
		b.WriteString("<w:r>")
		r.Props.writeXML(b)
	}
	open()
	b.WriteString(`<w:fldChar w:fldCharType="begin"/></w:r>`)
	open()
	b.WriteString(`<w:instrText xml:space="preserve"> `)
	b.escape(r.Field)
	b.WriteString(` </w:instrText></w:r>`)
	open()
	b.WriteString(`<w:fldChar w:fldCharType="separate"/></w:r>`)
	open()
	b.WriteString(`<w:t>1</w:t></w:r>`)
	open()
	b.WriteString(`<w:fldChar w:fldCharType="end"/></w:r>`)
}

func (p paragraph) writeXML(b *xmlBuffer) {
	b.WriteString("<w:p><w:pPr>")
	if p.Style != "" {
		b.printf(`<w:pStyle w:val="%s"/>`, p.Style)
	}
	if p.KeepNext {
		b.WriteString("<w:keepNext/>")
	}
	if p.Numbering != nil {
		b.printf(`<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, p.Numbering.Level, p.Numbering.NumID)
	}
	if p.Left != nil || p.Bottom != nil {
		b.WriteString("<w:pBdr>")
		if p.Left != nil {
			p.Left.writeXML(b, "left")
		}
		if p.Bottom != nil {
			p.Bottom.writeXML(b, "bottom")
		}
		b.WriteString("</w:pBdr>")
	}
	if p.Spacing != nil {
		b.printf(`<w:spacing w:before="%d" w:after="%d"/>`, p.Spacing.Before, p.Spacing.After)
	}
	if p.Indent != nil {
		if p.Indent.Hanging > 0 {
			b.printf(`<w:ind w:left="%d" w:hanging="%d"/>`, p.Indent.Left, p.Indent.Hanging)
		} else {
			b.printf(`<w:ind w:left="%d"/>`, p.Indent.Left)
		}
	}
	if p.Align != "" {
		b.printf(`<w:jc w:val="%s"/>`, p.Align)
	}
	b.WriteString("</w:pPr>")
	for _, r := range p.Runs {
		r.writeXML(b)
	}
	b.WriteString("</w:p>")
}

func (bd border) writeXML(b *xmlBuffer, side string) {
	b.printf(`<w:%s w:val="single" w:sz="%d" w:space="%d" w:color="%s"/>`, side, bd.Size, bd.Space, bd.Color)
}

func (t table) writeXML(b *xmlBuffer) {
	b.WriteString("<w:tbl><w:tblPr>")
	b.printf(`<w:tblW w:w="%d" w:type="dxa"/>`, t.Width)
	b.WriteString(`<w:tblLayout w:type="fixed"/>`)
	b.WriteString(`<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="1" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/>`)
	b.WriteString("</w:tblPr><w:tblGrid>")
	for _, w := range t.Columns {
		b.printf(`<w:gridCol w:w="%d"/>`, w)
	}
	b.WriteString("</w:tblGrid>")

	for _, row := range t.Rows {
		b.WriteString("<w:tr>")
		if row.Header {
			b.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
		}
		for _, cell := range row.Cells {
			cell.writeXML(b)
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
}

func (c tableCell) writeXML(b *xmlBuffer) {
	b.WriteString("<w:tc><w:tcPr>")
	b.printf(`<w:tcW w:w="%d" w:type="dxa"/>`, c.Width)
	b.WriteString("<w:tcBorders>")
	for _, side := range []string{"top", "left", "bottom", "right"} {
		c.Border.writeXML(b, side)
	}
	b.WriteString("</w:tcBorders>")
	if c.Fill != "" {
		b.printf(`<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, c.Fill)
	}
	b.printf(`<w:tcMar><w:top w:w="%d" w:type="dxa"/><w:left w:w="%d" w:type="dxa"/><w:bottom w:w="%d" w:type="dxa"/><w:right w:w="%d" w:type="dxa"/></w:tcMar>`,
		c.Margins.Top, c.Margins.Left, c.Margins.Bottom, c.Margins.Right)
	b.WriteString("</w:tcPr>")
	c.Paragraph.writeXML(b)
	b.WriteString("</w:tc>")
}
