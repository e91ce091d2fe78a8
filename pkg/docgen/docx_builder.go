package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

const (
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	nsWordML  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeStyles    = nsRels + "/styles"
	relTypeSettings  = nsRels + "/settings"
	relTypeHeader    = nsRels + "/header"
	relTypeFooter    = nsRels + "/footer"
	relTypeNumbering = nsRels + "/numbering"

	contentTypeWordML = "application/vnd.openxmlformats-officedocument.wordprocessingml"
)

// DocxMediaType docx文件的MIME类型
const DocxMediaType = contentTypeWordML + ".document"

// packageEpoch 压缩包内文件的固定修改时间，保证输出可复现
var packageEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// part 压缩包中的一个文件
type part struct {
	name    string
	content string
}

// DocxBuilder 负责构建DOCX文档
type DocxBuilder struct{}

// NewDocxBuilder 创建一个新的DOCX构建器
func NewDocxBuilder() *DocxBuilder {
	return &DocxBuilder{}
}

// Build 构建DOCX文档，文件按固定顺序写入
func (b *DocxBuilder) Build(doc *document) ([]byte, error) {
	parts := b.parts(doc)

	outputBuffer := new(bytes.Buffer)
	zipWriter := zip.NewWriter(outputBuffer)
	for _, p := range parts {
		entry, err := zipWriter.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: packageEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrSerialize, p.name, err)
		}
		if _, err = entry.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("%w: write %s: %v", ErrSerialize, p.name, err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return outputBuffer.Bytes(), nil
}

func (b *DocxBuilder) parts(doc *document) []part {
	withNumbering := !doc.numbering.empty()

	parts := []part{
		{"[Content_Types].xml", getContentTypesXML(withNumbering)},
		{"_rels/.rels", getRelsXML()},
		{"word/document.xml", getDocumentXML(doc)},
		{"word/_rels/document.xml.rels", getWordRelsXML(withNumbering)},
		{"word/styles.xml", getStylesXML(doc.options.AccentColor)},
		{"word/settings.xml", getSettingsXML()},
		{"word/header1.xml", getHeaderFooterXML("hdr", doc.header)},
		{"word/footer1.xml", getHeaderFooterXML("ftr", doc.footer)},
	}
	if withNumbering {
		buf := new(xmlBuffer)
		doc.numbering.writeXML(buf)
		parts = append(parts, part{"word/numbering.xml", buf.String()})
	}
	return parts
}

func getContentTypesXML(withNumbering bool) string {
	buf := new(xmlBuffer)
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	buf.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	buf.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	overrides := []struct{ name, kind string }{
		{"/word/document.xml", ".document.main+xml"},
		{"/word/styles.xml", ".styles+xml"},
		{"/word/settings.xml", ".settings+xml"},
		{"/word/header1.xml", ".header+xml"},
		{"/word/footer1.xml", ".footer+xml"},
	}
	if withNumbering {
		overrides = append(overrides, struct{ name, kind string }{"/word/numbering.xml", ".numbering+xml"})
	}
	for _, o := range overrides {
		buf.printf(`<Override PartName="%s" ContentType="%s%s"/>`, o.name, contentTypeWordML, o.kind)
	}
	buf.WriteString(`</Types>`)
	return buf.String()
}

func getRelsXML() string {
	return xmlHeader + `<Relationships xmlns="` + nsPkgRels + `">` +
		`<Relationship Id="rId1" Type="` + nsRels + `/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
}

// 文档关系ID
const (
	relIDStyles    = "rId1"
	relIDSettings  = "rId2"
	relIDHeader    = "rId3"
	relIDFooter    = "rId4"
	relIDNumbering = "rId5"
)

func getWordRelsXML(withNumbering bool) string {
	buf := new(xmlBuffer)
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="` + nsPkgRels + `">`)
	rel := func(id, typ, target string) {
		buf.printf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, typ, target)
	}
	rel(relIDStyles, relTypeStyles, "styles.xml")
	rel(relIDSettings, relTypeSettings, "settings.xml")
	rel(relIDHeader, relTypeHeader, "header1.xml")
	rel(relIDFooter, relTypeFooter, "footer1.xml")
	if withNumbering {
		rel(relIDNumbering, relTypeNumbering, "numbering.xml")
	}
	buf.WriteString(`</Relationships>`)
	return buf.String()
}

func getDocumentXML(doc *document) string {
	buf := new(xmlBuffer)
	buf.WriteString(xmlHeader)
	buf.WriteString(`<w:document xmlns:w="` + nsWordML + `" xmlns:r="` + nsRels + `"><w:body>`)
	for _, el := range doc.body {
		el.writeXML(buf)
	}
	buf.printf(`<w:sectPr><w:headerReference w:type="default" r:id="%s"/><w:footerReference w:type="default" r:id="%s"/>`, relIDHeader, relIDFooter)
	buf.printf(`<w:pgSz w:w="%d" w:h="%d"/>`, pageWidth, pageHeight)
	buf.printf(`<w:pgMar w:top="%[1]d" w:right="%[1]d" w:bottom="%[1]d" w:left="%[1]d" w:header="708" w:footer="708" w:gutter="0"/>`, pageMargin)
	buf.WriteString(`</w:sectPr></w:body></w:document>`)
	return buf.String()
}

// getHeaderFooterXML tag为hdr或ftr
func getHeaderFooterXML(tag string, p paragraph) string {
	buf := new(xmlBuffer)
	buf.WriteString(xmlHeader)
	buf.printf(`<w:%s xmlns:w="%s" xmlns:r="%s">`, tag, nsWordML, nsRels)
	p.writeXML(buf)
	buf.printf(`</w:%s>`, tag)
	return buf.String()
}

func getSettingsXML() string {
	return xmlHeader + `<w:settings xmlns:w="` + nsWordML + `">` +
		`<w:defaultTabStop w:val="720"/>` +
		`<w:characterSpacingControl w:val="doNotCompress"/>` +
		`<w:compat><w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="15"/></w:compat>` +
		`</w:settings>`
}

func getStylesXML(accent string) string {
	buf := new(xmlBuffer)
	buf.WriteString(xmlHeader)
	buf.WriteString(`<w:styles xmlns:w="` + nsWordML + `">`)
	buf.WriteString(`<w:docDefaults><w:rPrDefault>`)
	runProps{Font: bodyFont, Size: baseFontSize}.writeXML(buf)
	buf.WriteString(`</w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`)

	buf.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)

	for level, kind := range []BlockKind{KindHeading1, KindHeading2, KindHeading3, KindHeading4} {
		tier := headingTiers[kind]
		buf.printf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`,
			tier.Style, level+1)
		buf.printf(`<w:pPr><w:keepNext/><w:spacing w:before="%d" w:after="%d"/><w:outlineLvl w:val="%d"/></w:pPr>`, tier.Before, tier.After, level)
		runProps{Font: bodyFont, Size: tier.Size, Bold: true, Italic: tier.Italic, Color: tier.color(accent)}.writeXML(buf)
		buf.WriteString(`</w:style>`)
	}

	buf.printf(`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:ind w:left="%d"/></w:pPr></w:style>`, bulletIndent)
	buf.printf(`<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:ind w:left="%d"/></w:pPr>`, bulletIndent)
	runProps{Italic: true, Color: colorMuted}.writeXML(buf)
	buf.WriteString(`</w:style>`)
	buf.WriteString(`<w:style w:type="paragraph" w:styleId="Header"><w:name w:val="header"/><w:basedOn w:val="Normal"/></w:style>`)
	buf.WriteString(`<w:style w:type="paragraph" w:styleId="Footer"><w:name w:val="footer"/><w:basedOn w:val="Normal"/></w:style>`)
	buf.WriteString(`</w:styles>`)
	return buf.String()
}
