package docgen

const (
	bulletAbstractID  = 0
	decimalAbstractID = 1
)

// numberingRegistry 单次转换内的编号定义登记表，不跨调用共享
type numberingRegistry struct {
	nextNumID int
	bulletID  int
	// decimalIDs 每段连续编号列表一个实例，用于重新从1开始计数
	decimalIDs []int
	currentID  int
}

func newNumberingRegistry() *numberingRegistry {
	return &numberingRegistry{nextNumID: 1}
}

func (r *numberingRegistry) alloc() int {
	id := r.nextNumID
	r.nextNumID++
	return id
}

// bullet 项目符号列表的编号实例，整篇文档共用一个
func (r *numberingRegistry) bullet() int {
	if r.bulletID == 0 {
		r.bulletID = r.alloc()
	}
	return r.bulletID
}

// decimal 当前编号列表的实例，列表被打断后分配新的实例
func (r *numberingRegistry) decimal() int {
	if r.currentID == 0 {
		r.currentID = r.alloc()
		r.decimalIDs = append(r.decimalIDs, r.currentID)
	}
	return r.currentID
}

// breakList 非列表块结束当前的编号列表
func (r *numberingRegistry) breakList() {
	r.currentID = 0
}

func (r *numberingRegistry) empty() bool {
	return r.bulletID == 0 && len(r.decimalIDs) == 0
}

func (r *numberingRegistry) writeXML(b *xmlBuffer) {
	b.WriteString(xmlHeader)
	b.WriteString(`<w:numbering xmlns:w="` + nsWordML + `">`)
	if r.bulletID != 0 {
		b.printf(`<w:abstractNum w:abstractNumId="%d"><w:multiLevelType w:val="hybridMultilevel"/>`, bulletAbstractID)
		writeLevel(b, 0, "bullet", "•", bulletIndent)
		writeLevel(b, 1, "bullet", "◦", 2*bulletIndent)
		b.WriteString("</w:abstractNum>")
	}
	if len(r.decimalIDs) > 0 {
		b.printf(`<w:abstractNum w:abstractNumId="%d"><w:multiLevelType w:val="singleLevel"/>`, decimalAbstractID)
		writeLevel(b, 0, "decimal", "%1.", bulletIndent)
		b.WriteString("</w:abstractNum>")
	}
	if r.bulletID != 0 {
		b.printf(`<w:num w:numId="%d"><w:abstractNumId w:val="%d"/></w:num>`, r.bulletID, bulletAbstractID)
	}
	for _, id := range r.decimalIDs {
		b.printf(`<w:num w:numId="%d"><w:abstractNumId w:val="%d"/><w:lvlOverride w:ilvl="0"><w:startOverride w:val="1"/></w:lvlOverride></w:num>`,
			id, decimalAbstractID)
	}
	b.WriteString("</w:numbering>")
}

func writeLevel(b *xmlBuffer, level int, format, text string, left int) {
	b.printf(`<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="%s"/><w:lvlText w:val="`, level, format)
	b.escape(text)
	b.printf(`"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="%d"/></w:pPr></w:lvl>`, left, hangingIndent)
}
