package docgen

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

const (
	// DefaultOrganisation 未指定组织名称时页脚使用的名称
	DefaultOrganisation = "AI Safety Net"
	// DefaultAccentColor 默认主题色（深蓝）
	DefaultAccentColor = "1B2A4A"
)

var (
	// ErrSerialize 文档打包失败
	ErrSerialize = errors.New("docgen: serialize document")
	// ErrUnknownBlock 遇到未定义的块类型
	ErrUnknownBlock = errors.New("docgen: unknown block kind")
)

// Options 文档渲染选项
type Options struct {
	// Title 页眉文字，为空时使用组织名称
	Title string `json:"title"`
	// Organisation 页脚中的组织名称
	Organisation string `json:"organisation"`
	// AccentColor 6位十六进制颜色，不带#
	AccentColor string `json:"accent_color"`
}

// WithDefaults 填充默认值，非法颜色回退为默认主题色
func (o Options) WithDefaults() Options {
	o.Title = strings.TrimSpace(o.Title)
	o.Organisation = strings.TrimSpace(o.Organisation)
	if o.Organisation == "" {
		o.Organisation = DefaultOrganisation
	}
	if o.Title == "" {
		o.Title = o.Organisation
	}
	if color, ok := NormalizeColor(o.AccentColor); ok {
		o.AccentColor = color
	} else {
		o.AccentColor = DefaultAccentColor
	}
	return o
}

// NormalizeColor 去掉前导#并转为大写，校验是否为6位十六进制
func NormalizeColor(color string) (string, bool) {
	color = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(color) != 6 {
		return "", false
	}
	for _, c := range color {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return "", false
		}
	}
	return color, true
}

// DocGenerator Word文档生成器
type DocGenerator struct {
	renderer *WordRenderer
}

// NewDocGenerator 创建一个新的Word文档生成器
func NewDocGenerator() *DocGenerator {
	return &DocGenerator{
		renderer: NewWordRenderer(),
	}
}

// RenderBytes 从Markdown字节数据生成Word文档
func (g *DocGenerator) RenderBytes(source []byte, opts Options) ([]byte, error) {
	blocks := parseBlocks(source)
	return g.renderer.Render(blocks, opts)
}

// RenderBlocks 渲染已解析的块序列
func (g *DocGenerator) RenderBlocks(blocks []Block, opts Options) ([]byte, error) {
	return g.renderer.Render(blocks, opts)
}

// RenderString 从Markdown字符串生成Word文档
func (g *DocGenerator) RenderString(source string, opts Options) ([]byte, error) {
	return g.RenderBytes([]byte(source), opts)
}

// RenderReader 从Reader读取Markdown并生成Word文档
func (g *DocGenerator) RenderReader(reader io.Reader, opts Options) ([]byte, error) {
	buf := new(bytes.Buffer)
	_, err := io.Copy(buf, reader)
	if err != nil {
		return nil, err
	}
	return g.RenderBytes(buf.Bytes(), opts)
}

// MarkdownToDocx 将Markdown转换为docx文件内容
func MarkdownToDocx(markdown string, opts Options) ([]byte, error) {
	return NewDocGenerator().RenderString(markdown, opts)
}
