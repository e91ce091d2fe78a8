package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/model"
	"github.com/yockii/md2docx/pkg/cache"
	"github.com/yockii/md2docx/pkg/config"
	"github.com/yockii/md2docx/pkg/docgen"
	"github.com/yockii/md2docx/pkg/logger"
	"github.com/yockii/md2docx/pkg/util"
)

// cacheNamespace 缓存键的UUIDv5命名空间
var cacheNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/yockii/md2docx"))

// ConvertRequest 转换请求
type ConvertRequest struct {
	Markdown     string `json:"markdown"`
	Title        string `json:"title"`
	Organisation string `json:"organisation"`
	AccentColor  string `json:"accent_color"`
	FileName     string `json:"file_name"`
}

// ConvertResult 转换结果
type ConvertResult struct {
	ID         uint64
	Document   []byte
	FileName   string
	CacheKey   string
	CacheHit   bool
	BlockCount int
	Options    docgen.Options
}

type conversionService struct {
	*BaseService[*model.Conversion]
	generator *docgen.DocGenerator
	cache     cache.Cache
}

// NewConversionService db为nil时不保存转换记录，c为nil时不使用缓存
func NewConversionService(db *gorm.DB, c cache.Cache) ConversionService {
	if c == nil {
		c = cache.Noop{}
	}
	s := &conversionService{
		BaseService: NewBaseService[*model.Conversion](db),
		generator:   docgen.NewDocGenerator(),
		cache:       c,
	}
	s.BaseService.buildCondition = func(query *gorm.DB, condition *model.Conversion) *gorm.DB {
		if condition == nil {
			return query
		}
		if condition.Organisation != "" {
			query = query.Where("organisation = ?", condition.Organisation)
		}
		if condition.SourceHash != "" {
			query = query.Where("source_hash = ?", condition.SourceHash)
		}
		return query
	}
	return s
}

// options 校验请求并填充配置中的默认值
func (s *conversionService) options(req *ConvertRequest) (docgen.Options, error) {
	if strings.TrimSpace(req.Markdown) == "" {
		return docgen.Options{}, constant.ErrEmptyMarkdown
	}
	if limit := config.GetInt("docgen.max_markdown_bytes"); limit > 0 && len(req.Markdown) > limit {
		return docgen.Options{}, constant.ErrMarkdownTooLarge
	}

	opts := docgen.Options{
		Title:        req.Title,
		Organisation: req.Organisation,
		AccentColor:  req.AccentColor,
	}
	if strings.TrimSpace(opts.AccentColor) != "" {
		color, ok := docgen.NormalizeColor(opts.AccentColor)
		if !ok {
			return docgen.Options{}, constant.ErrInvalidColor
		}
		opts.AccentColor = color
	} else {
		opts.AccentColor = config.GetString("docgen.default_accent_color")
	}
	if strings.TrimSpace(opts.Organisation) == "" {
		opts.Organisation = config.GetString("docgen.default_organisation")
	}
	return opts.WithDefaults(), nil
}

func (s *conversionService) Convert(ctx context.Context, req *ConvertRequest) (*ConvertResult, error) {
	if req == nil {
		return nil, constant.ErrInvalidParams
	}
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	result := &ConvertResult{
		FileName: SanitizeFileName(req.FileName, opts.Title),
		CacheKey: CacheKey(req.Markdown, opts),
		Options:  opts,
	}
	blocks := docgen.ParseBlocks(req.Markdown)
	result.BlockCount = len(blocks)

	blob, hit, err := s.cache.Get(ctx, result.CacheKey)
	if err != nil {
		logger.Warn("读取文档缓存失败", logger.F("key", result.CacheKey), logger.F("error", err))
	}
	if hit {
		result.Document = blob
		result.CacheHit = true
	} else {
		blob, err = s.generator.RenderBlocks(blocks, opts)
		if err != nil {
			logger.Error("生成文档失败", logger.F("error", err))
			return nil, err
		}
		result.Document = blob
		if err := s.cache.Set(ctx, result.CacheKey, blob); err != nil {
			logger.Warn("写入文档缓存失败", logger.F("key", result.CacheKey), logger.F("error", err))
		}
	}

	s.record(ctx, req.Markdown, result)
	return result, nil
}

// record 保存转换记录，失败只记录日志
func (s *conversionService) record(ctx context.Context, markdown string, result *ConvertResult) {
	if s.db == nil {
		return
	}
	sum := sha256.Sum256([]byte(markdown))
	rec := &model.Conversion{
		Title:        result.Options.Title,
		Organisation: result.Options.Organisation,
		AccentColor:  result.Options.AccentColor,
		SourceHash:   hex.EncodeToString(sum[:]),
		CacheKey:     result.CacheKey,
		BlockCount:   result.BlockCount,
		ByteSize:     len(result.Document),
		CacheHit:     result.CacheHit,
	}
	rec.ID = util.NewID()
	if err := s.Create(ctx, rec); err != nil {
		logger.Error("保存转换记录失败", logger.F("error", err))
		return
	}
	result.ID = rec.ID
}

func (s *conversionService) Get(ctx context.Context, id uint64) (*model.Conversion, error) {
	if s.db == nil {
		return nil, constant.ErrRecordNotFound
	}
	return s.BaseService.Get(ctx, id)
}

func (s *conversionService) List(ctx context.Context, condition *model.Conversion, offset, limit int) ([]*model.Conversion, int64, error) {
	if s.db == nil {
		return []*model.Conversion{}, 0, nil
	}
	offset, limit = NormalizePage(offset, limit)
	return s.BaseService.List(ctx, condition, offset, limit)
}

// CacheKey 由markdown和渲染选项生成的UUIDv5
func CacheKey(markdown string, opts docgen.Options) string {
	name := strings.Join([]string{opts.Title, opts.Organisation, opts.AccentColor, markdown}, "\x00")
	return uuid.NewSHA1(cacheNamespace, []byte(name)).String()
}

// SanitizeFileName 生成安全的docx文件名，name为空时使用标题
func SanitizeFileName(name, title string) string {
	if strings.TrimSpace(name) == "" {
		name = title
	}
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	for _, ext := range []string{".docx", ".md"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			name = name[:len(name)-len(ext)]
		}
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, name)
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		cleaned = "document"
	}
	return cleaned + ".docx"
}
