package appapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/service"
	"github.com/yockii/md2docx/pkg/docgen"
	"github.com/yockii/md2docx/pkg/logger"
)

// 响应头
const (
	HeaderConversionID = "X-Conversion-Id"
	HeaderCache        = "X-Cache"
)

type DocumentHandler struct {
	conversionService service.ConversionService
}

func NewDocumentHandler(conversionService service.ConversionService) *DocumentHandler {
	return &DocumentHandler{
		conversionService: conversionService,
	}
}

func RegisterDocumentHandler(conversionService service.ConversionService) {
	Handlers = append(Handlers, NewDocumentHandler(conversionService))
}

func (h *DocumentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/document/convert", h.Convert)
	router.Post("/document/blocks", h.Blocks)
}

func (h *DocumentHandler) Convert(c *fiber.Ctx) error {
	var req service.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("解析请求参数失败", logger.F("err", err))
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}

	result, err := h.conversionService.Convert(c.UserContext(), &req)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}

	cacheState := "MISS"
	if result.CacheHit {
		cacheState = "HIT"
	}

	// 下载文件流
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Set(fiber.HeaderContentType, docgen.DocxMediaType)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(result.Document)))
	c.Set(HeaderCache, cacheState)
	if result.ID != 0 {
		c.Set(HeaderConversionID, strconv.FormatUint(result.ID, 10))
	}
	return c.Send(result.Document)
}

// blockView 预览接口中的块，附带行内解析结果
type blockView struct {
	docgen.Block
	Runs  []docgen.TextRun     `json:"runs,omitempty"`
	Cells [][][]docgen.TextRun `json:"cells,omitempty"`
}

type blocksRequest struct {
	Markdown string `json:"markdown"`
}

func (h *DocumentHandler) Blocks(c *fiber.Ctx) error {
	var req blocksRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("解析请求参数失败", logger.F("err", err))
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}

	blocks := docgen.ParseBlocks(req.Markdown)
	views := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		views = append(views, newBlockView(b))
	}
	return c.JSON(service.OK(views))
}

func newBlockView(b docgen.Block) blockView {
	view := blockView{Block: b}
	switch {
	case b.Kind == docgen.KindTable:
		for _, row := range b.Rows {
			cells := make([][]docgen.TextRun, 0, len(row))
			for _, cell := range row {
				cells = append(cells, docgen.ParseInline(cell, 0))
			}
			view.Cells = append(view.Cells, cells)
		}
	case b.Kind != docgen.KindHorizontalRule:
		view.Runs = docgen.ParseInline(b.Text, 0)
	}
	return view
}

// parseID 解析路径中的ID
func parseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Join(constant.ErrInvalidParams, err)
	}
	return id, nil
}
