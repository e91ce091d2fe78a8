package appapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/model"
	"github.com/yockii/md2docx/internal/service"
)

type ConversionHandler struct {
	conversionService service.ConversionService
}

func NewConversionHandler(conversionService service.ConversionService) *ConversionHandler {
	return &ConversionHandler{
		conversionService: conversionService,
	}
}

func RegisterConversionHandler(conversionService service.ConversionService) {
	Handlers = append(Handlers, NewConversionHandler(conversionService))
}

func (h *ConversionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/conversion/list", h.List)
	router.Get("/conversion/:id", h.Get)
}

// List 获取转换记录列表
func (h *ConversionHandler) List(c *fiber.Ctx) error {
	offset, limit := service.NormalizePage(
		c.QueryInt("offset", 0),
		c.QueryInt("limit", service.DefaultPageSize),
	)
	condition := &model.Conversion{
		Organisation: c.Query("organisation"),
	}

	records, total, err := h.conversionService.List(c.UserContext(), condition, offset, limit)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}

	return c.JSON(service.OK(service.NewListResponse(records, total, offset, limit)))
}

// Get 获取单条转换记录
func (h *ConversionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}

	record, err := h.conversionService.Get(c.UserContext(), id)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(record))
}
