package appapi

import "github.com/gofiber/fiber/v2"

var Handlers []Handler

type Handler interface {
	RegisterRoutes(router fiber.Router)
}

/*
文档转换接口：
1、markdown转换为docx并下载
2、预览markdown的块结构
3、查询转换记录
*/
