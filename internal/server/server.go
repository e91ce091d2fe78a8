package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	middlewareLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	appapi "github.com/yockii/md2docx/internal/api_app"
	"github.com/yockii/md2docx/internal/middleware"
	"github.com/yockii/md2docx/internal/service"
	"github.com/yockii/md2docx/pkg/cache"
	"github.com/yockii/md2docx/pkg/config"
	"github.com/yockii/md2docx/pkg/logger"
)

type Server struct {
	app   *fiber.App
	db    *gorm.DB
	cache cache.Cache

	conversionSrv service.ConversionService
	limiter       *middleware.RateLimiter
}

func New(db *gorm.DB, c cache.Cache) *Server {
	return &Server{
		db:    db,
		cache: c,
	}
}

// Setup 创建Fiber实例并注册路由
func (s *Server) Setup() *fiber.App {
	// 创建Fiber实例
	s.app = fiber.New(fiber.Config{
		AppName:               config.GetString("server.app_name"),
		EnablePrintRoutes:     config.GetBool("server.print_routes"),
		DisableStartupMessage: true,
		BodyLimit:             config.GetInt("server.body_limit"),
	})

	s.setupServices()

	// 配置中间件
	s.setupMiddleware()

	// 健康检查
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	// 配置应用路由
	s.setupApplicationRoutesV1()
	return s.app
}

func (s *Server) Start() error {
	s.Setup()

	// 启动服务器
	addr := config.GetServerAddress()
	logger.Info("服务监听地址", logger.F("address", addr))

	// 优雅关闭
	go s.gracefulShutdown()

	if err := s.app.Listen(addr); err != nil {
		logger.Error("服务停止", logger.F("error", err))
		return err
	}
	return nil
}

func (s *Server) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务关闭中...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		logger.Error("服务关闭失败", logger.F("error", err))
	}
	s.Close()

	logger.Info("服务已关闭")
}

// Close 停止服务持有的后台任务
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
		s.limiter = nil
	}
}

// setupServices 配置服务层
func (s *Server) setupServices() {
	s.conversionSrv = service.NewConversionService(s.db, s.cache)
}

// setupMiddleware 配置中间件
func (s *Server) setupMiddleware() {
	// 异常恢复
	s.app.Use(recover.New())

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  config.GetString("security.allowed_origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, " + appapi.HeaderConversionID + ", " + appapi.HeaderCache,
	}))

	// 访问日志
	s.app.Use(middlewareLogger.New(middlewareLogger.Config{
		Format:     "[${ip}]-${time} ${status} ${latency} ${method} ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

// setupApplicationRoutesV1 配置应用路由
func (s *Server) setupApplicationRoutesV1() {
	appapi.Handlers = nil
	appapi.RegisterDocumentHandler(s.conversionSrv)
	appapi.RegisterConversionHandler(s.conversionSrv)

	// 限流在鉴权之前，鉴权失败的请求同样计数
	var handlers []fiber.Handler
	s.Close()
	if config.GetBool("rate_limit.enabled") {
		duration := time.Duration(config.GetInt("rate_limit.duration")) * time.Second
		s.limiter = middleware.NewRateLimiter(config.GetInt("rate_limit.max_requests"), duration)
		s.limiter.StartCleanup(duration)
		handlers = append(handlers, s.limiter.Handler())
	}
	handlers = append(handlers, middleware.NewAPIKeyMiddleware(config.GetStringSlice("security.api_keys")))

	appApiGroup := s.app.Group("/api/v1", handlers...)
	for _, handler := range appapi.Handlers {
		handler.RegisterRoutes(appApiGroup)
	}
}
