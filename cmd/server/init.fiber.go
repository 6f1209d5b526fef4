package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	basehdl "github.com/Kevindaniel6700/movie-time/internal/api/base/handler"
	catalogrouter "github.com/Kevindaniel6700/movie-time/internal/api/catalog/router"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	apirouter "github.com/Kevindaniel6700/movie-time/internal/api/router"
	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

// errorHandler trả về envelope chuẩn cho lỗi không đi qua handler (404 route, 405, body quá lớn, ...)
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := common.MsgInternalError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithRequest(c).WithError(err).Error("Request error")
	}
	return basehdl.JSONResponse(c, code, basehdl.Response{Success: false, Message: message, Data: nil})
}

// corsOrigins tách CORS_ORIGINS thành danh sách, "*" là cho phép tất cả
func corsOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết
func InitFiberApp(services *catalogsvc.Services, enrichment basehdl.EnrichmentStatusProvider) *fiber.App {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		AppName:      "Movie Explorer API",
		ServerHeader: "Movie Explorer API",
		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: errorHandler,
	})

	// 1. Request ID - trace một request qua các dòng log
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// 2. CORS - đặt sớm để xử lý preflight
	origins := corsOrigins(cfg.CORS_Origins)
	allowCredentials := cfg.CORS_AllowCredentials
	if len(origins) == 1 && origins[0] == "*" {
		// Wildcard origin không được đi cùng credentials
		allowCredentials = false
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Rate limit theo IP
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return basehdl.JSONResponse(c, fiber.StatusTooManyRequests, basehdl.Response{
					Success: false,
					Message: "Too many requests, please try again later",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/metrics" ||
					c.Path() == apirouter.APIPrefix+"/system/health" ||
					c.Method() == fiber.MethodOptions
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 4. Recover - panic ngoài SafeHandler
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group(apirouter.APIPrefix)
	var db basehdl.Pinger
	if global.MongoDB_Session != nil {
		db = global.MongoDB_Session
	}
	apirouter.RegisterSystemRoutes(v1, basehdl.NewSystemHandler(db, enrichment))
	catalogrouter.Register(v1, services)

	return app
}
