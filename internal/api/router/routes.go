// Package apirouter chứa helper đăng ký route dùng chung và các route hệ thống.
package apirouter

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Kevindaniel6700/movie-time/internal/api/base/handler"
)

// APIPrefix là prefix chung của mọi route nghiệp vụ
const APIPrefix = "/api/v1"

// RegisterRouteWithMiddleware đăng ký route qua một group.
// Middleware phải gắn bằng .Use() trên group, truyền trực tiếp vào Get/Post sẽ không được gọi.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case fiber.MethodGet:
		routeGroup.Get(path, handler)
	case fiber.MethodPost:
		routeGroup.Post(path, handler)
	case fiber.MethodPut:
		routeGroup.Put(path, handler)
	case fiber.MethodDelete:
		routeGroup.Delete(path, handler)
	}
}

// RegisterRoute đăng ký route không có middleware riêng
func RegisterRoute(router fiber.Router, prefix string, method string, path string, handler fiber.Handler) {
	RegisterRouteWithMiddleware(router, prefix, method, path, nil, handler)
}

// RegisterSystemRoutes đăng ký /system/health và /system/enrichment lên v1
func RegisterSystemRoutes(v1 fiber.Router, systemHandler *basehdl.SystemHandler) {
	RegisterRoute(v1, "/system", fiber.MethodGet, "/health", systemHandler.HandleHealth)
	RegisterRoute(v1, "/system", fiber.MethodGet, "/enrichment", systemHandler.HandleEnrichmentStatus)
}
