package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/worker"
)

// Pinger kiểm tra kết nối tới database (*mongo.Client thỏa mãn interface này)
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// EnrichmentStatusProvider trả về trạng thái của worker poster enrichment
type EnrichmentStatusProvider interface {
	Status() worker.PosterEnrichmentStatus
}

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	BaseHandler
	db         Pinger
	enrichment EnrichmentStatusProvider
}

// NewSystemHandler tạo một instance mới của SystemHandler. db hoặc enrichment có thể nil.
func NewSystemHandler(db Pinger, enrichment EnrichmentStatusProvider) *SystemHandler {
	return &SystemHandler{db: db, enrichment: enrichment}
}

// HandleHealth kiểm tra trạng thái của API và database connection
// @Router /system/health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	if h.db == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
		return JSONResponse(c, common.StatusServiceUnavailable, Response{Success: false, Message: "Service unavailable", Data: healthData})
	}

	if err := h.db.Ping(ctx, nil); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		return JSONResponse(c, common.StatusServiceUnavailable, Response{Success: false, Message: "Service unavailable", Data: healthData})
	}

	services["database"] = "ok"
	return JSONResponse(c, common.StatusOK, Response{Success: true, Message: common.MsgSuccess, Data: healthData})
}

// HandleEnrichmentStatus trả về tiến độ poster enrichment
// @Router /system/enrichment [get]
func (h *SystemHandler) HandleEnrichmentStatus(c fiber.Ctx) error {
	status := worker.PosterEnrichmentStatus{State: worker.PosterEnrichmentIdle}
	if h.enrichment != nil {
		status = h.enrichment.Status()
	}
	return h.HandleResponse(c, common.StatusOK, "Poster enrichment status", status, nil)
}
