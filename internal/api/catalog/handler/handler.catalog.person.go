package cataloghdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Kevindaniel6700/movie-time/internal/api/base/handler"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/common"
)

// ActorHandler xử lý các route /actors
type ActorHandler struct {
	basehdl.BaseHandler
	actorService *catalogsvc.ActorService
}

// NewActorHandler tạo mới ActorHandler
func NewActorHandler(actorService *catalogsvc.ActorService) *ActorHandler {
	return &ActorHandler{actorService: actorService}
}

// HandleList lấy danh sách diễn viên, lọc theo movie_id và genre_id
func (h *ActorHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actors, err := h.actorService.ListActors(c.Context(), queryAlias(c, "movie_id", "movieId"), queryAlias(c, "genre_id", "genreId"))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, fmt.Sprintf("Retrieved %d actors", len(actors)), actors, nil)
	})
}

func (h *ActorHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := h.actorService.GetActor(c.Context(), c.Params("id"))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, "Actor retrieved successfully", actor, nil)
	})
}

func (h *ActorHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.PersonCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		actor, err := h.actorService.CreateActor(c.Context(), input)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusCreated, "Actor created successfully", actor, nil)
	})
}

func (h *ActorHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		err := h.actorService.DeleteActor(c.Context(), c.Params("id"))
		return h.HandleResponse(c, common.StatusOK, "Actor deleted successfully", nil, err)
	})
}

// DirectorHandler xử lý các route /directors
type DirectorHandler struct {
	basehdl.BaseHandler
	directorService *catalogsvc.DirectorService
}

// NewDirectorHandler tạo mới DirectorHandler
func NewDirectorHandler(directorService *catalogsvc.DirectorService) *DirectorHandler {
	return &DirectorHandler{directorService: directorService}
}

func (h *DirectorHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		directors, err := h.directorService.ListDirectors(c.Context())
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, fmt.Sprintf("Retrieved %d directors", len(directors)), directors, nil)
	})
}

func (h *DirectorHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		director, err := h.directorService.GetDirector(c.Context(), c.Params("id"))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, "Director retrieved successfully", director, nil)
	})
}

func (h *DirectorHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.PersonCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		director, err := h.directorService.CreateDirector(c.Context(), input)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusCreated, "Director created successfully", director, nil)
	})
}

func (h *DirectorHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		err := h.directorService.DeleteDirector(c.Context(), c.Params("id"))
		return h.HandleResponse(c, common.StatusOK, "Director deleted successfully", nil, err)
	})
}
