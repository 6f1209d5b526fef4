package cataloghdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Kevindaniel6700/movie-time/internal/api/base/handler"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/common"
)

// GenreHandler xử lý các route /genres
type GenreHandler struct {
	basehdl.BaseHandler
	genreService *catalogsvc.GenreService
}

// NewGenreHandler tạo mới GenreHandler
func NewGenreHandler(genreService *catalogsvc.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

func (h *GenreHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		genres, err := h.genreService.ListGenres(c.Context())
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, fmt.Sprintf("Retrieved %d genres", len(genres)), genres, nil)
	})
}

func (h *GenreHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		genre, err := h.genreService.GetGenre(c.Context(), c.Params("id"))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, "Genre retrieved successfully", genre, nil)
	})
}

// HandleCreate tạo thể loại, tên trùng trả về 409
func (h *GenreHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.GenreCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		genre, err := h.genreService.CreateGenre(c.Context(), input)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusCreated, "Genre created successfully", genre, nil)
	})
}

func (h *GenreHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		err := h.genreService.DeleteGenre(c.Context(), c.Params("id"))
		return h.HandleResponse(c, common.StatusOK, "Genre deleted successfully", nil, err)
	})
}
