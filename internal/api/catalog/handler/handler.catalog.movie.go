// Package cataloghdl chứa các handler HTTP của catalog (phim, diễn viên, đạo diễn, thể loại).
package cataloghdl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Kevindaniel6700/movie-time/internal/api/base/handler"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/common"
)

// MovieHandler xử lý các route /movies
type MovieHandler struct {
	basehdl.BaseHandler
	movieService *catalogsvc.MovieService
}

// NewMovieHandler tạo mới MovieHandler
func NewMovieHandler(movieService *catalogsvc.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// queryAlias trả về giá trị của query param đầu tiên có giá trị trong names
func queryAlias(c fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			return v
		}
	}
	return ""
}

// parseReleaseYear đọc release_year, thiếu thì nil, không phải số nguyên thì lỗi 400
func parseReleaseYear(c fiber.Ctx) (*int, error) {
	raw := strings.TrimSpace(c.Query("release_year"))
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Invalid release_year: %s", raw),
			common.StatusBadRequest,
			err,
		)
	}
	return &year, nil
}

// HandleList lấy danh sách phim, lọc theo genreId|genre_id, actorId|actor_id, directorId|director_id, release_year
func (h *MovieHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		year, err := parseReleaseYear(c)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		params := catalogsvc.MovieFilterParams{
			GenreID:     queryAlias(c, "genreId", "genre_id"),
			ActorID:     queryAlias(c, "actorId", "actor_id"),
			DirectorID:  queryAlias(c, "directorId", "director_id"),
			ReleaseYear: year,
		}

		movies, err := h.movieService.ListMovies(c.Context(), params)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, fmt.Sprintf("Retrieved %d movies", len(movies)), movies, nil)
	})
}

// HandleSearch tìm phim theo q và type (title, actor, director, all)
func (h *MovieHandler) HandleSearch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		q := strings.TrimSpace(c.Query("q"))
		movies, err := h.movieService.SearchMovies(c.Context(), q, catalogsvc.ParseSearchType(c.Query("type")))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		message := fmt.Sprintf("Found %d movies", len(movies))
		if q != "" && len(movies) == 0 {
			message = "No results found"
		}
		return h.HandleResponse(c, common.StatusOK, message, movies, nil)
	})
}

// HandleFeatured lấy tối đa 5 phim rating cao nhất
func (h *MovieHandler) HandleFeatured(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		movies, err := h.movieService.FeaturedMovies(c.Context())
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, fmt.Sprintf("Retrieved %d featured movies", len(movies)), movies, nil)
	})
}

// HandleGet lấy chi tiết một phim
func (h *MovieHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		movie, err := h.movieService.GetMovie(c.Context(), c.Params("id"))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, "Movie retrieved successfully", movie, nil)
	})
}

// HandleRelated lấy các phim cùng thể loại
func (h *MovieHandler) HandleRelated(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		movies, err := h.movieService.RelatedMovies(c.Context(), c.Params("id"))
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, fmt.Sprintf("Retrieved %d related movies", len(movies)), movies, nil)
	})
}

func (h *MovieHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.MovieCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		movie, err := h.movieService.CreateMovie(c.Context(), input)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusCreated, "Movie created successfully", movie, nil)
	})
}

func (h *MovieHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.MovieUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		movie, err := h.movieService.UpdateMovie(c.Context(), c.Params("id"), input)
		if err != nil {
			return h.HandleResponse(c, common.StatusOK, "", nil, err)
		}
		return h.HandleResponse(c, common.StatusOK, "Movie updated successfully", movie, nil)
	})
}

func (h *MovieHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		err := h.movieService.DeleteMovie(c.Context(), c.Params("id"))
		return h.HandleResponse(c, common.StatusOK, "Movie deleted successfully", nil, err)
	})
}
