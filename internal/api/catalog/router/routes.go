// Package router đăng ký các route thuộc domain catalog: movies, actors, directors, genres.
package router

import (
	"github.com/gofiber/fiber/v3"

	cataloghdl "github.com/Kevindaniel6700/movie-time/internal/api/catalog/handler"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	apirouter "github.com/Kevindaniel6700/movie-time/internal/api/router"
)

// Register đăng ký tất cả route catalog lên v1.
func Register(v1 fiber.Router, services *catalogsvc.Services) {
	movieHandler := cataloghdl.NewMovieHandler(services.Movies)
	actorHandler := cataloghdl.NewActorHandler(services.Actors)
	directorHandler := cataloghdl.NewDirectorHandler(services.Directors)
	genreHandler := cataloghdl.NewGenreHandler(services.Genres)

	// /movies/search và /movies/featured phải đăng ký trước /movies/:id
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodGet, "/search", movieHandler.HandleSearch)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodGet, "/featured", movieHandler.HandleFeatured)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodGet, "/", movieHandler.HandleList)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodGet, "/:id", movieHandler.HandleGet)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodGet, "/:id/related", movieHandler.HandleRelated)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodPost, "/", movieHandler.HandleCreate)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodPut, "/:id", movieHandler.HandleUpdate)
	apirouter.RegisterRoute(v1, "/movies", fiber.MethodDelete, "/:id", movieHandler.HandleDelete)

	// GET /actors?movie_id=&genre_id=
	apirouter.RegisterRoute(v1, "/actors", fiber.MethodGet, "/", actorHandler.HandleList)
	apirouter.RegisterRoute(v1, "/actors", fiber.MethodGet, "/:id", actorHandler.HandleGet)
	apirouter.RegisterRoute(v1, "/actors", fiber.MethodPost, "/", actorHandler.HandleCreate)
	apirouter.RegisterRoute(v1, "/actors", fiber.MethodDelete, "/:id", actorHandler.HandleDelete)

	apirouter.RegisterRoute(v1, "/directors", fiber.MethodGet, "/", directorHandler.HandleList)
	apirouter.RegisterRoute(v1, "/directors", fiber.MethodGet, "/:id", directorHandler.HandleGet)
	apirouter.RegisterRoute(v1, "/directors", fiber.MethodPost, "/", directorHandler.HandleCreate)
	apirouter.RegisterRoute(v1, "/directors", fiber.MethodDelete, "/:id", directorHandler.HandleDelete)

	apirouter.RegisterRoute(v1, "/genres", fiber.MethodGet, "/", genreHandler.HandleList)
	apirouter.RegisterRoute(v1, "/genres", fiber.MethodGet, "/:id", genreHandler.HandleGet)
	apirouter.RegisterRoute(v1, "/genres", fiber.MethodPost, "/", genreHandler.HandleCreate)
	apirouter.RegisterRoute(v1, "/genres", fiber.MethodDelete, "/:id", genreHandler.HandleDelete)
}
