package catalogsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	basesvc "github.com/Kevindaniel6700/movie-time/internal/api/base/service"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/utility"
)

// EntityKind là tập đóng các loại entity mà Formatter biết cách trình bày
type EntityKind string

const (
	EntityMovie    EntityKind = "movie"
	EntityActor    EntityKind = "actor"
	EntityDirector EntityKind = "director"
	EntityGenre    EntityKind = "genre"
)

// Label là tên hiển thị trong message trả về client ("Movie", "Actor", ...)
func (k EntityKind) Label() string {
	switch k {
	case EntityMovie:
		return "Movie"
	case EntityActor:
		return "Actor"
	case EntityDirector:
		return "Director"
	case EntityGenre:
		return "Genre"
	}
	return "Resource"
}

// NotFoundMessage tạo message 404 dạng "Movie with ID <id> not found"
func (k EntityKind) NotFoundMessage(id string) string {
	return fmt.Sprintf("%s with ID %s not found", k.Label(), id)
}

// unknownDirector thay cho đạo diễn bị xóa hoặc tham chiếu hỏng
var unknownDirector = catalogdto.PersonRef{ID: "", Name: "Unknown"}

// Formatter resolve tham chiếu giữa các entity thành view lồng nhau.
// Tham chiếu hỏng không bao giờ là lỗi: đạo diễn thiếu thành "Unknown", phần tử thiếu trong mảng bị bỏ qua.
type Formatter struct {
	movies    *basesvc.BaseServiceMongoImpl[catalogmodels.Movie]
	actors    *basesvc.BaseServiceMongoImpl[catalogmodels.Actor]
	directors *basesvc.BaseServiceMongoImpl[catalogmodels.Director]
	genres    *basesvc.BaseServiceMongoImpl[catalogmodels.Genre]
}

// FormatMovie format một phim
func (f *Formatter) FormatMovie(ctx context.Context, movie catalogmodels.Movie) (catalogdto.MovieView, error) {
	views, err := f.FormatMovies(ctx, []catalogmodels.Movie{movie})
	if err != nil {
		return catalogdto.MovieView{}, err
	}
	return views[0], nil
}

// FormatMovies format nhiều phim với đúng một truy vấn $in cho mỗi collection tham chiếu
// (directors, actors, genres), ba truy vấn chạy song song.
func (f *Formatter) FormatMovies(ctx context.Context, movies []catalogmodels.Movie) ([]catalogdto.MovieView, error) {
	views := make([]catalogdto.MovieView, 0, len(movies))
	if len(movies) == 0 {
		return views, nil
	}

	var directorIDs, actorIDs, genreIDs []primitive.ObjectID
	for _, m := range movies {
		if !m.DirectorID.IsZero() {
			directorIDs = append(directorIDs, m.DirectorID)
		}
		actorIDs = append(actorIDs, m.ActorIDs...)
		genreIDs = append(genreIDs, m.GenreIDs...)
	}

	var (
		directors map[primitive.ObjectID]catalogmodels.Director
		actors    map[primitive.ObjectID]catalogmodels.Actor
		genres    map[primitive.ObjectID]catalogmodels.Genre
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := f.directors.FindManyByIds(gctx, utility.UniqueObjectIDs(directorIDs))
		if err != nil {
			return err
		}
		directors = indexByID(found, func(d catalogmodels.Director) primitive.ObjectID { return d.ID })
		return nil
	})
	g.Go(func() error {
		found, err := f.actors.FindManyByIds(gctx, utility.UniqueObjectIDs(actorIDs))
		if err != nil {
			return err
		}
		actors = indexByID(found, func(a catalogmodels.Actor) primitive.ObjectID { return a.ID })
		return nil
	})
	g.Go(func() error {
		found, err := f.genres.FindManyByIds(gctx, utility.UniqueObjectIDs(genreIDs))
		if err != nil {
			return err
		}
		genres = indexByID(found, func(g catalogmodels.Genre) primitive.ObjectID { return g.ID })
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, m := range movies {
		views = append(views, buildMovieView(m, directors, actors, genres))
	}
	return views, nil
}

func buildMovieView(
	m catalogmodels.Movie,
	directors map[primitive.ObjectID]catalogmodels.Director,
	actors map[primitive.ObjectID]catalogmodels.Actor,
	genres map[primitive.ObjectID]catalogmodels.Genre,
) catalogdto.MovieView {
	view := catalogdto.MovieView{
		ID:          utility.ObjectID2String(m.ID),
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Rating:      m.Rating,
		Director:    unknownDirector,
		Actors:      []catalogdto.PersonRef{},
		Genres:      []catalogdto.GenreRef{},
		Description: m.Description,
		IsFeatured:  m.IsFeatured,
		PosterURL:   m.PosterURL,
		Reviews:     []catalogdto.ReviewView{},
	}

	if d, ok := directors[m.DirectorID]; ok {
		bio := d.Bio
		view.Director = catalogdto.PersonRef{ID: d.ID.Hex(), Name: d.Name, Bio: &bio}
	}
	for _, id := range utility.UniqueObjectIDs(m.ActorIDs) {
		if a, ok := actors[id]; ok {
			bio := a.Bio
			view.Actors = append(view.Actors, catalogdto.PersonRef{ID: a.ID.Hex(), Name: a.Name, Bio: &bio})
		}
	}
	for _, id := range utility.UniqueObjectIDs(m.GenreIDs) {
		if g, ok := genres[id]; ok {
			view.Genres = append(view.Genres, catalogdto.GenreRef{ID: g.ID.Hex(), Name: g.Name})
		}
	}
	if view.Description == "" {
		view.Description = fmt.Sprintf("A movie released in %d.", m.ReleaseYear)
	}
	for _, r := range m.Reviews {
		view.Reviews = append(view.Reviews, catalogdto.ReviewView{User: r.User, Comment: r.Comment, Rating: r.Rating})
	}
	return view
}

// person là phần chung của Actor và Director khi format
type person struct {
	ID       primitive.ObjectID
	Name     string
	Bio      string
	MovieIDs []primitive.ObjectID
}

// FormatActor format một diễn viên kèm danh sách phim
func (f *Formatter) FormatActor(ctx context.Context, actor catalogmodels.Actor) (catalogdto.PersonView, error) {
	views, err := f.FormatActors(ctx, []catalogmodels.Actor{actor})
	if err != nil {
		return catalogdto.PersonView{}, err
	}
	return views[0], nil
}

// FormatActors format nhiều diễn viên, phim của tất cả được lấy trong một truy vấn
func (f *Formatter) FormatActors(ctx context.Context, actors []catalogmodels.Actor) ([]catalogdto.PersonView, error) {
	people := make([]person, 0, len(actors))
	for _, a := range actors {
		people = append(people, person{ID: a.ID, Name: a.Name, Bio: a.Bio, MovieIDs: a.MovieIDs})
	}
	return f.formatPeople(ctx, people)
}

// FormatDirector format một đạo diễn kèm danh sách phim
func (f *Formatter) FormatDirector(ctx context.Context, director catalogmodels.Director) (catalogdto.PersonView, error) {
	views, err := f.FormatDirectors(ctx, []catalogmodels.Director{director})
	if err != nil {
		return catalogdto.PersonView{}, err
	}
	return views[0], nil
}

// FormatDirectors format nhiều đạo diễn, phim của tất cả được lấy trong một truy vấn
func (f *Formatter) FormatDirectors(ctx context.Context, directors []catalogmodels.Director) ([]catalogdto.PersonView, error) {
	people := make([]person, 0, len(directors))
	for _, d := range directors {
		people = append(people, person{ID: d.ID, Name: d.Name, Bio: d.Bio, MovieIDs: d.MovieIDs})
	}
	return f.formatPeople(ctx, people)
}

func (f *Formatter) formatPeople(ctx context.Context, people []person) ([]catalogdto.PersonView, error) {
	views := make([]catalogdto.PersonView, 0, len(people))
	if len(people) == 0 {
		return views, nil
	}

	var movieIDs []primitive.ObjectID
	for _, p := range people {
		movieIDs = append(movieIDs, p.MovieIDs...)
	}
	movies, err := f.movies.FindManyByIds(ctx, utility.UniqueObjectIDs(movieIDs))
	if err != nil {
		return nil, err
	}
	movieViews, err := f.FormatMovies(ctx, movies)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalogdto.MovieView, len(movieViews))
	for _, v := range movieViews {
		byID[v.ID] = v
	}

	for _, p := range people {
		view := catalogdto.PersonView{
			ID:     utility.ObjectID2String(p.ID),
			Name:   p.Name,
			Bio:    p.Bio,
			Movies: []catalogdto.MovieView{},
		}
		for _, id := range utility.UniqueObjectIDs(p.MovieIDs) {
			if mv, ok := byID[id.Hex()]; ok {
				view.Movies = append(view.Movies, mv)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// FormatGenre format một thể loại (không có tham chiếu cần resolve)
func FormatGenre(genre catalogmodels.Genre) catalogdto.GenreView {
	return catalogdto.GenreView{
		ID:          utility.ObjectID2String(genre.ID),
		Name:        genre.Name,
		Description: genre.Description,
	}
}

// FormatGenres format danh sách thể loại
func FormatGenres(genres []catalogmodels.Genre) []catalogdto.GenreView {
	views := make([]catalogdto.GenreView, 0, len(genres))
	for _, g := range genres {
		views = append(views, FormatGenre(g))
	}
	return views
}

func indexByID[T any](items []T, id func(T) primitive.ObjectID) map[primitive.ObjectID]T {
	m := make(map[primitive.ObjectID]T, len(items))
	for _, item := range items {
		m[id(item)] = item
	}
	return m
}
