package catalogsvc

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/Kevindaniel6700/movie-time/internal/api/base/service"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
	"github.com/Kevindaniel6700/movie-time/internal/utility"
)

const (
	featuredLimit = 5
	relatedLimit  = 5
)

// MovieService xử lý logic cho phim: danh sách, chi tiết, tìm kiếm, tạo/sửa/xóa
type MovieService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.Movie]
	actors    *basesvc.BaseServiceMongoImpl[catalogmodels.Actor]
	directors *basesvc.BaseServiceMongoImpl[catalogmodels.Director]
	formatter *Formatter
}

// ListMovies trả về các phim khớp bộ lọc, đã format
func (s *MovieService) ListMovies(ctx context.Context, params MovieFilterParams) ([]catalogdto.MovieView, error) {
	filter, err := BuildMovieFilter(params)
	if err != nil {
		return nil, err
	}
	movies, err := s.Find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return s.formatter.FormatMovies(ctx, movies)
}

// findMovie tìm phim theo id từ client
func (s *MovieService) findMovie(ctx context.Context, id string) (catalogmodels.Movie, error) {
	return findByRawID(ctx, s.BaseServiceMongoImpl, EntityMovie, id)
}

// GetMovie trả về chi tiết một phim
func (s *MovieService) GetMovie(ctx context.Context, id string) (catalogdto.MovieView, error) {
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return catalogdto.MovieView{}, err
	}
	return s.formatter.FormatMovie(ctx, movie)
}

// FeaturedMovies trả về tối đa 5 phim rating cao nhất, đánh dấu isFeatured
func (s *MovieService) FeaturedMovies(ctx context.Context) ([]catalogdto.MovieView, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(featuredLimit)
	movies, err := s.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	views, err := s.formatter.FormatMovies(ctx, movies)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].IsFeatured = true
	}
	return views, nil
}

// RelatedMovies trả về tối đa 5 phim có chung ít nhất một thể loại, không gồm chính nó
func (s *MovieService) RelatedMovies(ctx context.Context, id string) ([]catalogdto.MovieView, error) {
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(movie.GenreIDs) == 0 {
		return []catalogdto.MovieView{}, nil
	}

	filter := bson.M{
		"_id":       bson.M{"$ne": movie.ID},
		"genre_ids": bson.M{"$in": movie.GenreIDs},
	}
	related, err := s.Find(ctx, filter, options.Find().SetLimit(relatedLimit))
	if err != nil {
		return nil, err
	}
	return s.formatter.FormatMovies(ctx, related)
}

// CreateMovie tạo phim mới rồi thêm back-link vào diễn viên và đạo diễn (best effort).
// poster_url được lưu null để Enrichment Task xử lý ở lần khởi động sau.
func (s *MovieService) CreateMovie(ctx context.Context, input catalogdto.MovieCreateInput) (catalogdto.MovieView, error) {
	if err := global.ValidateStruct(input); err != nil {
		return catalogdto.MovieView{}, err
	}

	directorID, err := utility.DecodeObjectID(input.DirectorID)
	if err != nil {
		return catalogdto.MovieView{}, err
	}
	actorIDs, err := utility.DecodeObjectIDs(input.ActorIDs)
	if err != nil {
		return catalogdto.MovieView{}, err
	}
	genreIDs, err := utility.DecodeObjectIDs(input.GenreIDs)
	if err != nil {
		return catalogdto.MovieView{}, err
	}

	reviews := make([]catalogmodels.Review, 0, len(input.Reviews))
	for _, r := range input.Reviews {
		reviews = append(reviews, catalogmodels.Review{User: r.User, Comment: r.Comment, Rating: r.Rating})
	}

	created, err := s.InsertOne(ctx, catalogmodels.Movie{
		Title:       input.Title,
		ReleaseYear: input.ReleaseYear,
		Rating:      input.Rating,
		DirectorID:  directorID,
		ActorIDs:    utility.UniqueObjectIDs(actorIDs),
		GenreIDs:    utility.UniqueObjectIDs(genreIDs),
		PosterURL:   nil,
		Description: input.Description,
		Reviews:     reviews,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return catalogdto.MovieView{}, err
	}

	s.addBackLinks(ctx, created.ID, created.ActorIDs, created.DirectorID)
	return s.formatter.FormatMovie(ctx, created)
}

// UpdateMovie cập nhật một phần các field của phim.
// Khi actor_ids hoặc director_id đổi, back-link được thêm cho tham chiếu mới và gỡ khỏi tham chiếu cũ.
func (s *MovieService) UpdateMovie(ctx context.Context, id string, input catalogdto.MovieUpdateInput) (catalogdto.MovieView, error) {
	if err := global.ValidateStruct(input); err != nil {
		return catalogdto.MovieView{}, err
	}
	existing, err := s.findMovie(ctx, id)
	if err != nil {
		return catalogdto.MovieView{}, err
	}

	set := make(map[string]interface{})
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.ReleaseYear != nil {
		set["release_year"] = *input.ReleaseYear
	}
	if input.Rating != nil {
		set["rating"] = *input.Rating
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.PosterURL != nil {
		set["poster_url"] = *input.PosterURL
	}
	if input.DirectorID != nil {
		directorID, err := utility.DecodeObjectID(*input.DirectorID)
		if err != nil {
			return catalogdto.MovieView{}, err
		}
		set["director_id"] = directorID
	}
	if input.ActorIDs != nil {
		actorIDs, err := utility.DecodeObjectIDs(*input.ActorIDs)
		if err != nil {
			return catalogdto.MovieView{}, err
		}
		set["actor_ids"] = utility.UniqueObjectIDs(actorIDs)
	}
	if input.GenreIDs != nil {
		genreIDs, err := utility.DecodeObjectIDs(*input.GenreIDs)
		if err != nil {
			return catalogdto.MovieView{}, err
		}
		set["genre_ids"] = utility.UniqueObjectIDs(genreIDs)
	}

	if len(set) == 0 {
		return s.formatter.FormatMovie(ctx, existing)
	}

	updated, err := s.UpdateById(ctx, existing.ID, basesvc.UpdateData{Set: set})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return catalogdto.MovieView{}, common.NewNotFoundError(EntityMovie.NotFoundMessage(id))
		}
		return catalogdto.MovieView{}, err
	}

	addedActors, removedActors := diffObjectIDs(existing.ActorIDs, updated.ActorIDs)
	var addedDirector, removedDirector primitive.ObjectID
	if updated.DirectorID != existing.DirectorID {
		addedDirector, removedDirector = updated.DirectorID, existing.DirectorID
	}
	s.addBackLinks(ctx, updated.ID, addedActors, addedDirector)
	s.removeBackLinks(ctx, updated.ID, removedActors, removedDirector)

	return s.formatter.FormatMovie(ctx, updated)
}

// DeleteMovie chỉ xóa document của phim, back-link cũ trên diễn viên/đạo diễn được giữ nguyên
func (s *MovieService) DeleteMovie(ctx context.Context, id string) error {
	return deleteByRawID(ctx, s.BaseServiceMongoImpl, EntityMovie, id)
}

// addBackLinks thêm movieID vào movie_ids của diễn viên và đạo diễn. Lỗi chỉ được ghi log.
func (s *MovieService) addBackLinks(ctx context.Context, movieID primitive.ObjectID, actorIDs []primitive.ObjectID, directorID primitive.ObjectID) {
	update := basesvc.UpdateData{AddToSet: map[string]interface{}{"movie_ids": movieID}}
	s.applyBackLinks(ctx, movieID, actorIDs, directorID, update, "add")
}

// removeBackLinks gỡ movieID khỏi movie_ids của diễn viên và đạo diễn. Lỗi chỉ được ghi log.
func (s *MovieService) removeBackLinks(ctx context.Context, movieID primitive.ObjectID, actorIDs []primitive.ObjectID, directorID primitive.ObjectID) {
	update := basesvc.UpdateData{Pull: map[string]interface{}{"movie_ids": movieID}}
	s.applyBackLinks(ctx, movieID, actorIDs, directorID, update, "remove")
}

func (s *MovieService) applyBackLinks(ctx context.Context, movieID primitive.ObjectID, actorIDs []primitive.ObjectID, directorID primitive.ObjectID, update basesvc.UpdateData, action string) {
	log := logger.WithModule("catalog").WithFields(logrus.Fields{
		"movie_id": movieID.Hex(),
		"action":   action,
	})

	if len(actorIDs) > 0 {
		if _, err := s.actors.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": actorIDs}}, update); err != nil {
			log.WithError(err).Warn("Không thể cập nhật back-link movie_ids của diễn viên")
		}
	}
	if !directorID.IsZero() {
		if _, err := s.directors.UpdateMany(ctx, bson.M{"_id": directorID}, update); err != nil {
			log.WithError(err).WithField("director_id", directorID.Hex()).Warn("Không thể cập nhật back-link movie_ids của đạo diễn")
		}
	}
}

// diffObjectIDs trả về các id chỉ có trong after (added) và chỉ có trong before (removed)
func diffObjectIDs(before, after []primitive.ObjectID) (added, removed []primitive.ObjectID) {
	inBefore := make(map[primitive.ObjectID]struct{}, len(before))
	for _, id := range before {
		inBefore[id] = struct{}{}
	}
	inAfter := make(map[primitive.ObjectID]struct{}, len(after))
	for _, id := range after {
		inAfter[id] = struct{}{}
		if _, ok := inBefore[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if _, ok := inAfter[id]; !ok {
			removed = append(removed, id)
		}
	}
	return utility.UniqueObjectIDs(added), utility.UniqueObjectIDs(removed)
}
