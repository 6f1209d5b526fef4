package catalogsvc

import (
	"context"
	"time"

	basesvc "github.com/Kevindaniel6700/movie-time/internal/api/base/service"
	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
	catalogmodels "github.com/Kevindaniel6700/movie-time/internal/api/catalog/models"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/utility"
)

// ActorService xử lý logic cho diễn viên
type ActorService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.Actor]
	movies    *basesvc.BaseServiceMongoImpl[catalogmodels.Movie]
	formatter *Formatter
}

// ListActors trả về diễn viên, lọc theo phim (movie_id) và/hoặc thể loại (genre_id)
func (s *ActorService) ListActors(ctx context.Context, movieID, genreID string) ([]catalogdto.PersonView, error) {
	filter, matchNone, err := ActorListFilter(ctx, s.movies.Collection(), movieID, genreID)
	if err != nil {
		return nil, err
	}
	if matchNone {
		return []catalogdto.PersonView{}, nil
	}

	actors, err := s.Find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return s.formatter.FormatActors(ctx, actors)
}

// GetActor trả về diễn viên kèm danh sách phim
func (s *ActorService) GetActor(ctx context.Context, id string) (catalogdto.PersonView, error) {
	actor, err := findByRawID(ctx, s.BaseServiceMongoImpl, EntityActor, id)
	if err != nil {
		return catalogdto.PersonView{}, err
	}
	return s.formatter.FormatActor(ctx, actor)
}

// CreateActor tạo diễn viên, movie_ids được lưu như client gửi lên
func (s *ActorService) CreateActor(ctx context.Context, input catalogdto.PersonCreateInput) (catalogdto.PersonView, error) {
	if err := global.ValidateStruct(input); err != nil {
		return catalogdto.PersonView{}, err
	}
	movieIDs, err := utility.DecodeObjectIDs(input.MovieIDs)
	if err != nil {
		return catalogdto.PersonView{}, err
	}

	created, err := s.InsertOne(ctx, catalogmodels.Actor{
		Name:      input.Name,
		Bio:       input.Bio,
		MovieIDs:  utility.UniqueObjectIDs(movieIDs),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return catalogdto.PersonView{}, err
	}
	return s.formatter.FormatActor(ctx, created)
}

// DeleteActor xóa diễn viên, actor_ids trên phim không được dọn
func (s *ActorService) DeleteActor(ctx context.Context, id string) error {
	return deleteByRawID(ctx, s.BaseServiceMongoImpl, EntityActor, id)
}
